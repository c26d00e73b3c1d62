package gameid

import (
	rand "math/rand/v2"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestGenerate(t *testing.T) {
	id := Generate()

	if len(id) != Length {
		t.Errorf("expected %d characters, got %d", Length, len(id))
	}

	if err := Validate(id); err != nil {
		t.Errorf("generated ID failed validation: %v", err)
	}
}

func TestGeneratorUnique(t *testing.T) {
	gen := NewGenerator(nil)
	ids := make(map[string]bool)

	for i := 0; i < 1000; i++ {
		id := gen.NewID()
		if ids[id] {
			t.Fatalf("duplicate ID generated: %s", id)
		}
		ids[id] = true
	}
}

func TestGeneratorTimeSorted(t *testing.T) {
	gen := NewGenerator(rand.NewChaCha8([32]byte{1}))

	prev := gen.NewID()
	for i := 0; i < 50; i++ {
		next := gen.NewID()
		if strings.Compare(prev, next) >= 0 {
			t.Errorf("IDs not sorted: %s >= %s", prev, next)
		}
		prev = next
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	for i := 0; i < 20; i++ {
		want := uuid.Must(uuid.NewV7())
		got, err := Parse(Encode(want))
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if got != want {
			t.Errorf("round trip mismatch: %s != %s", got, want)
		}
	}
}

func TestEncodeKnownValues(t *testing.T) {
	if got := Encode(uuid.UUID{}); got != strings.Repeat("0", Length) {
		t.Errorf("zero UUID encoded as %s", got)
	}

	var full uuid.UUID
	for i := range full {
		full[i] = 0xff
	}
	if got := Encode(full); got != "7"+strings.Repeat("z", Length-1) {
		t.Errorf("max UUID encoded as %s", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{
			name:    "valid ID",
			id:      "01h5n0et5q6mt3v7ms1234abcd",
			wantErr: false,
		},
		{
			name:    "too short",
			id:      "01h5n0et5q6mt3v7ms123",
			wantErr: true,
		},
		{
			name:    "too long",
			id:      "01h5n0et5q6mt3v7ms1234abcdef",
			wantErr: true,
		},
		{
			name:    "first char too high",
			id:      "81h5n0et5q6mt3v7ms1234abcd",
			wantErr: true,
		},
		{
			name:    "invalid character",
			id:      "01h5n0et5q6mt3v7ms1234abci",
			wantErr: true,
		},
		{
			name:    "uppercase not allowed",
			id:      "01H5N0ET5Q6MT3V7MS1234ABCD",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAlphabet(t *testing.T) {
	if len(alphabet) != 32 {
		t.Errorf("alphabet should have 32 characters, got %d", len(alphabet))
	}

	seen := make(map[rune]bool)
	for _, char := range alphabet {
		if seen[char] {
			t.Errorf("duplicate character in alphabet: %c", char)
		}
		seen[char] = true
	}

	// Crockford drops i, l, o and u
	for _, char := range "ilou" {
		if strings.ContainsRune(alphabet, char) {
			t.Errorf("alphabet should not contain %c", char)
		}
	}
}
