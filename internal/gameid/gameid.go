package gameid

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Base32 alphabet used by TypeID (Crockford's base32)
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length of an encoded game ID
const Length = 26

// Allocator hands out process-unique opaque game identifiers
type Allocator interface {
	NewID() string
}

// Generator allocates game IDs from UUIDv7 values encoded as 26-character
// base32 strings. IDs sort by creation time.
type Generator struct {
	mu   sync.Mutex
	rand io.Reader
}

// NewGenerator creates a generator. A nil reader uses crypto/rand; tests can
// pass a seeded reader for reproducible IDs.
func NewGenerator(r io.Reader) *Generator {
	return &Generator{rand: r}
}

// Generate creates a new game ID using crypto/rand
func Generate() string {
	return NewGenerator(nil).NewID()
}

// NewID implements Allocator
func (g *Generator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	var (
		id  uuid.UUID
		err error
	)
	if g.rand != nil {
		id, err = uuid.NewV7FromReader(g.rand)
	} else {
		id, err = uuid.NewV7()
	}
	if err != nil {
		panic("failed to generate game id: " + err.Error())
	}
	return Encode(id)
}

// Encode encodes a 128-bit UUID as a 26-character base32 string. The value
// is treated as 130 bits with two leading zero bits, so the first character
// is always between '0' and '7'.
func Encode(id uuid.UUID) string {
	var out [Length]byte
	for i := range out {
		var v byte
		for b := range 5 {
			pos := i*5 + b - 2
			v <<= 1
			if pos >= 0 && id[pos/8]&(0x80>>(pos%8)) != 0 {
				v |= 1
			}
		}
		out[i] = alphabet[v]
	}
	return string(out[:])
}

// Parse decodes a game ID back into its UUID
func Parse(s string) (uuid.UUID, error) {
	if err := Validate(s); err != nil {
		return uuid.UUID{}, err
	}

	var id uuid.UUID
	for i := range Length {
		v := strings.IndexByte(alphabet, s[i])
		for b := range 5 {
			pos := i*5 + b - 2
			if pos < 0 {
				continue
			}
			if v&(0x10>>b) != 0 {
				id[pos/8] |= 0x80 >> (pos % 8)
			}
		}
	}
	return id, nil
}

// Validate checks if a game ID is valid (26 characters, valid base32)
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("game ID must be exactly %d characters, got %d", Length, len(id))
	}

	if id[0] > '7' {
		return fmt.Errorf("game ID first character must be 0-7, got %c", id[0])
	}

	for i := range len(id) {
		if strings.IndexByte(alphabet, id[i]) < 0 {
			return fmt.Errorf("invalid character %c at position %d", id[i], i)
		}
	}

	return nil
}
