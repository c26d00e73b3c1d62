// Package display draws klondike snapshots as text.
//
// The layout is one header line with the draw pile count, the waste top and
// the four foundations, then the seven columns side by side with ? for each
// concealed card, then an index footer matching the numbers used by the
// move commands:
//
//	 21  7♣      A♥ __♦ __♣ __♠
//
//	 K♠   ?   ?   ?   ?   ?   ?
//	     Q♦   ?   ?   ?   ?   ?
//	...
//	[0] [1] [2] [3] [4] [5] [6]
package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lox/klondike/cards"
	"github.com/lox/klondike/internal/klondike"
	"github.com/muesli/termenv"
)

const cellWidth = 3

// Footer labels the columns
const Footer = "[0] [1] [2] [3] [4] [5] [6]"

// Renderer draws snapshots with a fixed set of styles
type Renderer struct {
	red    lipgloss.Style
	black  lipgloss.Style
	hidden lipgloss.Style
	empty  lipgloss.Style
}

// NewRenderer creates a Renderer whose styles target r
func NewRenderer(r *lipgloss.Renderer) *Renderer {
	return &Renderer{
		red:    r.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
		black:  r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FAFAFA"}).Bold(true),
		hidden: r.NewStyle().Foreground(lipgloss.Color("#626262")),
		empty:  r.NewStyle().Foreground(lipgloss.Color("#626262")),
	}
}

// Plain returns a Renderer that never emits escape codes
func Plain() *Renderer {
	r := lipgloss.NewRenderer(io.Discard, termenv.WithProfile(termenv.Ascii))
	r.SetColorProfile(termenv.Ascii)
	return NewRenderer(r)
}

var defaultRenderer = NewRenderer(lipgloss.DefaultRenderer())

// Render draws s using the terminal's color profile
func Render(s klondike.Snapshot) string {
	return defaultRenderer.Render(s)
}

// Render draws s
func (r *Renderer) Render(s klondike.Snapshot) string {
	var b strings.Builder

	b.WriteString(r.header(s))
	b.WriteString("\n\n")

	for line := 0; ; line++ {
		row, more := r.row(s.Tableaus, line)
		if !more {
			break
		}
		b.WriteString(row)
		b.WriteString("\n")
	}

	b.WriteString(Footer)
	return b.String()
}

func (r *Renderer) header(s klondike.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%*d ", cellWidth, s.DrawPileSize)
	if s.WasteTop == nil {
		b.WriteString(r.empty.Render("___"))
	} else {
		b.WriteString(r.card(*s.WasteTop))
	}
	b.WriteString("    ")

	for _, suit := range cards.Suits {
		b.WriteString(" ")
		if v := s.Foundations.Of(suit); v == 0 {
			b.WriteString(r.empty.Render("__" + suit.String()))
		} else {
			b.WriteString(r.card(cards.NewCard(v, suit)))
		}
	}
	return b.String()
}

// row draws one line across all columns. It reports false once every column
// has run out of cards.
func (r *Renderer) row(tableaus [klondike.TableauCount]klondike.TableauView, line int) (string, bool) {
	var b strings.Builder
	more := false
	for _, t := range tableaus {
		switch {
		case line < t.Concealed:
			b.WriteString(pad(r.hidden.Render("?")))
			more = true
		case line-t.Concealed < len(t.Exposed):
			b.WriteString(r.card(t.Exposed[line-t.Concealed]))
			more = true
		default:
			b.WriteString(strings.Repeat(" ", cellWidth))
		}
		b.WriteString(" ")
	}
	return strings.TrimRight(b.String(), " "), more
}

// card draws c right aligned in a cell, colored by suit
func (r *Renderer) card(c cards.Card) string {
	style := r.black
	if c.Color() == cards.Red {
		style = r.red
	}
	return pad(style.Render(c.String()))
}

func pad(s string) string {
	if w := lipgloss.Width(s); w < cellWidth {
		return strings.Repeat(" ", cellWidth-w) + s
	}
	return s
}
