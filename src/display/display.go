// Package display renders structured markdown blocks as styled terminal
// output. Display only; it never feeds back into conversation state.
package display

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/sbellin/palaver/src/markdown"
)

const chromaStyle = "monokai"

// Renderer renders block sequences for a terminal.
type Renderer struct {
	// Width truncates over-long lines when positive.
	Width int
	// Highlight enables chroma syntax highlighting for code blocks.
	Highlight bool

	heading1 lipgloss.Style
	heading2 lipgloss.Style
	heading3 lipgloss.Style
	bold     lipgloss.Style
	code     lipgloss.Style
	bullet   lipgloss.Style
	errText  lipgloss.Style
}

// NewRenderer creates a renderer with the default style set.
func NewRenderer(width int, highlight bool) *Renderer {
	return &Renderer{
		Width:     width,
		Highlight: highlight,
		heading1:  lipgloss.NewStyle().Bold(true).Underline(true),
		heading2:  lipgloss.NewStyle().Bold(true),
		heading3:  lipgloss.NewStyle().Bold(true).Faint(true),
		bold:      lipgloss.NewStyle().Bold(true),
		code:      lipgloss.NewStyle().Foreground(lipgloss.Color("213")),
		bullet:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		errText:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
	}
}

// Render converts blocks to a printable string, one line per block plus code
// block contents.
func (r *Renderer) Render(blocks []markdown.Block) string {
	var out []string
	ordinal := 0

	for _, block := range blocks {
		switch b := block.(type) {
		case markdown.Heading:
			ordinal = 0
			out = append(out, r.headingStyle(b.Level).Render(r.spans(b.Spans)))
		case markdown.ListItem:
			marker := r.bullet.Render("•")
			if b.Ordered {
				ordinal++
				marker = r.bullet.Render(fmt.Sprintf("%d.", ordinal))
			} else {
				ordinal = 0
			}
			out = append(out, marker+" "+r.spans(b.Spans))
		case markdown.CodeBlock:
			ordinal = 0
			out = append(out, r.codeBlock(b.Lines))
		case markdown.Paragraph:
			ordinal = 0
			out = append(out, r.spans(b.Spans))
		case markdown.Spacer:
			ordinal = 0
			out = append(out, "")
		}
	}

	if r.Width > 0 {
		for i := range out {
			out[i] = ansi.Truncate(out[i], r.Width, "…")
		}
	}
	return strings.Join(out, "\n")
}

// RenderText is a convenience for rendering raw agent markdown.
func (r *Renderer) RenderText(text string) string {
	return r.Render(markdown.Render(text))
}

// RenderError styles an error-flagged assistant message.
func (r *Renderer) RenderError(text string) string {
	return r.errText.Render(text)
}

func (r *Renderer) headingStyle(level int) lipgloss.Style {
	switch level {
	case 1:
		return r.heading1
	case 2:
		return r.heading2
	default:
		return r.heading3
	}
}

func (r *Renderer) spans(spans []markdown.Span) string {
	var b strings.Builder
	for _, s := range spans {
		switch s.Style {
		case markdown.StyleBold:
			b.WriteString(r.bold.Render(s.Text))
		case markdown.StyleCode:
			b.WriteString(r.code.Render(s.Text))
		default:
			b.WriteString(s.Text)
		}
	}
	return b.String()
}

func (r *Renderer) codeBlock(lines []string) string {
	source := strings.Join(lines, "\n")
	if r.Highlight {
		if lexer := lexers.Analyse(source); lexer != nil {
			var buf strings.Builder
			if err := quick.Highlight(&buf, source, lexer.Config().Name, "terminal256", chromaStyle); err == nil {
				return buf.String()
			}
		}
	}
	return r.code.Render(source)
}
