// Package markdown converts a small markdown subset into structured,
// renderable blocks: headings (levels 1-3), list items, fenced code blocks,
// paragraphs with bold and inline-code spans, and blank-line spacers.
// It is deliberately not CommonMark; it covers exactly what the remote agent
// emits in practice.
package markdown

import (
	"regexp"
	"strings"
)

// BlockKind identifies the concrete type of a Block.
type BlockKind string

const (
	KindHeading   BlockKind = "heading"
	KindListItem  BlockKind = "list_item"
	KindCodeBlock BlockKind = "code_block"
	KindParagraph BlockKind = "paragraph"
	KindSpacer    BlockKind = "spacer"
)

// Block is one renderable unit of agent output.
type Block interface {
	Kind() BlockKind
}

// Heading is a level 1-3 heading.
type Heading struct {
	Level int
	Spans []Span
}

func (Heading) Kind() BlockKind { return KindHeading }

// ListItem is a single bullet or numbered list entry.
type ListItem struct {
	Ordered bool
	Spans   []Span
}

func (ListItem) Kind() BlockKind { return KindListItem }

// CodeBlock holds the verbatim lines between a pair of code fences.
type CodeBlock struct {
	Lines []string
}

func (CodeBlock) Kind() BlockKind { return KindCodeBlock }

// Paragraph is a line of prose.
type Paragraph struct {
	Spans []Span
}

func (Paragraph) Kind() BlockKind { return KindParagraph }

// Spacer is an all-whitespace line. Consecutive blank lines each produce
// their own Spacer; they are not collapsed.
type Spacer struct{}

func (Spacer) Kind() BlockKind { return KindSpacer }

// SpanStyle is the inline style of a Span.
type SpanStyle string

const (
	StylePlain SpanStyle = "plain"
	StyleBold  SpanStyle = "bold"
	StyleCode  SpanStyle = "code"
)

// Span is a run of inline text with a single style.
type Span struct {
	Style SpanStyle
	Text  string
}

const fence = "```"

var orderedItemRe = regexp.MustCompile(`^(\d+)\. `)

// Render converts text into an ordered block sequence. It is pure and total:
// identical input yields identical output and no input is an error. An empty
// input renders to no blocks at all.
func Render(text string) []Block {
	if text == "" {
		return nil
	}

	var blocks []Block
	var codeLines []string
	inFence := false

	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), fence) {
			if inFence {
				blocks = append(blocks, CodeBlock{Lines: codeLines})
				codeLines = nil
			} else {
				codeLines = []string{}
			}
			inFence = !inFence
			continue
		}
		if inFence {
			// Everything inside a fence is verbatim, even lines that look
			// like headings or list items.
			codeLines = append(codeLines, line)
			continue
		}
		blocks = append(blocks, classifyLine(line))
	}

	// An unterminated fence still yields its accumulated lines; truncated
	// agent output must not lose content.
	if inFence {
		blocks = append(blocks, CodeBlock{Lines: codeLines})
	}

	return blocks
}

func classifyLine(line string) Block {
	switch {
	case strings.HasPrefix(line, "### "):
		return Heading{Level: 3, Spans: parseSpans(line[4:])}
	case strings.HasPrefix(line, "## "):
		return Heading{Level: 2, Spans: parseSpans(line[3:])}
	case strings.HasPrefix(line, "# "):
		return Heading{Level: 1, Spans: parseSpans(line[2:])}
	case strings.HasPrefix(line, "- "), strings.HasPrefix(line, "* "):
		return ListItem{Ordered: false, Spans: parseSpans(line[2:])}
	}
	if m := orderedItemRe.FindString(line); m != "" {
		return ListItem{Ordered: true, Spans: parseSpans(line[len(m):])}
	}
	if strings.TrimSpace(line) == "" {
		return Spacer{}
	}
	return Paragraph{Spans: parseSpans(line)}
}

// parseSpans resolves inline markup in two passes: the text is first split on
// ** pairs into alternating plain/bold runs, then each run is split on single
// backticks into alternating text/code runs. Empty fragments are skipped;
// they carry no visible content.
func parseSpans(text string) []Span {
	var spans []Span
	for i, run := range strings.Split(text, "**") {
		base := StylePlain
		if i%2 == 1 {
			base = StyleBold
		}
		for j, frag := range strings.Split(run, "`") {
			if frag == "" {
				continue
			}
			style := base
			if j%2 == 1 {
				style = StyleCode
			}
			spans = append(spans, Span{Style: style, Text: frag})
		}
	}
	return spans
}

// PlainText flattens spans back into their unstyled text. Used for
// width measurement and tests.
func PlainText(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.Text)
	}
	return b.String()
}
