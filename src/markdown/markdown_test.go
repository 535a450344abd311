package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderEmpty(t *testing.T) {
	assert.Empty(t, Render(""))
}

func TestRenderHeadings(t *testing.T) {
	tests := []struct {
		line  string
		level int
		text  string
	}{
		{"# Title", 1, "Title"},
		{"## Section", 2, "Section"},
		{"### Detail", 3, "Detail"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			blocks := Render(tt.line)
			require.Len(t, blocks, 1)
			h, ok := blocks[0].(Heading)
			require.True(t, ok)
			assert.Equal(t, tt.level, h.Level)
			assert.Equal(t, tt.text, PlainText(h.Spans))
		})
	}
}

func TestRenderListItems(t *testing.T) {
	blocks := Render("- one\n* two\n3. three")
	require.Len(t, blocks, 3)

	first := blocks[0].(ListItem)
	assert.False(t, first.Ordered)
	assert.Equal(t, "one", PlainText(first.Spans))

	second := blocks[1].(ListItem)
	assert.False(t, second.Ordered)
	assert.Equal(t, "two", PlainText(second.Spans))

	third := blocks[2].(ListItem)
	assert.True(t, third.Ordered)
	assert.Equal(t, "three", PlainText(third.Spans))
}

func TestOrderedItemNeedsSingleSpace(t *testing.T) {
	blocks := Render("1.no space")
	require.Len(t, blocks, 1)
	assert.Equal(t, KindParagraph, blocks[0].Kind())
}

func TestRenderCodeBlock(t *testing.T) {
	blocks := Render("```\na\nb\n```")
	require.Len(t, blocks, 1)
	cb, ok := blocks[0].(CodeBlock)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, cb.Lines)
}

func TestRenderUnterminatedFence(t *testing.T) {
	blocks := Render("```\na")
	require.Len(t, blocks, 1)
	cb, ok := blocks[0].(CodeBlock)
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, cb.Lines)
}

func TestFenceSuppressesClassification(t *testing.T) {
	blocks := Render("```\n# not a heading\n- not a list\n```")
	require.Len(t, blocks, 1)
	cb := blocks[0].(CodeBlock)
	assert.Equal(t, []string{"# not a heading", "- not a list"}, cb.Lines)
}

func TestEmptyFenceYieldsEmptyCodeBlock(t *testing.T) {
	blocks := Render("```\n```")
	require.Len(t, blocks, 1)
	cb := blocks[0].(CodeBlock)
	assert.Empty(t, cb.Lines)
}

func TestConsecutiveBlankLinesNotCollapsed(t *testing.T) {
	blocks := Render("a\n\n\nb")
	require.Len(t, blocks, 4)
	assert.Equal(t, KindParagraph, blocks[0].Kind())
	assert.Equal(t, KindSpacer, blocks[1].Kind())
	assert.Equal(t, KindSpacer, blocks[2].Kind())
	assert.Equal(t, KindParagraph, blocks[3].Kind())
}

func TestWhitespaceOnlyLineIsSpacer(t *testing.T) {
	blocks := Render("   \t ")
	require.Len(t, blocks, 1)
	assert.Equal(t, KindSpacer, blocks[0].Kind())
}

func TestInlineSpans(t *testing.T) {
	blocks := Render("**bold** and `code`")
	require.Len(t, blocks, 1)
	p, ok := blocks[0].(Paragraph)
	require.True(t, ok)
	assert.Equal(t, []Span{
		{Style: StyleBold, Text: "bold"},
		{Style: StylePlain, Text: " and "},
		{Style: StyleCode, Text: "code"},
	}, p.Spans)
}

func TestInlineCodeInsideBoldRun(t *testing.T) {
	blocks := Render("**call `f` now**")
	require.Len(t, blocks, 1)
	p := blocks[0].(Paragraph)
	assert.Equal(t, []Span{
		{Style: StyleBold, Text: "call "},
		{Style: StyleCode, Text: "f"},
		{Style: StyleBold, Text: " now"},
	}, p.Spans)
}

func TestInlineSpansInHeading(t *testing.T) {
	blocks := Render("## The **big** one")
	require.Len(t, blocks, 1)
	h := blocks[0].(Heading)
	assert.Equal(t, "The big one", PlainText(h.Spans))
	require.Len(t, h.Spans, 3)
	assert.Equal(t, StyleBold, h.Spans[1].Style)
}

func TestRenderDeterministic(t *testing.T) {
	const input = "# h\n\n- a\n1. b\n```\nx\n```\ntail **b**"
	assert.Equal(t, Render(input), Render(input))
}

func TestMixedDocument(t *testing.T) {
	input := "# Results\n\nHere you go:\n```\nfor i := range xs {\n}\n```\n- done"
	blocks := Render(input)
	require.Len(t, blocks, 5)
	assert.Equal(t, KindHeading, blocks[0].Kind())
	assert.Equal(t, KindSpacer, blocks[1].Kind())
	assert.Equal(t, KindParagraph, blocks[2].Kind())
	assert.Equal(t, KindCodeBlock, blocks[3].Kind())
	assert.Equal(t, KindListItem, blocks[4].Kind())

	cb := blocks[3].(CodeBlock)
	assert.Equal(t, []string{"for i := range xs {", "}"}, cb.Lines)
}
