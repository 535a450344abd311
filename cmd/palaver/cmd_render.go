package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sbellin/palaver/src/display"
)

// RenderCmd renders markdown to the terminal, a debugging aid for the
// block renderer.
type RenderCmd struct {
	Text      string `arg:"" optional:"" help:"Markdown text; reads stdin when omitted"`
	Width     int    `default:"0" help:"Truncate lines to this width"`
	Highlight bool   `default:"true" negatable:"" help:"Syntax-highlight code blocks"`
}

func (c *RenderCmd) Run(cli *CLI) error {
	text := c.Text
	if text == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		text = string(data)
	}

	renderer := display.NewRenderer(c.Width, c.Highlight)
	fmt.Println(renderer.RenderText(text))
	return nil
}
