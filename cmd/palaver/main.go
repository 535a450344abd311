package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
)

// CLI is the top-level command structure.
type CLI struct {
	Config   string `help:"Path to config file" type:"path"`
	APIKey   string `env:"PALAVER_API_KEY" help:"Agent API key"`
	BaseURL  string `help:"Custom agent API base URL"`
	LogLevel string `default:"" help:"Log level (debug|info|warn|error)"`

	Chat          ChatCmd          `cmd:"" default:"1" help:"Interactive chat (default)"`
	Conversations ConversationsCmd `cmd:"" help:"List and manage stored conversations"`
	Render        RenderCmd        `cmd:"" help:"Render markdown from stdin or an argument"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("palaver"),
		kong.Description("Terminal chat client for a remote conversational agent"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	err := ctx.Run(&cli)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
