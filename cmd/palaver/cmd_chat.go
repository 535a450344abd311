package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sbellin/palaver/src/app"
	"github.com/sbellin/palaver/src/chat"
	"github.com/sbellin/palaver/src/display"
)

// ChatCmd is the interactive chat loop.
type ChatCmd struct {
	Conversation string `help:"Select a conversation by id on startup"`
}

func (c *ChatCmd) Run(cli *CLI) error {
	a, err := buildApp(cli)
	if err != nil {
		return err
	}
	defer a.Close()

	if c.Conversation != "" {
		a.Store.SelectConversation(c.Conversation)
	}

	renderer := display.NewRenderer(a.Config.Display.Width, a.Config.Display.Highlight)
	ctx := context.Background()

	fmt.Println("palaver — /new /list /select <n> /delete <n> /retry /quit")
	printActive(a)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "/quit", line == "/q":
			return nil
		case line == "/new":
			conv := a.Store.CreateConversation()
			fmt.Printf("started %s\n", conv.ID)
		case line == "/list":
			printList(a)
		case line == "/retry":
			before := messageCount(a)
			a.Dispatcher.Retry(ctx)
			if messageCount(a) == before {
				fmt.Println("nothing to retry")
			} else {
				printReply(a, renderer)
			}
		case strings.HasPrefix(line, "/select "):
			if conv, ok := nthConversation(a, strings.TrimPrefix(line, "/select ")); ok {
				a.Store.SelectConversation(conv.ID)
				printActive(a)
			} else {
				fmt.Println("no such conversation")
			}
		case strings.HasPrefix(line, "/delete "):
			if conv, ok := nthConversation(a, strings.TrimPrefix(line, "/delete ")); ok {
				a.Store.DeleteConversation(conv.ID)
				fmt.Printf("deleted %s\n", conv.ID)
			} else {
				fmt.Println("no such conversation")
			}
		case line == "":
			// Blank input is a no-op, same as an empty send.
		default:
			a.Dispatcher.Send(ctx, line)
			printReply(a, renderer)
		}
	}
	return scanner.Err()
}

func printActive(a *app.App) {
	if conv, ok := a.Store.Active(); ok {
		fmt.Printf("[%s]\n", conv.Title)
	}
}

func printList(a *app.App) {
	snap := a.Store.Snapshot()
	if len(snap.Conversations) == 0 {
		fmt.Println("no conversations")
		return
	}
	for i, conv := range snap.Conversations {
		marker := " "
		if conv.ID == snap.ActiveID {
			marker = "*"
		}
		fmt.Printf("%s %2d. %s (%d messages)\n", marker, i+1, conv.Title, len(conv.Messages))
	}
}

// nthConversation resolves a 1-based index from /list.
func nthConversation(a *app.App, arg string) (chat.Conversation, bool) {
	var n int
	if _, err := fmt.Sscanf(strings.TrimSpace(arg), "%d", &n); err != nil {
		return chat.Conversation{}, false
	}
	snap := a.Store.Snapshot()
	if n < 1 || n > len(snap.Conversations) {
		return chat.Conversation{}, false
	}
	return snap.Conversations[n-1], true
}

func messageCount(a *app.App) int {
	total := 0
	for _, conv := range a.Store.Snapshot().Conversations {
		total += len(conv.Messages)
	}
	return total
}

// printReply renders the newest assistant message of the active
// conversation.
func printReply(a *app.App, renderer *display.Renderer) {
	conv, ok := a.Store.Active()
	if !ok || len(conv.Messages) == 0 {
		return
	}
	last := conv.Messages[len(conv.Messages)-1]
	if last.Role != chat.RoleAssistant {
		return
	}
	if last.Error {
		fmt.Println(renderer.RenderError(last.Content))
		return
	}
	fmt.Println(renderer.RenderText(last.Content))
}
