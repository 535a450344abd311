package main

import (
	"fmt"
	"time"
)

// ConversationsCmd manages stored conversations without entering chat.
type ConversationsCmd struct {
	List   ConversationsListCmd   `cmd:"" default:"1" help:"List stored conversations"`
	Delete ConversationsDeleteCmd `cmd:"" help:"Delete a conversation by id"`
}

type ConversationsListCmd struct{}

func (c *ConversationsListCmd) Run(cli *CLI) error {
	a, err := buildApp(cli)
	if err != nil {
		return err
	}
	defer a.Close()

	snap := a.Store.Snapshot()
	if len(snap.Conversations) == 0 {
		fmt.Println("no conversations")
		return nil
	}
	for _, conv := range snap.Conversations {
		updated := time.UnixMilli(conv.UpdatedAt).Format("2006-01-02 15:04")
		fmt.Printf("%s  %-40s  %3d messages  %s\n", conv.ID, conv.Title, len(conv.Messages), updated)
	}
	return nil
}

type ConversationsDeleteCmd struct {
	ID string `arg:"" help:"Conversation id to delete"`
}

func (c *ConversationsDeleteCmd) Run(cli *CLI) error {
	a, err := buildApp(cli)
	if err != nil {
		return err
	}
	defer a.Close()

	if _, ok := a.Store.Conversation(c.ID); !ok {
		return fmt.Errorf("conversation %s not found", c.ID)
	}
	a.Store.DeleteConversation(c.ID)
	fmt.Printf("deleted %s\n", c.ID)
	return nil
}
