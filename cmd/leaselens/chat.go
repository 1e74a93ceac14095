package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/leaselens/internal/assistant"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the AI assistant",
	Long: `Start an interactive chat session with the AI assistant.

The assistant answers general questions about the service and lease topics.
Type a message and press enter; an empty line or Ctrl+D ends the session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := newLogger()

		mgr, err := loadConfig()
		if err != nil {
			return err
		}
		client, err := resolveClient(mgr, logger)
		if err != nil {
			return err
		}

		session, err := assistant.New(ctx, client, logger)
		if err != nil {
			return err
		}

		// Print the greeting the session was seeded with.
		for _, msg := range session.Messages() {
			fmt.Printf("ai> %s\n", msg.Text)
		}

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("you> ")
			if !scanner.Scan() {
				break
			}
			text := strings.TrimSpace(scanner.Text())
			if text == "" {
				break
			}

			if err := session.Send(ctx, text); err != nil {
				return err
			}
			msgs := session.Messages()
			fmt.Printf("ai> %s\n", msgs[len(msgs)-1].Text)
		}

		return scanner.Err()
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
