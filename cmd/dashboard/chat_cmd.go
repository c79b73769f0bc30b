package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/capitalize-ai/agent-dashboard/internal/model"
	"github.com/capitalize-ai/agent-dashboard/internal/service"
)

func newChatCmd(opts *rootOptions) *cobra.Command {
	var (
		message     string
		userID      string
		showContext bool
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the agent as a test user",
		Long: "Without --message, reads one message per line from stdin.\n" +
			"/reset starts a new conversation, /quit leaves.",
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load(cmd, false)
			if err != nil {
				return err
			}
			chat := a.services.Chat
			if userID != "" {
				chat = service.NewChatService(a.services.Connector, a.services.Activity, a.log, service.WithChatUser(userID))
			}
			out := cmd.OutOrStdout()

			if message != "" {
				reply, err := chat.Send(cmd.Context(), message)
				if err != nil {
					return widgetError("send message", err)
				}
				printChatMessage(out, reply, showContext)
				return nil
			}
			return chatLoop(cmd, chat, showContext)
		},
	}
	cmd.Flags().StringVarP(&message, "message", "m", "", "Send one message and exit")
	cmd.Flags().StringVar(&userID, "user", "", "User ID sent to the agent (default "+service.DefaultChatUserID+")")
	cmd.Flags().BoolVar(&showContext, "context", false, "Print retrieved knowledge chunks under each reply")
	return cmd
}

// chatLoop keeps the conversation going until EOF or /quit. A failed send
// is reported and the loop goes on.
func chatLoop(cmd *cobra.Command, chat *service.ChatService, showContext bool) error {
	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(cmd.InOrStdin())

	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/reset":
			chat.Reset()
			fmt.Fprintln(out, "conversation cleared")
			continue
		}

		if err := cmd.Context().Err(); err != nil {
			return err
		}
		reply, err := chat.Send(cmd.Context(), line)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), service.OperatorMessage("send message", err))
			continue
		}
		printChatMessage(out, reply, showContext)
	}
}

func printChatMessage(w io.Writer, m model.ChatMessage, showContext bool) {
	fmt.Fprintf(w, "%s [%s]: %s\n", m.Sender, m.Time, m.Text)
	if !showContext {
		return
	}
	for i, chunk := range m.Context {
		fmt.Fprintf(w, "  context %d: %s\n", i+1, chunk)
	}
}
