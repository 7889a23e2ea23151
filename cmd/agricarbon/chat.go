package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Veraticus/agricarbon/internal/cli"
	"github.com/Veraticus/agricarbon/internal/session"
	"github.com/spf13/cobra"
)

func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Ask the carbon credit expert questions",
		Long: `Start a conversation with the carbon credit expert without an analysis.

Type your question and press Enter. Type "exit" or press Ctrl+D to leave.

To discuss a specific result, use "agricarbon analyze IMAGE --chat" instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			svc, err := newClient(cfg)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			interruptHandler := cli.NewInterruptHandler(cmd.ErrOrStderr())
			ctx = interruptHandler.HandleInterrupts(ctx, "Chat")

			return runChatLoop(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), session.New(svc))
		},
	}
}

// runChatLoop reads questions until exit, end of input or cancellation.
func runChatLoop(ctx context.Context, in io.Reader, out io.Writer, sess *session.Session) error {
	reader := cli.NewNonBlockingReader(in)

	intro := cli.FormatTitle("What can I help with?") + "\n" +
		cli.SubtleStyle.Render("AI can make mistakes. Please double-check responses.")
	if _, err := fmt.Fprintln(out, intro); err != nil {
		return err
	}

	for {
		if _, err := fmt.Fprint(out, cli.UserStyle.Render("You")+cli.FormatPrompt("")); err != nil {
			return err
		}

		line, readErr := reader.ReadLine(ctx)
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			if errors.Is(readErr, cli.ErrInputCancelled) {
				return ctx.Err()
			}
			return fmt.Errorf("failed to read input: %w", readErr)
		}

		switch strings.ToLower(line) {
		case "exit", "quit":
			return nil
		}

		if line != "" {
			reply, sent := sess.Ask(ctx, line)
			if sent {
				if _, err := fmt.Fprintf(out, "%s %s\n\n", cli.BotStyle.Render(cli.RobotIcon+" Expert:"), reply.Content); err != nil {
					return err
				}
			}
		}

		if readErr != nil {
			_, err := fmt.Fprintln(out)
			return err
		}
	}
}
