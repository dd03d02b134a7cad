package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/petal-labs/ocbot/core"
)

type sendOptions struct {
	text      string
	noWait    bool
	thread    uint32
	markdown  bool
	messageID string
}

func (a *App) newSendCommand() *cobra.Command {
	var opts sendOptions

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a text message",
		Long: `Send a text message to a chat as the bot.

Examples:
  ocbot send --chat group:abc --text "Hello"
  ocbot send --chat channel:comm/chan --text "Deploy done" --no-wait
  ocbot send --chat direct:user1 --text "**hi**" --markdown --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSend(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.text, "text", "", "message text (required)")
	cmd.Flags().BoolVar(&opts.noWait, "no-wait", false, "return as soon as the send is initiated")
	cmd.Flags().Uint32Var(&opts.thread, "thread", 0, "root message index of the thread to reply in")
	cmd.Flags().BoolVar(&opts.markdown, "markdown", false, "render block level markdown")
	cmd.Flags().StringVar(&opts.messageID, "message-id", "", "message ID to use (default: generated)")
	_ = cmd.MarkFlagRequired("text")

	return cmd
}

func (a *App) runSend(cmd *cobra.Command, opts sendOptions) error {
	actx, err := a.chatContext()
	if err != nil {
		return a.fail(err)
	}
	rt, err := a.runtime()
	if err != nil {
		return a.fail(err)
	}

	client := core.NewClient(rt, actx)
	builder := client.SendTextMessage(opts.text).WithBlockLevelMarkdown(opts.markdown)
	if cmd.Flags().Changed("thread") {
		builder = builder.WithThread(core.MessageIndex(opts.thread))
	}
	if opts.messageID != "" {
		builder = builder.WithMessageID(core.MessageID(opts.messageID))
	}

	// A fire-and-forget send still has to finish before the process exits.
	done := make(chan error, 1)
	if opts.noWait {
		builder = builder.FireAndForget().OnResponse(func(_ *core.SendMessageResponse, err error) {
			done <- err
		})
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	result, err := builder.Execute(ctx)
	if err != nil {
		return a.fail(err)
	}

	if err := a.printMessage(result.Message); err != nil {
		return err
	}

	if opts.noWait {
		if err := <-done; err != nil {
			a.logger.Warn("fire-and-forget send failed", "message_id", string(result.Message.ID), "error", err)
			return a.fail(err)
		}
	}
	return nil
}

func (a *App) printMessage(m *core.Message) error {
	if a.jsonOutput {
		return a.printJSON(m)
	}
	if m.Pending {
		fmt.Fprintf(a.stdout, "Message %s queued.\n", m.ID)
		return nil
	}
	fmt.Fprintf(a.stdout, "Message %s sent (event %d, message %d).\n", m.ID, m.EventIndex, m.MessageIndex)
	return nil
}
