package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/petal-labs/ocbot/core"
)

func (a *App) newChatCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Read chat details and events",
	}
	cmd.AddCommand(a.newChatDetailsCommand(), a.newChatEventsCommand())
	return cmd
}

func (a *App) newChatDetailsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "details",
		Short: "Show details of the chat given by --chat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			actx, err := a.chatContext()
			if err != nil {
				return a.fail(err)
			}
			rt, err := a.runtime()
			if err != nil {
				return a.fail(err)
			}

			d, err := core.NewClient(rt, actx).ChatDetails().Execute(cmd.Context())
			if err != nil {
				return a.fail(err)
			}

			if a.jsonOutput {
				return a.printJSON(d)
			}
			fmt.Fprintf(a.stdout, "%s\n", d.Name)
			if d.Description != "" {
				fmt.Fprintf(a.stdout, "  description:  %s\n", d.Description)
			}
			fmt.Fprintf(a.stdout, "  public:       %t\n", d.IsPublic)
			fmt.Fprintf(a.stdout, "  members:      %d\n", d.MemberCount)
			fmt.Fprintf(a.stdout, "  latest event: %d\n", d.LatestEventIndex)
			if d.Frozen {
				fmt.Fprintln(a.stdout, "  frozen")
			}
			return nil
		},
	}
}

type eventsOptions struct {
	start       uint32
	ascending   bool
	maxEvents   uint32
	maxMessages uint32
	indexes     []uint
	latest      uint32
	around      uint32
	thread      uint32
}

func (a *App) newChatEventsCommand() *cobra.Command {
	var opts eventsOptions

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List events of the chat given by --chat",
		Long: `List chat events. Without a selector the latest --max events are shown.
Otherwise select them by page (--start or --ascending), by index, around a
message or as the latest N.

Examples:
  ocbot chat events --chat group:abc
  ocbot chat events --chat group:abc --start 10 --max 20 --ascending
  ocbot chat events --chat group:abc --index 3,4,9
  ocbot chat events --chat group:abc --around 12 --max 10
  ocbot chat events --chat group:abc --latest 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			actx, err := a.chatContext()
			if err != nil {
				return a.fail(err)
			}
			rt, err := a.runtime()
			if err != nil {
				return a.fail(err)
			}

			builder := core.NewClient(rt, actx).ChatEvents(eventsCriteria(cmd, opts))
			if cmd.Flags().Changed("thread") {
				builder = builder.WithThread(core.MessageIndex(opts.thread))
			}

			resp, err := builder.Execute(cmd.Context())
			if err != nil {
				return a.fail(err)
			}

			if a.jsonOutput {
				return a.printJSON(resp)
			}
			if len(resp.Events) == 0 {
				fmt.Fprintln(a.stdout, "No events.")
				return nil
			}
			for _, e := range resp.Events {
				fmt.Fprintln(a.stdout, formatEvent(e))
			}
			return nil
		},
	}

	cmd.Flags().Uint32Var(&opts.start, "start", 0, "event index to start the page at")
	cmd.Flags().BoolVar(&opts.ascending, "ascending", false, "page forward from --start")
	cmd.Flags().Uint32Var(&opts.maxEvents, "max", 50, "maximum events to return")
	cmd.Flags().Uint32Var(&opts.maxMessages, "max-messages", 50, "maximum messages to return")
	cmd.Flags().UintSliceVar(&opts.indexes, "index", nil, "event indexes to fetch")
	cmd.Flags().Uint32Var(&opts.latest, "latest", 0, "return the latest N events")
	cmd.Flags().Uint32Var(&opts.around, "around", 0, "message index to center a window on")
	cmd.Flags().Uint32Var(&opts.thread, "thread", 0, "root message index of a thread")
	cmd.MarkFlagsMutuallyExclusive("index", "latest", "around", "start")

	return cmd
}

func eventsCriteria(cmd *cobra.Command, opts eventsOptions) core.EventsSelectionCriteria {
	flags := cmd.Flags()
	switch {
	case flags.Changed("index"):
		events := make([]core.EventIndex, len(opts.indexes))
		for i, idx := range opts.indexes {
			events[i] = core.EventIndex(idx)
		}
		return core.EventsByIndex{Events: events}
	case flags.Changed("latest"):
		return core.EventsLatest{MaxEvents: opts.latest}
	case flags.Changed("around"):
		return core.EventsWindow{
			MidPoint:    core.MessageIndex(opts.around),
			MaxMessages: opts.maxMessages,
			MaxEvents:   opts.maxEvents,
		}
	case flags.Changed("start"), flags.Changed("ascending"):
		return core.EventsPage{
			StartIndex:  core.EventIndex(opts.start),
			Ascending:   opts.ascending,
			MaxMessages: opts.maxMessages,
			MaxEvents:   opts.maxEvents,
		}
	default:
		return core.EventsLatest{MaxEvents: opts.maxEvents}
	}
}

func formatEvent(e core.ChatEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#%d %s %s", e.Index, e.Timestamp.Format("2006-01-02 15:04:05"), e.Kind)

	switch {
	case e.Message != nil:
		m := e.Message
		fmt.Fprintf(&b, " [%d] %s: %s", m.MessageIndex, m.Sender, contentSummary(m.Content))
		if m.Edited {
			b.WriteString(" (edited)")
		}
	case e.Channel != nil:
		fmt.Fprintf(&b, " %s (%s)", e.Channel.Name, e.Channel.ChannelID)
	case e.User != "":
		fmt.Fprintf(&b, " %s", e.User)
	}
	return b.String()
}

func contentSummary(c core.MessageContent) string {
	switch v := c.(type) {
	case core.TextContent:
		return v.Text
	case core.ImageContent:
		return "[image]"
	case core.FileContent:
		return "[file]"
	case core.PollContent:
		return "[poll] " + v.Question
	case nil:
		return "[unsupported content]"
	default:
		return "[" + string(v.ContentKind()) + "]"
	}
}
