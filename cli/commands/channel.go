package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/petal-labs/ocbot/core"
)

func (a *App) newChannelCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "channel",
		Short: "Create and delete community channels",
	}

	var (
		public      bool
		description string
		rules       string
	)
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a channel in a community",
		Long: `Create a channel in the community given by --community.

Example:
  ocbot channel create announcements --community comm1 --public`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actx, err := a.communityContext()
			if err != nil {
				return a.fail(err)
			}
			rt, err := a.runtime()
			if err != nil {
				return a.fail(err)
			}

			resp, err := core.NewClient(rt, actx).
				CreateChannel(args[0], public).
				WithDescription(description).
				WithRules(rules).
				Execute(cmd.Context())
			if err != nil {
				return a.fail(err)
			}

			if a.jsonOutput {
				return a.printJSON(resp)
			}
			fmt.Fprintf(a.stdout, "Channel %s created: %s\n", args[0], resp.ChannelID)
			return nil
		},
	}
	create.Flags().BoolVar(&public, "public", false, "make the channel public")
	create.Flags().StringVar(&description, "description", "", "channel description")
	create.Flags().StringVar(&rules, "rules", "", "channel rules")

	del := &cobra.Command{
		Use:   "delete <channel-id>",
		Short: "Delete a channel from a community",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actx, err := a.communityContext()
			if err != nil {
				return a.fail(err)
			}
			rt, err := a.runtime()
			if err != nil {
				return a.fail(err)
			}

			if err := core.NewClient(rt, actx).DeleteChannel(core.ChannelID(args[0])).Execute(cmd.Context()); err != nil {
				return a.fail(err)
			}

			if a.jsonOutput {
				return a.printJSON(map[string]string{"deleted": args[0]})
			}
			fmt.Fprintf(a.stdout, "Channel %s deleted.\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(create, del)
	return cmd
}
