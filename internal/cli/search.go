package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teambrain/threadctl/internal/export"
)

func newTopicCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "topic <query>",
		Short: "Find threads by topic",
		Long:  "Find threads containing at least one message whose content includes the given substring.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			database, reconstructor, err := rt.openStore()
			if err != nil {
				return err
			}
			defer database.Close()

			limit := rt.limitOrDefault(cmd, "limit")
			threads, err := reconstructor.FindByTopic(context.Background(), args[0], limit)
			if err != nil {
				return err
			}

			verbose, _ := cmd.Flags().GetBool("verbose")
			fmt.Fprintln(cmd.OutOrStdout(), export.FormatThreadList(threads, verbose))
			return nil
		},
	}
	addListFlags(cmd)
	return cmd
}

func newParticipantCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "participant <name>",
		Short: "Find threads by participant",
		Long:  "Find threads in which a sender matching the given substring (id or display name) took part.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			database, reconstructor, err := rt.openStore()
			if err != nil {
				return err
			}
			defer database.Close()

			limit := rt.limitOrDefault(cmd, "limit")
			threads, err := reconstructor.FindByParticipant(context.Background(), args[0], limit)
			if err != nil {
				return err
			}

			verbose, _ := cmd.Flags().GetBool("verbose")
			fmt.Fprintln(cmd.OutOrStdout(), export.FormatThreadList(threads, verbose))
			return nil
		},
	}
	addListFlags(cmd)
	return cmd
}

func addListFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("limit", "n", 20, "Maximum threads to return")
	cmd.Flags().BoolP("verbose", "v", false, "Verbose output")
}
