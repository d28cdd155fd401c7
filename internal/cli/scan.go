package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teambrain/threadctl/internal/export"
	"github.com/teambrain/threadctl/internal/thread"
)

func newScanCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan for significant threads",
		Long:  "Scan the store for threads that meet minimum depth, message count, and participant thresholds, most active first.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, reconstructor, err := rt.openStore()
			if err != nil {
				return err
			}
			defer database.Close()

			criteria := rt.scanCriteria(cmd)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s Scanning for significant threads...\n", iconInfo)
			fmt.Fprintf(out, "   Criteria: depth >= %d, messages >= %d, participants >= %d\n\n",
				criteria.MinDepth, criteria.MinMessages, criteria.MinParticipants)

			threads, err := reconstructor.ScanSignificant(context.Background(), criteria)
			if err != nil {
				return err
			}

			verbose, _ := cmd.Flags().GetBool("verbose")
			fmt.Fprintln(out, export.FormatThreadList(threads, verbose))
			return nil
		},
	}

	cmd.Flags().Int("min-depth", 0, "Minimum thread depth")
	cmd.Flags().Int("min-messages", 0, "Minimum messages")
	cmd.Flags().Int("min-participants", 0, "Minimum participants")
	cmd.Flags().IntP("limit", "n", 20, "Maximum threads to return")
	cmd.Flags().BoolP("verbose", "v", false, "Verbose output")
	return cmd
}

// scanCriteria merges flag values with configured defaults; flags win when
// explicitly set.
func (rt *runtime) scanCriteria(cmd *cobra.Command) thread.Criteria {
	criteria := thread.Criteria{
		MinDepth:        rt.cfg.Query.MinDepth,
		MinMessages:     rt.cfg.Query.MinMessages,
		MinParticipants: rt.cfg.Query.MinParticipants,
		Limit:           rt.limitOrDefault(cmd, "limit"),
	}
	if cmd.Flags().Changed("min-depth") {
		criteria.MinDepth, _ = cmd.Flags().GetInt("min-depth")
	}
	if cmd.Flags().Changed("min-messages") {
		criteria.MinMessages, _ = cmd.Flags().GetInt("min-messages")
	}
	if cmd.Flags().Changed("min-participants") {
		criteria.MinParticipants, _ = cmd.Flags().GetInt("min-participants")
	}
	return criteria
}
