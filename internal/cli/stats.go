package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/teambrain/threadctl/internal/db"
)

func newStatsCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show database statistics",
		Long:  "Show message, sender, and channel counts plus the store's time range.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, _, err := rt.openStore()
			if err != nil {
				return err
			}
			defer database.Close()

			repo := db.NewMessageRepository(database)
			stats, err := repo.Stats(context.Background())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Database Statistics")
			fmt.Fprintln(out, strings.Repeat("=", 40))

			writer := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
			fmt.Fprintf(writer, "Total messages:\t%d\n", stats.TotalMessages)
			fmt.Fprintf(writer, "Reply messages:\t%d\n", stats.ReplyMessages)
			fmt.Fprintf(writer, "Unique senders:\t%d\n", stats.UniqueSenders)
			fmt.Fprintf(writer, "Channels:\t%d\n", stats.Channels)
			fmt.Fprintf(writer, "Earliest message:\t%s\n", orUnknown(stats.EarliestMessage))
			fmt.Fprintf(writer, "Latest message:\t%s\n", orUnknown(stats.LatestMessage))
			return writer.Flush()
		},
	}
}

func orUnknown(value *string) string {
	if value == nil || *value == "" {
		return "(none)"
	}
	return *value
}
