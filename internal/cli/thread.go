package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teambrain/threadctl/internal/db"
	"github.com/teambrain/threadctl/internal/export"
)

func newThreadCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "thread <message-id>",
		Short: "Reconstruct the thread containing a message",
		Long:  "Reconstruct the complete conversation thread containing the given message: backward to the thread origin, forward through every reply.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runThread(cmd, rt, args)
		},
	}
	cmd.Flags().StringP("format", "f", export.FormatMarkdown, "Output format (markdown, json, text)")
	cmd.Flags().StringP("output", "o", "", "Write output to a file instead of stdout")
	cmd.Flags().Bool("no-content", false, "Exclude full message content")
	return cmd
}

func runThread(cmd *cobra.Command, rt *runtime, args []string) error {
	messageID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return Exitf(ExitCodeFailure, "invalid message id %q", args[0])
	}

	format, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")
	noContent, _ := cmd.Flags().GetBool("no-content")

	renderer, err := export.ForFormat(format, !noContent)
	if err != nil {
		return Exitf(ExitCodeFailure, "%v", err)
	}

	database, reconstructor, err := rt.openStore()
	if err != nil {
		return err
	}
	defer database.Close()

	thread, err := reconstructor.Reconstruct(context.Background(), messageID)
	if err != nil {
		if errors.Is(err, db.ErrMessageNotFound) {
			return Exitf(ExitCodeNotFound, "%s Message #%d not found", iconError, messageID)
		}
		return err
	}

	output, err := renderer.Render(thread)
	if err != nil {
		return err
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, []byte(output), 0o644); err != nil {
			return Exitf(ExitCodeFailure, "write output: %v", err)
		}
		summary := thread.Summarize()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s Thread exported to %s\n", iconOK, outputPath)
		fmt.Fprintf(out, "   Messages: %d | Depth: %d\n", summary.MessageCount, summary.Depth)
		fmt.Fprintf(out, "   Participants: %s\n", strings.Join(summary.Participants, ", "))
		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), output)
	return nil
}
