package main

import (
	"context"
	"fmt"
	"time"

	"github.com/newsportal/internal/queue"

	"github.com/spf13/cobra"
)

func digestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Weekly digest emails",
	}
	cmd.AddCommand(digestRunCmd())
	return cmd
}

func digestRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Send the digest for the last window now",
		RunE: func(cmd *cobra.Command, args []string) error {
			days, _ := cmd.Flags().GetInt("window-days")
			async, _ := cmd.Flags().GetBool("async")

			c, err := openContainer()
			if err != nil {
				return err
			}

			if async {
				client, err := queue.NewClient(&c.Config.Queue)
				if err != nil {
					return err
				}
				defer client.Close()
				if err := client.EnqueueWeeklyDigest(queue.WeeklyDigestPayload{WindowDays: days}); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "digest task enqueued")
				return nil
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
			defer cancel()
			result, err := c.DigestService.RunWindow(ctx, time.Now(), days)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "categories: %d, sent: %d, failed: %d\n", result.Categories, result.Sent, result.Failed)
			return nil
		},
	}
	cmd.Flags().Int("window-days", 0, "posts published in the last N days, 0 uses digest.window_days")
	cmd.Flags().Bool("async", false, "enqueue the digest for the worker instead of sending inline")
	return cmd
}
