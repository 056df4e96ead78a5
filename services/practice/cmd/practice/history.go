package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show saved practice sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			records := newHistoryStore().List()
			if len(records) == 0 {
				cmd.Println("history is empty")
				return nil
			}
			for _, r := range records {
				cmd.Printf("%s  %-20s %-30s %6.1f%%  %4d CPM  %ds\n",
					r.CompletedAt.Local().Format("2006-01-02 15:04"),
					r.Artist, r.Title,
					r.Stats.Accuracy, r.Stats.CPM, r.Stats.ElapsedTime)
			}
			return nil
		},
	}
	cmd.AddCommand(newHistoryClearCmd())
	return cmd
}

func newHistoryClearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all saved practice sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes && !confirm(cmd, "clear all practice history?") {
				cmd.Println("aborted")
				return nil
			}
			if err := newHistoryStore().Clear(); err != nil {
				return err
			}
			cmd.Println("history cleared")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(line), "y")
}
