/*
Copyright © 2025 Petro Khomenko

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/petrokh/tolmach/internal/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the exchange history",
	Long:  `List, inspect, and clear the SQLite history of completed exchanges.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent exchanges",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := history.New(viper.GetString("db"))
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer store.Close()

		entries, err := store.List(context.Background(), historyLimit)
		if err != nil {
			return fmt.Errorf("failed to list exchanges: %w", err)
		}

		if len(entries) == 0 {
			fmt.Println("No exchanges in history.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "WHEN\tPAIR\tSERVICE\tSOURCE\tTRANSLATION")
		for _, e := range entries {
			src := e.SourceText
			if len(src) > 40 {
				src = src[:37] + "..."
			}
			dst := e.TranslatedText
			if len(dst) > 40 {
				dst = dst[:37] + "..."
			}
			fmt.Fprintf(w, "%s\t%s→%s\t%s\t%s\t%s\n",
				e.Timestamp.Format("2006-01-02 15:04"),
				e.SourceLang, e.TargetLang, e.Service, src, dst)
		}
		return w.Flush()
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all exchanges",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := history.New(viper.GetString("db"))
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer store.Close()

		n, err := store.Clear(context.Background())
		if err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		fmt.Printf("Deleted %d exchanges.\n", n)
		return nil
	},
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show history statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := history.New(viper.GetString("db"))
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer store.Close()

		stats, err := store.Stats(context.Background())
		if err != nil {
			return fmt.Errorf("failed to read stats: %w", err)
		}

		fmt.Printf("Exchanges:     %d\n", stats.TotalExchanges)
		fmt.Printf("Services used: %d\n", stats.ServicesUsed)
		if !stats.OldestExchange.IsZero() {
			fmt.Printf("Oldest:        %s\n", stats.OldestExchange.Format("2006-01-02 15:04"))
			fmt.Printf("Newest:        %s\n", stats.NewestExchange.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyStatsCmd)

	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 50, "Maximum number of exchanges to show (0 = all)")
}
