package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"aidigest/internal/config"
	"aidigest/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print the persisted run history per cluster key",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		store, err := history.NewStore(cfg.App.DataDir)
		if err != nil {
			return fmt.Errorf("failed to open run history store: %w", err)
		}

		counts, err := store.Load()
		if err != nil {
			return err
		}
		if len(counts) == 0 {
			fmt.Println("no run history recorded yet")
			return nil
		}

		keys := make([]string, 0, len(counts))
		for key := range counts {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			values := make([]string, len(counts[key]))
			for i, v := range counts[key] {
				values[i] = fmt.Sprintf("%d", v)
			}
			fmt.Printf("%-24s %s\n", key, strings.Join(values, " "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
