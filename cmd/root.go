package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "aidigest",
	Short: "aidigest monitors AI & robotics sources and emails a clustered intelligence digest.",
	Long: `aidigest ingests commits, research papers, and news articles, scores them
for relevance, collapses cross-source duplicates, clusters them into topics,
annotates each topic with trend and urgency derived from run history, and
renders the result as an HTML digest.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.aidigest.yaml)")
}
