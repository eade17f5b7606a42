package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cal",
		Short: "C/AL analysis core and language server",
		Long: `cal analyzes C/AL source: it tokenizes with clean-exit validation,
parses with structured error recovery, builds symbol tables, and serves
editors over the Language Server Protocol.`,
	}

	rootCmd.PersistentFlags().Int("max-depth", 100, "logical nesting depth limit for walks")
	rootCmd.PersistentFlags().Bool("allow-rdldata-underflow", false, "suppress the context-underflow violation for report layout exports")
	rootCmd.PersistentFlags().String("format", "text", "output format: text or json")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")

	viper.SetEnvPrefix("CAL")
	viper.AutomaticEnv()
	for _, flag := range []string{"max-depth", "allow-rdldata-underflow", "format", "verbose"} {
		if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	rootCmd.AddCommand(lexCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(symbolsCmd)
	rootCmd.AddCommand(lspCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
