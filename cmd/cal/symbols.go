package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cal-lang/cal/internal/tooling"
)

var symbolsCmd = &cobra.Command{
	Use:   "symbols <file>",
	Short: "List the symbols declared in a C/AL source file",
	Args:  cobra.ExactArgs(1),
	RunE:  runSymbols,
}

func runSymbols(cmd *cobra.Command, args []string) error {
	source, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	api := tooling.NewAPI(tooling.Config{
		MaxDepth:              viper.GetInt("max-depth"),
		AllowRdldataUnderflow: viper.GetBool("allow-rdldata-underflow"),
	}, newLogger())
	api.Analyze(args[0], string(source), 0)

	table := api.SymbolsFor(args[0])
	for _, sym := range table.GetAllSymbols() {
		line, column := 0, 0
		if sym.Decl != nil && sym.Decl.Start() != nil {
			line, column = sym.Decl.Start().Line, sym.Decl.Start().Column
		}
		fmt.Printf("%-10s %-40s %d:%d\n", sym.Kind, sym.Name, line, column)
	}
	return nil
}
