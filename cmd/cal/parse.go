package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/cal-lang/cal/compiler/errors"
	"github.com/cal-lang/cal/internal/tooling"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a C/AL source file and report diagnostics",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	source, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	api := tooling.NewAPI(tooling.Config{
		MaxDepth:              viper.GetInt("max-depth"),
		AllowRdldataUnderflow: viper.GetBool("allow-rdldata-underflow"),
	}, newLogger())

	doc := api.Analyze(args[0], string(source), 0)
	diags := api.Diagnostics(args[0])

	if viper.GetString("format") == "json" {
		data, err := diags.ToJSON()
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("%d object(s), %d token(s)\n", len(doc.AST.Objects), len(doc.Tokens))
	errors.RenderList(os.Stdout, diags)
	if diags.HasErrors() {
		os.Exit(1)
	}
	return nil
}

// newLogger builds the CLI logger honoring --verbose
func newLogger() *zap.Logger {
	if !viper.GetBool("verbose") {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
