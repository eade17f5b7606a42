package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cal-lang/cal/compiler/lexer"
)

var lexCmd = &cobra.Command{
	Use:   "lex <file>",
	Short: "Tokenize a C/AL source file and report clean-exit state",
	Args:  cobra.ExactArgs(1),
	RunE:  runLex,
}

func runLex(cmd *cobra.Command, args []string) error {
	source, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	l := lexer.New(string(source))
	l.SetAllowRdldataUnderflow(viper.GetBool("allow-rdldata-underflow"))
	l.SetLogger(newLogger())
	tokens, report := l.Tokenize()

	if viper.GetString("format") == "json" {
		out := struct {
			Tokens []lexer.Token `json:"tokens"`
			Passed bool          `json:"clean_exit"`
		}{tokens, report.Passed}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	for _, tok := range tokens {
		fmt.Println(tok)
	}
	if report.Passed {
		fmt.Println("clean exit")
	} else {
		for _, v := range report.Violations {
			fmt.Println(v)
		}
	}
	return nil
}
