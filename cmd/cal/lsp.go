package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cal-lang/cal/internal/lsp"
	"github.com/cal-lang/cal/internal/tooling"
)

var lspCmd = &cobra.Command{
	Use:   "lsp",
	Short: "Start the Language Server Protocol server",
	Long: `Start the C/AL Language Server Protocol server.

The server provides diagnostics, document symbols, folding ranges and
semantic tokens. It communicates via JSON-RPC over stdin/stdout and is
typically started by the editor.`,
	RunE: runLSP,
}

func runLSP(cmd *cobra.Command, args []string) error {
	api := tooling.NewAPI(tooling.Config{
		MaxDepth:              viper.GetInt("max-depth"),
		AllowRdldataUnderflow: viper.GetBool("allow-rdldata-underflow"),
	}, newLogger())

	server := lsp.NewServer(api, newLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	return server.Run(ctx)
}
