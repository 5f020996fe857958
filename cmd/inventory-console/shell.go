package main

import (
	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/odyssey-erp/inventory-console/internal/inventory"
	"github.com/odyssey-erp/inventory-console/internal/shell"
)

func newShellCmd(cc *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive console in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			console := inventory.NewConsole(cc.client(), consoleConfig(cc.cfg), inventory.WithLogger(cc.logger))
			defer console.Close()

			locale, err := language.Parse(cc.cfg.Locale)
			if err != nil {
				locale = language.English
			}
			return shell.New(console, cc.stdout, locale).Run(cmd.Context(), cc.stdin)
		},
	}
}
