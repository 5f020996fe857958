package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/odyssey-erp/inventory-console/internal/api"
	"github.com/odyssey-erp/inventory-console/internal/app"
	"github.com/odyssey-erp/inventory-console/internal/inventory"
)

// cliContext carries the state shared by every subcommand.
type cliContext struct {
	apiURL string
	format string

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	cfg    *app.Config
	logger *slog.Logger
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cc := &cliContext{stdin: stdin, stdout: stdout, stderr: stderr}
	root := &cobra.Command{
		Use:   "inventory-console",
		Short: "Inventory admin console for the inventory API",
		Long: `inventory-console browses and edits the items held by an inventory API.

Run "serve" for the browser console, "shell" for an interactive terminal
session, or use the one-shot commands from scripts.

Examples:
  inventory-console items --search lamp
  inventory-console --format json categories
  inventory-console create --name Stapler --category "Office Supplies" --sku OFF-001 --quantity 4 --price 12.50`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cc.setup()
		},
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&cc.apiURL, "api", "", "Inventory API base URL (overrides API_BASE_URL)")
	root.PersistentFlags().StringVarP(&cc.format, "format", "f", "table", "Output format: table|json|yaml")

	root.AddCommand(
		newServeCmd(cc),
		newShellCmd(cc),
		newItemsCmd(cc),
		newCategoriesCmd(cc),
		newLowStockCmd(cc),
		newGetCmd(cc),
		newCreateCmd(cc),
		newUpdateCmd(cc),
		newDeleteCmd(cc),
		newHealthCmd(cc),
	)
	return root
}

func (cc *cliContext) setup() error {
	switch cc.format {
	case formatTable, formatJSON, formatYAML:
	default:
		return fmt.Errorf("unknown format %q (want table, json or yaml)", cc.format)
	}
	cfg, err := app.LoadClientConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cc.apiURL != "" {
		cfg.APIBaseURL = cc.apiURL
	}
	cc.cfg = cfg
	cc.logger = app.NewLoggerTo(cc.stderr, cfg)
	return nil
}

func (cc *cliContext) client(opts ...api.Option) *api.Client {
	base := []api.Option{api.WithTimeout(cc.cfg.APITimeout), api.WithLogger(cc.logger)}
	return api.NewClient(cc.cfg.APIBaseURL, append(base, opts...)...)
}

func consoleConfig(cfg *app.Config) inventory.Config {
	return inventory.Config{
		PerPage:           cfg.PageSize,
		LowStockThreshold: cfg.LowStockThreshold,
		SearchDebounce:    cfg.SearchDebounce,
		NotificationTTL:   cfg.NotificationTTL,
	}
}
