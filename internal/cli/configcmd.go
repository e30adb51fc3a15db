package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"sportadmin/internal/config"
	"sportadmin/internal/format"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or edit config.yaml",
	}
	cmd.AddCommand(newConfigShowCmd(app))
	cmd.AddCommand(newConfigSetCmd(app))
	return cmd
}

func newConfigShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration (token redacted)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.cfg
			token := ""
			if strings.TrimSpace(cfg.Token) != "" {
				token = "<redacted>"
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"baseURL":     cfg.BaseURL,
					"token":       token,
					"tokenSource": app.tokenSource,
					"timeout":     cfg.Timeout.String(),
					"format":      cfg.Format,
					"logLevel":    cfg.LogLevel,
					"logFile":     cfg.LogFile,
					"endpoints":   cfg.Endpoints,
				},
				"meta": map[string]any{
					"dir":  cfg.Dir,
					"path": filepath.Join(cfg.Dir, config.FileName),
				},
			})
		},
	}
}

func newConfigSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:       "set <key> <value>",
		Short:     "Set one key in config.yaml",
		Long:      "Set one key in config.yaml. Keys: " + strings.Join(config.Keys(), ", "),
		Args:      cobra.ExactArgs(2),
		ValidArgs: config.Keys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			if strings.EqualFold(strings.TrimSpace(key), "format") && !format.Valid(strings.TrimSpace(value)) {
				return writeErr(cmd, fmt.Errorf("unknown format: %s (want json|edn|yaml|table)", value))
			}

			// Edit the file view so environment overrides are not persisted.
			cfg, err := config.LoadFile(app.cfg.Dir)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := cfg.Set(key, value); err != nil {
				return writeErr(cmd, err)
			}
			if err := config.Save(cfg); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"key": key, "value": strings.TrimSpace(value)},
				"meta": map[string]any{"path": filepath.Join(cfg.Dir, config.FileName)},
			})
		},
	}
}
