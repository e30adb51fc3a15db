package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"sportadmin/internal/auth"

	"github.com/spf13/cobra"
)

func newAuthCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the admin bearer token (stored in the OS keyring)",
	}
	cmd.AddCommand(newAuthLoginCmd(app))
	cmd.AddCommand(newAuthLogoutCmd(app))
	cmd.AddCommand(newAuthStatusCmd(app))
	return cmd
}

func newAuthLoginCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Store a token for the current base URL (reads stdin when --token is not given)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tok := ""
			if cmd.Flags().Changed("token") {
				tok = strings.TrimSpace(app.Token)
			}
			if tok == "" {
				fmt.Fprint(cmd.ErrOrStderr(), "Token: ")
				line, err := bufio.NewReader(stdin(cmd)).ReadString('\n')
				if err != nil && !errors.Is(err, io.EOF) {
					return writeErr(cmd, err)
				}
				tok = strings.TrimSpace(line)
			}
			if err := auth.Set(app.cfg.BaseURL, tok); err != nil {
				return writeErr(cmd, err)
			}
			info := auth.Inspect(tok, time.Now())
			warnExpiry(cmd, info)
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"baseURL": app.cfg.BaseURL, "stored": true, "token": info},
			})
		},
	}
}

func newAuthLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored token for the current base URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := auth.Delete(app.cfg.BaseURL); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"baseURL": app.cfg.BaseURL, "stored": false},
			})
		},
	}
}

func newAuthStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show where the token comes from and when it expires",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data := map[string]any{
				"baseURL": app.cfg.BaseURL,
				"source":  app.tokenSource,
				"present": app.client.HasToken(),
			}
			if app.client.HasToken() {
				info := auth.Inspect(app.cfg.Token, time.Now())
				data["token"] = info
				warnExpiry(cmd, info)
			}
			return writeOut(cmd, app, map[string]any{"data": data})
		},
	}
}

func warnExpiry(cmd *cobra.Command, info auth.Info) {
	if info.Expired {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: token expired at %s\n", info.ExpiresAt.Format(time.RFC3339))
	}
}
