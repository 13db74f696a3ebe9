// ABOUTME: Interactive terminal UI command
// ABOUTME: Logs to a debug file in the config directory so the screen stays clean

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/anuncia/anuncia-cli/internal/client"
	"github.com/anuncia/anuncia-cli/internal/logger"
	"github.com/anuncia/anuncia-cli/internal/tui"
	"github.com/anuncia/anuncia-cli/internal/tui/recentfiles"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Start the interactive interface",
	Long: `Start the interactive interface.

Log in, browse your listings, create and edit listings, upload images
and update your profile. Debug logs are written to debug.log in the
config directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		return runTUI(ctx)
	},
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.APIURL == "" {
		return client.ErrBaseURLNotConfigured
	}

	log, err := logger.InitFile(cfg.ConfigDir, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Aviso: log de depuração desativado: %v\n", err)
	}
	defer logger.Close()

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	log.Info("tui started", "api_url", cfg.APIURL, "session_backend", cfg.SessionBackend)
	err = tui.Run(ctx, a.client, a.store, recentfiles.New(cfg.ConfigDir))
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
