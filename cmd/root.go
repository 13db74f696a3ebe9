// ABOUTME: Root command for the anuncia CLI
// ABOUTME: Handles global flags, configuration and wiring of the session store and API client

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/anuncia/anuncia-cli/internal/client"
	"github.com/anuncia/anuncia-cli/internal/config"
	"github.com/anuncia/anuncia-cli/internal/logger"
	"github.com/anuncia/anuncia-cli/internal/session"
	"github.com/anuncia/anuncia-cli/internal/validation"
	"github.com/spf13/cobra"
)

var (
	apiURL     string
	jsonOutput bool
	configDir  string
	noPersist  bool
)

// Exit codes
const (
	exitOK    = 0
	exitUsage = 1
	exitAPI   = 2
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "anuncia",
	Short: "CLI for the Anuncia classified-ads marketplace",
	Long: `anuncia is a command-line client for the Anuncia marketplace.

Sellers can register, log in, manage their profile and publish, edit,
sell or deactivate product listings. Run "anuncia tui" for the
interactive interface.

Environment Variables:
  ANUNCIA_API_URL          Backend API URL (required)
  ANUNCIA_HTTP_TIMEOUT     Request timeout (default: 30s)
  ANUNCIA_CONFIG_DIR       Session and log directory (default: ~/.config/anuncia)
  ANUNCIA_SESSION_BACKEND  file, sqlite or memory (default: file)
  ANUNCIA_LOG_LEVEL        debug, info, warn, error (default: info)
  ANUNCIA_LOG_FORMAT       text or json (default: text)`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides ANUNCIA_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Session and log directory (overrides ANUNCIA_CONFIG_DIR)")
	rootCmd.PersistentFlags().BoolVar(&noPersist, "no-persist", false, "Keep the session in memory for this run only")
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// loadConfig reads the environment and applies flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.APIURL = config.NormalizeURL(apiURL)
	}
	if configDir != "" {
		cfg.ConfigDir = configDir
	}
	if noPersist {
		cfg.SessionBackend = config.BackendMemory
	}
	return cfg, nil
}

// app bundles the dependencies every command needs.
type app struct {
	cfg    *config.Config
	store  *session.Store
	client *client.Client
	close  func()
}

// newApp opens the configured session backend and builds an API client that
// reads its bearer token from the session store.
func newApp(ctx context.Context, cfg *config.Config, log *slog.Logger) (*app, error) {
	var (
		storage session.Storage
		closeFn = func() {}
	)
	switch cfg.SessionBackend {
	case config.BackendSQLite:
		s, err := session.OpenSQLiteStorage(ctx, cfg.ConfigDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open session database: %w", err)
		}
		storage = s
		closeFn = func() { s.Close() }
	case config.BackendMemory:
		storage = session.NewMemoryStorage()
	default:
		storage = session.NewFileStorage(cfg.ConfigDir)
	}

	store := session.New(storage, session.WithLogger(log))
	c := client.New(cfg.APIURL,
		client.WithTimeout(cfg.HTTPTimeout),
		client.WithTokenSource(store),
		client.WithLogger(log),
	)
	return &app{cfg: cfg, store: store, client: c, close: closeFn}, nil
}

// Close releases the session backend.
func (a *app) Close() {
	if a.close != nil {
		a.close()
	}
}

// runCommand wires signal handling and dependencies, runs fn and exits
// with its code.
func runCommand(fn func(ctx context.Context, a *app, w io.Writer) int) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	code := func() int {
		defer cancel()

		cfg, err := loadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Erro: %v\n", err)
			return exitUsage
		}
		log := logger.Init(os.Stderr, cfg.LogLevel, cfg.LogFormat)

		a, err := newApp(ctx, cfg, log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Erro: %v\n", err)
			return exitUsage
		}
		defer a.Close()

		return fn(ctx, a, os.Stdout)
	}()

	if code != exitOK {
		os.Exit(code)
	}
}

// requireSession reports a missing or expired session. Expired sessions
// are cleared by the check itself.
func requireSession(a *app, w io.Writer) bool {
	if a.store.IsValid() {
		return true
	}
	reportError(w, session.ErrNoSession)
	return false
}

var (
	errSessionNotSaved   = errors.New("Não foi possível salvar a sessão.")
	errSessionNotCleared = errors.New("Não foi possível encerrar a sessão.")
)

// errorOutput is the JSON shape of a failed command.
type errorOutput struct {
	Error  string                  `json:"error"`
	Status int                     `json:"status,omitempty"`
	Kind   string                  `json:"kind,omitempty"`
	Fields []validation.FieldError `json:"fields,omitempty"`
}

// reportError prints err and returns the matching exit code. Validation
// failures, missing sessions and configuration errors are usage errors;
// everything from the API is exitAPI.
func reportError(w io.Writer, err error) int {
	out := errorOutput{Error: err.Error()}
	code := exitAPI

	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		if len(verrs) == 1 && verrs[0].Field == "" {
			out.Error = verrs[0].Message
		} else {
			out.Error = "Dados inválidos."
			out.Fields = verrs
		}
		code = exitUsage
	case errors.Is(err, session.ErrNoSession),
		errors.Is(err, client.ErrBaseURLNotConfigured),
		errors.Is(err, errSessionNotSaved),
		errors.Is(err, errSessionNotCleared):
		code = exitUsage
	default:
		if apiErr, ok := client.AsAPIError(err); ok {
			out.Status = apiErr.Status
			out.Kind = apiErr.Kind.String()
		}
	}

	if IsJSONOutput() {
		printJSON(w, out)
		return code
	}

	fmt.Fprintf(w, "Erro: %s\n", out.Error)
	for _, fe := range out.Fields {
		fmt.Fprintf(w, "  %s: %s\n", fe.Field, fe.Message)
	}
	return code
}

func printJSON(w io.Writer, v any) {
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(w, string(data))
}

// currentUserID returns the logged-in user's id from the session snapshot,
// fetching and caching the profile when the snapshot has none.
func currentUserID(ctx context.Context, a *app) (int64, error) {
	if p := a.store.Read(); p != nil && p.ID != 0 {
		return p.ID, nil
	}
	user, err := a.client.GetCurrentUser(ctx)
	if err != nil {
		return 0, err
	}
	a.store.UpdateProfile(user.Snapshot())
	return user.ID, nil
}
