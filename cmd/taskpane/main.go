// taskpane is an AI writing assistant for the open email: reword,
// compose and analyze, as a terminal UI or one-shot commands.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nhle/taskpane/internal/ai"
	"github.com/nhle/taskpane/internal/app"
	"github.com/nhle/taskpane/internal/clipboard"
	"github.com/nhle/taskpane/internal/credential"
	"github.com/nhle/taskpane/internal/logging"
	"github.com/nhle/taskpane/internal/model"
	"github.com/nhle/taskpane/internal/store"
)

var (
	version = "dev"

	// Styles for CLI output
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	boldStyle    = lipgloss.NewStyle().Bold(true)
)

// env is what every command needs: configuration, persistence, secrets
// and a logger. Commands open it lazily through openEnv.
type env struct {
	cfg     *model.AppConfig
	cfgPath string
	logger  *log.Logger
	store   *store.SQLiteStore
	vault   *credential.Vault
	closers []io.Closer
}

func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		_ = e.closers[i].Close()
	}
}

// openEnv loads configuration and opens the database and keyring. When
// toFile is set, logs go to the configured log file instead of stderr.
func openEnv(cfgPath string, toFile bool) (*env, error) {
	cfg, err := model.LoadConfig(cfgPath)
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg, cfgPath: cfgPath}

	if toFile {
		logger, closer, err := logging.OpenFile(cfg.Log)
		if err != nil {
			return nil, err
		}
		e.logger = logger
		e.closers = append(e.closers, closer)
	} else {
		e.logger = logging.NewStderr(cfg.Log)
	}

	dataDir := model.DefaultDataDir()
	s, err := store.NewSQLiteStore(filepath.Join(dataDir, store.DefaultDBName))
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("opening database: %w", err)
	}
	e.store = s
	e.closers = append(e.closers, s)

	vault, err := credential.Open(filepath.Join(dataDir, "credentials"))
	if err != nil {
		// IMAP hosts and the service token need the keyring; file hosts
		// and an open service still work without it.
		e.logger.Warn("keyring unavailable", "error", err)
	} else {
		e.vault = vault
	}

	return e, nil
}

// service builds the AI client. The token comes from TASKPANE_SERVICE_TOKEN
// or the keyring.
func (e *env) service() *ai.Client {
	opts := []ai.Option{
		ai.WithTimeout(e.cfg.Service.Timeout()),
		ai.WithLogger(logging.Component(e.logger, "ai")),
	}

	token := os.Getenv("TASKPANE_SERVICE_TOKEN")
	if token == "" && e.vault != nil {
		t, err := e.vault.Lookup(credential.ServiceTokenKey)
		if err != nil {
			e.logger.Warn("reading service token", "error", err)
		}
		token = t
	}
	if token != "" {
		opts = append(opts, ai.WithToken(token))
	}

	return ai.NewClient(e.cfg.Service.BaseURL, opts...)
}

// recorder writes activity entries for CLI-run operations.
func (e *env) recorder(hostID string) *store.ActivityRecorder {
	return store.NewActivityRecorder(e.store, func() string { return hostID }, logging.Component(e.logger, "store"))
}

// signalContext is cancelled on Ctrl-C so a one-shot command stops waiting.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func main() {
	var cfgPath string

	rootCmd := &cobra.Command{
		Use:   "taskpane",
		Short: "AI writing assistant for your email",
		Long: `taskpane rewords text, composes emails and analyzes the open message
with a remote AI text service. Run without arguments for the terminal UI.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cfgPath)
		},
	}

	rootCmd.SetVersionTemplate(`{{.Version}}
`)
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", model.DefaultConfigPath(), "Path to the config file")

	rootCmd.AddCommand(
		newRewordCmd(&cfgPath),
		newComposeCmd(&cfgPath),
		newAnalyzeCmd(&cfgPath),
		newHostCmd(&cfgPath),
		newActivityCmd(&cfgPath),
		newTokenCmd(&cfgPath),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

// runTUI starts the full-screen interface.
func runTUI(cfgPath string) error {
	e, err := openEnv(cfgPath, true)
	if err != nil {
		return err
	}
	defer e.Close()

	m := app.New(app.Deps{
		Config:     e.cfg,
		ConfigPath: e.cfgPath,
		Store:      e.store,
		Service:    e.service(),
		Vault:      e.vault,
		Copier:     clipboard.NewSystem(os.Stdout),
		Logger:     e.logger,
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run TUI: %w", err)
	}
	return nil
}

// errMissingHost is returned by commands that need a mail host when
// none is configured.
var errMissingHost = errors.New("no mail host configured; add one with 'taskpane host add'")
