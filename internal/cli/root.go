// Package cli assembles the vidgen command tree and the application wiring
// behind it: configuration, local state, transport and gateways.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nkosarev/vidgen/internal/api"
	"github.com/nkosarev/vidgen/internal/config"
	"github.com/nkosarev/vidgen/internal/logging"
	"github.com/nkosarev/vidgen/internal/session"
	"github.com/nkosarev/vidgen/internal/storage"
	"github.com/nkosarev/vidgen/internal/upload"
)

// app carries everything a command needs, built once in the root
// command's PersistentPreRunE and torn down in PersistentPostRunE.
type app struct {
	cfg  config.Config
	log  logging.Logger
	db   *sql.DB
	mgr  *session.Manager
	cont *api.Content
	orch *upload.Orchestrator
}

func (a *app) init(ctx context.Context, apiURL string, verbose bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if apiURL != "" {
		cfg.APIBaseURL = apiURL
	}
	a.cfg = cfg

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	a.log = logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	a.db, err = storage.Open(ctx, cfg.DatabasePath())
	if err != nil {
		return err
	}

	store := session.NewSQLStore(a.db)
	transport := api.NewTransport(cfg.APIBaseURL, store, a.log)

	a.mgr = session.NewManager(api.NewAuth(transport), store, a.log)
	a.cont = api.NewContent(transport)
	a.orch = upload.NewOrchestrator(a.cont, a.log)

	// A 401 from any endpoint invalidates the whole session, exactly as if
	// the user had logged out, and tells them how to get back in.
	transport.OnUnauthorized(func() {
		a.mgr.Logout(context.Background())
		fmt.Fprintln(os.Stderr, "Session expired. Run 'vidgen login' to sign in again.")
	})

	return nil
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
}

// New builds the root command with all subcommands attached.
func New() *cobra.Command {
	a := &app{}

	var (
		apiURL  string
		verbose bool
	)

	root := &cobra.Command{
		Use:   "vidgen",
		Short: "Upload content and generate videos from text scripts",
		Long: `vidgen is a client for the content platform: it uploads files,
turns text scripts into generated videos and browses the resulting content.

Credentials are stored locally; log in once with 'vidgen login'.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.Context(), apiURL, verbose)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}

	root.PersistentFlags().StringVar(&apiURL, "api-url", "", "backend base URL (overrides config and environment)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newLoginCmd(a),
		newRegisterCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newUploadCmd(a),
		newListCmd(a),
		newShowCmd(a),
		newDownloadCmd(a),
		newStreamURLCmd(a),
		newHealthCmd(a),
	)

	return root
}

// Execute runs the command tree and returns the process exit code.
func Execute() int {
	if err := New().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}
