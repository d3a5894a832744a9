package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/mixingo/mixingo/internal/api"
	"github.com/mixingo/mixingo/internal/app"
	"github.com/mixingo/mixingo/internal/flow"
	"github.com/mixingo/mixingo/internal/session"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// errNotTerminal is returned when the TUI is started without a terminal.
var errNotTerminal = errors.New("mixingo needs an interactive terminal; try 'mixingo demo' for plain output")

// runApp loads configuration, opens the request log, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errNotTerminal
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logs, err := setupLogging(cfg, nil)
	if err != nil {
		return err
	}
	defer logs.Close()

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	client := api.New(cfg.APIURL,
		api.WithTimeout(cfg.Timeout),
		api.WithEventRepo(st.EventRepo()),
	)

	route, _ := cmd.Flags().GetString("route")
	slog.Info("starting mixingo", "version", version, "api", cfg.APIURL, "demo", cfg.Demo, "route", route)

	err = app.Run(app.Options{
		Controller: flow.NewController(client, cfg.Timeout),
		Registry:   session.NewRegistry(),
		Demo:       cfg.Demo,
		StartPath:  route,
	})
	if err != nil {
		return fmt.Errorf("run app: %w", err)
	}
	return nil
}
