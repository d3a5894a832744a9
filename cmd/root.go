package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mixingo/mixingo/internal/config"
	"github.com/mixingo/mixingo/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mixingo",
	Short: "Learn a new language through the ones you already speak",
	Long: `Mixingo is a terminal client for the Mixingo language-learning service.

Pick the languages you know, answer a short warm-up, and get a transfer map
showing what already carries over to your target language. With demo mode on
the client never touches the network and shows sample data.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	addConfigFlags(rootCmd)
	rootCmd.Flags().String("route", "", "Open the app at a client route, e.g. /warmup")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(requestsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(mockServerCmd)
}

// addConfigFlags registers the flags that override config settings.
func addConfigFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.String("config", "", "Path to config file (default $XDG_CONFIG_HOME/mixingo/config.toml)")
	pf.String("api", "", "Backend base URL (overrides MIXINGO_API_URL)")
	pf.Bool("demo", true, "Use sample data instead of the backend (overrides MIXINGO_DEMO)")
	pf.Duration("timeout", 0, "Per-request timeout (overrides MIXINGO_API_TIMEOUT)")
	pf.String("db", "", "Path to SQLite request log (overrides MIXINGO_DB)")
	pf.String("log-level", "", "Log level: debug, info, warn or error (overrides MIXINGO_LOG_LEVEL)")
}

// loadConfig resolves settings in order: defaults, config file,
// environment, then flags that were set explicitly.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Flags()

	path, _ := flags.GetString("config")
	explicit := path != ""
	if !explicit {
		path = config.DefaultConfigPath()
	}
	if explicit {
		if _, err := os.Stat(path); err != nil {
			return config.Config{}, fmt.Errorf("config file: %w", err)
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}

	if flags.Changed("api") {
		cfg.APIURL, _ = flags.GetString("api")
	}
	if flags.Changed("demo") {
		cfg.Demo, _ = flags.GetBool("demo")
	}
	if flags.Changed("timeout") {
		cfg.Timeout, _ = flags.GetDuration("timeout")
	}
	if flags.Changed("db") {
		cfg.DBPath, _ = flags.GetString("db")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// openStore opens the request log, creating its directory if needed.
func openStore(cfg config.Config) (*store.Store, error) {
	if err := store.EnsureDir(cfg.DBPath); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}

// setupLogging points the default logger at w, or at the configured log
// file when w is nil. The TUI owns the terminal, so it always logs to a file.
func setupLogging(cfg config.Config, w io.Writer) (io.Closer, error) {
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	var closer io.Closer = io.NopCloser(nil)
	if w == nil {
		if err := store.EnsureDir(cfg.LogPath); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		w, closer = f, f
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
	return closer, nil
}
