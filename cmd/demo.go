package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mixingo/mixingo/internal/api"
)

var demoCmd = &cobra.Command{
	Use:       "demo [ctm|profile|exercises|all]",
	Short:     "Fetch the backend's demo data and print it as JSON",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"ctm", "profile", "exercises", "all"},
	RunE: func(cmd *cobra.Command, args []string) error {
		which := "all"
		if len(args) == 1 {
			which = args[0]
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logs, err := setupLogging(cfg, os.Stderr)
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

		out, err := fetchDemo(cmd.Context(), client, which)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if which == "all" {
			return enc.Encode(out)
		}
		return enc.Encode(out[which])
	},
}

// fetchDemo retrieves the requested demo payloads concurrently.
func fetchDemo(ctx context.Context, client *api.Client, which string) (map[string]any, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	fetchers := map[string]func(context.Context) (any, error){
		"ctm": func(ctx context.Context) (any, error) {
			return client.DemoCTM(ctx)
		},
		"profile": func(ctx context.Context) (any, error) {
			return client.DemoProfile(ctx)
		},
		"exercises": func(ctx context.Context) (any, error) {
			return client.DemoExercises(ctx)
		},
	}

	names := []string{which}
	if which == "all" {
		names = []string{"ctm", "profile", "exercises"}
	}

	results := make([]any, len(names))
	g, gCtx := errgroup.WithContext(ctx)
	for i, name := range names {
		fetch, ok := fetchers[name]
		if !ok {
			return nil, fmt.Errorf("unknown demo payload %q", name)
		}
		g.Go(func() error {
			v, err := fetch(gCtx)
			if err != nil {
				return fmt.Errorf("demo %s: %w", name, err)
			}
			results[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]any, len(names))
	for i, name := range names {
		out[name] = results[i]
	}
	return out, nil
}
