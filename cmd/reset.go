package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the local request log",
	Long:  "Delete logged backend requests. Session data lives only in memory and is never stored.",
	RunE: func(cmd *cobra.Command, args []string) error {
		keep, _ := cmd.Flags().GetInt("keep")
		if keep < 0 {
			return fmt.Errorf("--keep must not be negative")
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		n, err := st.EventRepo().Prune(context.Background(), keep)
		if err != nil {
			return fmt.Errorf("prune requests: %w", err)
		}

		fmt.Printf("Removed %d request(s) from %s\n", n, cfg.DBPath)
		return nil
	},
}

func init() {
	resetCmd.Flags().Int("keep", 0, "Keep the N most recent requests")
}
