package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/mixingo/mixingo/internal/store"
)

var requestsCmd = &cobra.Command{
	Use:   "requests",
	Short: "Inspect logged backend requests",
}

var requestsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent backend requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		op, _ := cmd.Flags().GetString("op")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		events, err := st.EventRepo().QueryRequests(context.Background(),
			store.QueryOpts{Limit: limit, Operation: op})
		if err != nil {
			return fmt.Errorf("query requests: %w", err)
		}

		if len(events) == 0 {
			fmt.Println("No requests found.")
			return nil
		}

		fmt.Printf("%-5s  %-19s  %-16s  %-6s  %-28s  %-6s  %-7s  %s\n",
			"ID", "Timestamp", "Operation", "Method", "Path", "Status", "Ms", "OK")
		fmt.Println(strings.Repeat("─", 104))

		for _, e := range events {
			ok := "✓"
			if !e.Success {
				ok = "✗"
			}
			status := "-"
			if e.Status > 0 {
				status = strconv.Itoa(e.Status)
			}
			fmt.Printf("%-5d  %-19s  %-16s  %-6s  %s  %-6s  %-7d  %s\n",
				e.ID,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Operation,
				e.Method,
				fitColumn(e.Path, 28),
				status,
				e.LatencyMs,
				ok,
			)
		}
		return nil
	},
}

var requestsViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "View the full request and response of a logged exchange",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
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

		e, err := st.EventRepo().GetRequest(context.Background(), id)
		if err != nil {
			return fmt.Errorf("get request: %w", err)
		}
		if e == nil {
			return fmt.Errorf("request %d not found", id)
		}

		sep := strings.Repeat("─", 60)

		fmt.Printf("ID:         %d\n", e.ID)
		fmt.Printf("Time:       %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
		fmt.Printf("Operation:  %s\n", e.Operation)
		fmt.Printf("Endpoint:   %s %s\n", e.Method, e.Path)
		fmt.Printf("Status:     %d\n", e.Status)
		fmt.Printf("Latency:    %dms\n", e.LatencyMs)
		fmt.Printf("Success:    %v\n", e.Success)
		if e.ErrorMessage != "" {
			fmt.Printf("Error:      %s\n", e.ErrorMessage)
		}

		printSection(sep, "REQUEST", e.Request)
		printSection(sep, "RESPONSE", e.Response)
		return nil
	},
}

func init() {
	requestsListCmd.Flags().Int("limit", 20, "Maximum number of requests to show")
	requestsListCmd.Flags().String("op", "", "Only show one operation, e.g. ctm.analyze")

	requestsCmd.AddCommand(requestsListCmd)
	requestsCmd.AddCommand(requestsViewCmd)
}

func printSection(sep, title, body string) {
	fmt.Println()
	fmt.Println(sep)
	fmt.Println(title)
	fmt.Println(sep)
	if body != "" {
		fmt.Println(body)
	} else {
		fmt.Println("(not captured)")
	}
}

// fitColumn truncates s to width display cells and pads it to exactly width.
func fitColumn(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, "…")
	}
	return runewidth.FillRight(s, width)
}
