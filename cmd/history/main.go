// Command history inspects and maintains the sent-alerts history used by the scanner.
//
// Usage:
//
//	history list
//	history prune --hours 24
//	history reset --yes
//	history stats
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Vodeneev/cornerwatch/internal/dedup"
	pkgconfig "github.com/Vodeneev/cornerwatch/internal/pkg/config"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type app struct {
	configPath string
	now        func() time.Time
	open       func(pkgconfig.HistoryConfig) (dedup.Store, error)
}

func newRootCmd() *cobra.Command {
	return buildRoot(&app{now: time.Now, open: dedup.OpenStore})
}

func buildRoot(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:          "history",
		Short:        "Inspect and maintain the sent matches history",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", os.Getenv("CONFIG_PATH"), "Path to config file (can be set via CONFIG_PATH env var)")

	root.AddCommand(a.listCmd())
	root.AddCommand(a.pruneCmd())
	root.AddCommand(a.resetCmd())
	root.AddCommand(a.statsCmd())
	return root
}

// withStore loads the config, opens the configured backing and closes it afterwards.
func (a *app) withStore(cmd *cobra.Command, fn func(ctx context.Context, cfg *pkgconfig.Config, store dedup.Store) error) error {
	cfg, err := pkgconfig.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	store, err := a.open(cfg.History)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()
	return fn(cmd.Context(), cfg, store)
}

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the history, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(ctx context.Context, _ *pkgconfig.Config, store dedup.Store) error {
				h, err := store.Load(ctx)
				if err != nil {
					return err
				}
				printList(cmd.OutOrStdout(), h, a.now())
				return nil
			})
		},
	}
}

func (a *app) pruneCmd() *cobra.Command {
	var hours int
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove entries older than the given number of hours",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(ctx context.Context, cfg *pkgconfig.Config, store dedup.Store) error {
				horizon := cfg.History.MaintenanceRetention
				if cmd.Flags().Changed("hours") {
					if hours <= 0 {
						return fmt.Errorf("--hours must be positive")
					}
					horizon = time.Duration(hours) * time.Hour
				}

				h, err := store.Load(ctx)
				if err != nil {
					return err
				}
				if len(h) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No records to prune")
					return nil
				}
				removed := h.Prune(a.now(), horizon)
				if err := store.Save(ctx, h); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d records older than %s, %d remaining\n", removed, horizon, len(h))
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&hours, "hours", 24, "Maximum age to keep, in hours (default: maintenance_retention from config)")
	return cmd
}

func (a *app) resetCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the whole history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout()) {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
				return nil
			}
			return a.withStore(cmd, func(ctx context.Context, _ *pkgconfig.Config, store dedup.Store) error {
				if err := store.Reset(ctx); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "History reset (%s)\n", store.Name())
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func (a *app) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show history statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(ctx context.Context, _ *pkgconfig.Config, store dedup.Store) error {
				h, err := store.Load(ctx)
				if err != nil {
					return err
				}
				printStats(cmd.OutOrStdout(), dedup.ComputeStats(h, a.now()))
				return nil
			})
		},
	}
}

func confirm(in io.Reader, out io.Writer) bool {
	fmt.Fprint(out, "This removes ALL sent match records. Continue? (y/N): ")
	line, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes", "s", "si", "sí":
		return true
	default:
		return false
	}
}

func printList(w io.Writer, h dedup.History, now time.Time) {
	if len(h) == 0 {
		fmt.Fprintln(w, "Sent matches history: EMPTY")
		return
	}
	fmt.Fprintf(w, "Sent matches history (%d records):\n", len(h))
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for i, e := range h.Entries() {
		key := e.Key
		if len(key) > 12 {
			key = key[:12]
		}
		fmt.Fprintf(w, "   %2d. Key: %s... | %s (%s ago)\n", i+1, key, e.LastSentAt.Format("15:04:05"), formatAge(now.Sub(e.LastSentAt)))
	}
}

func printStats(w io.Writer, st dedup.Stats) {
	if st.Total == 0 {
		fmt.Fprintln(w, "No statistics available (history is empty)")
		return
	}
	fmt.Fprintln(w, "HISTORY STATISTICS")
	fmt.Fprintln(w, strings.Repeat("-", 40))
	fmt.Fprintf(w, "Total records: %d\n", st.Total)
	fmt.Fprintf(w, "Records in the last 24h: %d\n", st.Last24h)
	fmt.Fprintf(w, "Oldest record: %.1f hours\n", st.OldestAge.Hours())
	fmt.Fprintf(w, "Newest record: %.1f hours\n", st.NewestAge.Hours())
	fmt.Fprintln(w, "\nDistribution by hour:")
	for i, n := range st.PerHour {
		if n > 0 {
			fmt.Fprintf(w, "   %dh ago: %d records\n", i, n)
		}
	}
}

func formatAge(d time.Duration) string {
	if d < time.Hour {
		return fmt.Sprintf("%.0fmin", d.Minutes())
	}
	return fmt.Sprintf("%.1fh", d.Hours())
}
