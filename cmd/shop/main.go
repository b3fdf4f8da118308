package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	cl "shopsim/internal/cli"
	"shopsim/internal/config"
	"shopsim/internal/game"
	"shopsim/internal/sim"
	"shopsim/internal/syncq"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type settings struct {
	apiBase     string
	maxSteps    int
	catalogPath string
}

func main() {
	cfg, err := config.LoadCLIFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	st := &settings{apiBase: cfg.APIBaseURL, maxSteps: cfg.MaxSteps, catalogPath: cfg.CatalogPath}

	root := &cobra.Command{
		Use:          "shop",
		Short:        "Auto-battler shop simulator",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&st.apiBase, "api", st.apiBase, "shopsim API base URL")
	root.PersistentFlags().StringVar(&st.catalogPath, "catalog", st.catalogPath, "catalog YAML file (embedded catalog when empty)")

	root.AddCommand(
		newRunCmd(st),
		newRunsCmd(st),
		newSyncCmd(st),
		newCatalogCmd(st),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newClient(st *settings) *cl.Client {
	return cl.NewClient(strings.TrimRight(strings.TrimSpace(st.apiBase), "/"))
}

func newRunCmd(st *settings) *cobra.Command {
	var (
		seed     int64
		maxSteps int
		asJSON   bool
		verbose  bool
		upload   bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate one shop round locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("seed") {
				seed = rand.Int64()
			}
			if maxSteps <= 0 {
				return fmt.Errorf("--max-steps must be > 0")
			}
			catalog, err := game.CatalogFromPath(st.catalogPath)
			if err != nil {
				return err
			}

			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			res, err := sim.Run(cmd.Context(), sim.Options{
				Seed:     seed,
				MaxSteps: maxSteps,
				Catalog:  catalog,
				Logger:   logger,
			})
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(res); err != nil {
					return err
				}
			} else {
				renderResult(res)
			}

			if upload {
				return uploadResult(cmd.Context(), st, res)
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 0, "RNG seed (random when unset)")
	cmd.Flags().IntVar(&maxSteps, "max-steps", st.maxSteps, "step cap for the round")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full trace as JSON")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log shop events to stderr")
	cmd.Flags().BoolVar(&upload, "upload", false, "upload the round to the API")
	return cmd
}

func uploadResult(ctx context.Context, st *settings, res sim.Result) error {
	idem := uuid.NewString()
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	sum, err := newClient(st).ImportRun(ctx, res, idem)
	if err != nil {
		return queueOnNetworkError(err, syncq.Pending{
			IdempotencyKey: idem,
			QueuedAt:       time.Now().UTC(),
			Result:         res,
		})
	}
	printSuccess(fmt.Sprintf("Uploaded run %s.", sum.ID))
	return nil
}

func newRunsCmd(st *settings) *cobra.Command {
	runs := &cobra.Command{
		Use:     "runs",
		Short:   "Inspect rounds stored by the API",
		Aliases: []string{"run-history"},
	}

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List recent rounds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(st).ListRuns(ctx, limit)
			if err != nil {
				return err
			}
			renderSummaries(out)
			return nil
		},
	}
	list.Flags().IntVar(&limit, "limit", 20, "number of rounds to list")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one stored round with its trace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("invalid run id: %w", err)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			run, err := newClient(st).GetRun(ctx, id)
			if err != nil {
				return err
			}
			accent.Printf("\n== RUN %s ==\n", run.ID)
			fmt.Printf("Stored:  %s\n", run.CreatedAt.Local().Format("2006-01-02 15:04"))
			renderResult(run.Result)
			return nil
		},
	}

	runs.AddCommand(list, show)
	return runs
}

func newSyncCmd(st *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Upload rounds queued while the API was unreachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			queue, err := syncq.Load()
			if err != nil {
				return err
			}
			if len(queue) == 0 {
				printInfo("Sync queue is empty.")
				return nil
			}
			client := newClient(st)
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()

			remaining := make([]syncq.Pending, 0, len(queue))
			uploaded := 0
			for _, p := range queue {
				if _, err := client.ImportRun(ctx, p.Result, p.IdempotencyKey); err != nil {
					printError(fmt.Sprintf("Sync failed for seed %d: %v", p.Result.Seed, err))
					// A rejected round will never replay; only keep network failures.
					if !cl.IsAPIError(err) {
						remaining = append(remaining, p)
					}
					continue
				}
				uploaded++
			}
			if err := syncq.Save(remaining); err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Sync complete: uploaded=%d remaining=%d", uploaded, len(remaining)))
			return nil
		},
	}
}

func newCatalogCmd(st *settings) *cobra.Command {
	var remote bool
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Show the species and foods the shop can offer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if remote {
				ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
				defer cancel()
				species, foods, err := newClient(st).Catalog(ctx)
				if err != nil {
					return err
				}
				renderCatalog(species, foods)
				return nil
			}
			catalog, err := game.CatalogFromPath(st.catalogPath)
			if err != nil {
				return err
			}
			species := make([]cl.CatalogEntry, 0, len(catalog.Species()))
			for _, sp := range catalog.Species() {
				stats, _ := catalog.Stats(sp)
				species = append(species, cl.CatalogEntry{Species: sp.String(), Attack: stats.Attack, Health: stats.Health})
			}
			foods := make([]string, 0, len(catalog.Foods()))
			for _, f := range catalog.Foods() {
				foods = append(foods, f.String())
			}
			renderCatalog(species, foods)
			return nil
		},
	}
	cmd.Flags().BoolVar(&remote, "remote", false, "fetch the catalog served by the API")
	return cmd
}

func queueOnNetworkError(err error, p syncq.Pending) error {
	if err == nil {
		return nil
	}
	if cl.IsAPIError(err) {
		return err
	}
	if qerr := syncq.Push(p); qerr != nil {
		return fmt.Errorf("upload failed (%v) and queueing failed: %w", err, qerr)
	}
	printWarn("API unreachable; round queued. Run `shop sync` later.")
	return nil
}
