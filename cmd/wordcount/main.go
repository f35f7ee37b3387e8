package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"versioned-state/pkg/commtypes"
	"versioned-state/pkg/env_config"
	"versioned-state/pkg/state"
	"versioned-state/pkg/store"
	"versioned-state/pkg/wordcount"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	batches   uint64
	batchSize int
	workers   int
	crashAt   uint64
	query     string
	stateName string
)

var rootCmd = &cobra.Command{
	Use:   "wordcount",
	Short: "Count words of a fixed sentence stream into a versioned state",
	Long: `wordcount replays a fixed, cycling batch of sentences into a versioned map state.
The backend and state type come from the environment (STATE_BACKEND, STATE_TYPE, ...).
With --crash-at the writes of one batch partially fail and the batch is replayed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		return run(ctx)
	},
}

func init() {
	logLevel := os.Getenv("LOG_LEVEL")
	if level, err := zerolog.ParseLevel(logLevel); err == nil && logLevel != "" {
		zerolog.SetGlobalLevel(level)
	} else {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	rootCmd.Flags().Uint64VarP(&batches, "batches", "n", 20, "number of batches to process")
	rootCmd.Flags().IntVar(&batchSize, "batch-size", 3, "sentences per batch")
	rootCmd.Flags().IntVarP(&workers, "workers", "w", 4, "workers, each owning a disjoint set of words")
	rootCmd.Flags().Uint64Var(&crashAt, "crash-at", 0, "txid whose first attempt partially fails, 0 for none")
	rootCmd.Flags().StringVarP(&query, "query", "q", "cat the dog jumped", "words whose counts are summed at the end")
	rootCmd.Flags().StringVar(&stateName, "name", "words", "state name, used as collection/bucket prefix")
}

func run(ctx context.Context) error {
	cfg, err := env_config.FromEnv()
	if err != nil {
		return err
	}
	log.Info().Str("config", cfg.String()).Msg("starting wordcount")
	vs, err := state.NewValueStore[string](ctx, cfg, stateName, commtypes.StringSerdeG{})
	if err != nil {
		return err
	}
	var flaky *wordcount.FlakyStore[string]
	var backing store.ValueStore[string] = vs
	if crashAt != 0 {
		flaky = wordcount.NewFlakyStore(vs, 2)
		backing = flaky
	}
	defer func() {
		if err := state.CloseStore(context.Background(), backing); err != nil {
			log.Error().Err(err).Msg("close state store")
		}
	}()
	counts, err := state.NewVersionedMapState[string, int64](backing, cfg.StateType, commtypes.Int64SerdeG{})
	if err != nil {
		return err
	}
	topo := wordcount.NewTopology(counts, cfg.GlobalKey, workers)
	res, err := wordcount.Run(ctx, topo, flaky, wordcount.RunConfig{
		Batches:   batches,
		BatchSize: batchSize,
		CrashAt:   crashAt,
		Query:     query,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "total words: %d\nquery %q: %d\nreplayed batches: %d\n",
		res.Total, query, res.Query, res.Replays)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
