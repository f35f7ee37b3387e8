package wordcount

import (
	"context"

	"github.com/rs/zerolog/log"
)

type RunConfig struct {
	Batches   uint64
	BatchSize int
	// CrashAt arms the flaky store for the first attempt of that txid; 0
	// never crashes.
	CrashAt uint64
	Query   string
}

type Result struct {
	Total   int64
	Query   int64
	Replays int
}

// Run feeds txids 1..Batches through topo. flaky may be nil when no crash is
// simulated.
func Run(ctx context.Context, topo *Topology, flaky *FlakyStore[string], cfg RunConfig) (Result, error) {
	src := NewFixedBatchSource(Sentences, cfg.BatchSize)
	res := Result{}
	for txid := uint64(1); txid <= cfg.Batches; txid++ {
		crash := flaky != nil && txid == cfg.CrashAt
		attempts, err := topo.processWithCrash(ctx, txid, src.Batch(txid), flaky, crash)
		if err != nil {
			return res, err
		}
		res.Replays += attempts
		log.Debug().Uint64("txid", txid).Int("replays", attempts).Msg("batch committed")
	}
	var err error
	if res.Total, err = topo.Total(ctx); err != nil {
		return res, err
	}
	if cfg.Query != "" {
		if res.Query, err = topo.Query(ctx, cfg.Query); err != nil {
			return res, err
		}
	}
	return res, nil
}

// processWithCrash runs one failing attempt with the flaky store armed, then
// disarms it and replays like a restarted worker would.
func (t *Topology) processWithCrash(ctx context.Context, txid uint64, batch []string, flaky *FlakyStore[string], crash bool) (int, error) {
	if !crash {
		return t.ProcessWithRetry(ctx, txid, batch)
	}
	flaky.Arm(true)
	err := t.ProcessBatch(ctx, txid, batch)
	flaky.Arm(false)
	if err == nil {
		return 0, nil
	}
	log.Warn().Err(err).Uint64("txid", txid).Msg("simulated crash, replaying batch")
	attempts, err := t.ProcessWithRetry(ctx, txid, batch)
	return attempts + 1, err
}
