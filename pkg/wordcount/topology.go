package wordcount

import (
	"context"

	"versioned-state/pkg/common_errors"
	"versioned-state/pkg/hashfuncs"
	"versioned-state/pkg/state"

	"4d63.com/optional"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/xerrors"
)

const DEFAULT_MAX_RETRIES = 3

// Topology keeps running word counts in a versioned map state and a stream
// wide total under the global key. Words of a batch are partitioned over
// workers so no two workers write the same key.
type Topology struct {
	counts     *state.VersionedMapState[string, int64]
	total      *state.SnapshottableMap[string, int64]
	workers    int
	maxRetries int
	hasher     hashfuncs.StringHasher
}

func NewTopology(counts *state.VersionedMapState[string, int64], globalKey string, workers int) *Topology {
	if workers <= 0 {
		workers = 1
	}
	return &Topology{
		counts:     counts,
		total:      state.NewSnapshottableMap(counts, globalKey),
		workers:    workers,
		maxRetries: DEFAULT_MAX_RETRIES,
	}
}

func (t *Topology) partition(words []string) [][]string {
	parts := make([][]string, t.workers)
	for _, w := range words {
		p := int(t.hasher.HashSum64(w) % uint64(t.workers))
		parts[p] = append(parts[p], w)
	}
	return parts
}

func add(delta int64) state.ValueUpdater[int64] {
	return func(old optional.Optional[int64]) int64 {
		v, _ := old.Get()
		return v + delta
	}
}

// ProcessBatch applies the word counts of sentences at txid. The total is
// updated after every word partition succeeded.
func (t *Topology) ProcessBatch(ctx context.Context, txid uint64, sentences []string) error {
	words, counts := CountWords(sentences)
	g, gctx := errgroup.WithContext(ctx)
	for _, part := range t.partition(words) {
		if len(part) == 0 {
			continue
		}
		keys := part
		g.Go(func() error {
			updaters := make([]state.ValueUpdater[int64], len(keys))
			for i, w := range keys {
				updaters[i] = add(counts[w])
			}
			_, err := t.counts.BatchUpdate(gctx, keys, updaters, txid)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	var n int64
	for _, c := range counts {
		n += c
	}
	_, err := t.total.Update(ctx, add(n), txid)
	return err
}

// ProcessWithRetry replays the whole batch while the failure is a store
// failure. Replays are absorbed by the versioned state.
func (t *Topology) ProcessWithRetry(ctx context.Context, txid uint64, sentences []string) (int, error) {
	var err error
	for attempt := 0; attempt <= t.maxRetries; attempt++ {
		if err = t.ProcessBatch(ctx, txid, sentences); err == nil {
			return attempt, nil
		}
		if !common_errors.IsRetriable(err) {
			return attempt, err
		}
		log.Warn().Err(err).Uint64("txid", txid).Int("attempt", attempt).Msg("batch failed, replaying")
	}
	return t.maxRetries, xerrors.Errorf("txid %d after %d retries: %w", txid, t.maxRetries, err)
}

// Query sums the counts of the words of args, skipping unknown words.
func (t *Topology) Query(ctx context.Context, args string) (int64, error) {
	words := Split(args)
	vals, err := t.counts.BatchGet(ctx, words)
	if err != nil {
		return 0, err
	}
	var sum int64
	for _, v := range vals {
		if c, ok := v.Get(); ok {
			sum += c
		}
	}
	return sum, nil
}

func (t *Topology) Total(ctx context.Context) (int64, error) {
	v, err := t.total.Get(ctx)
	if err != nil {
		return 0, err
	}
	n, _ := v.Get()
	return n, nil
}
