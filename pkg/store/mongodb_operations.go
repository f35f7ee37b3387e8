package store

import (
	"context"
	"errors"
	"time"

	"versioned-state/pkg/versioning"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

const (
	DEFAULT_MONGO_RETRIES = 3
	mongoRetryBackoff     = time.Duration(10) * time.Millisecond
)

func InitMongoDBClient(ctx context.Context, addr string) (*mongo.Client, error) {
	clientOpts := options.Client().ApplyURI(addr).
		SetReadConcern(readconcern.Majority()).
		SetWriteConcern(writeconcern.New(writeconcern.WMajority()))
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, unavailable("mongodb", "connect", err)
	}
	log.Info().Str("addr", addr).Msg("connected to mongodb")
	return client, nil
}

// collectionOptions raises the write concern for versioned states: a write
// acknowledged by a single node could be rolled back and lose a committed
// txid.
func collectionOptions(mode versioning.StateType) *options.CollectionOptions {
	opts := options.Collection()
	if mode.Versioned() {
		opts.SetWriteConcern(writeconcern.New(writeconcern.WMajority(), writeconcern.J(true)))
	}
	return opts
}

// RunWithRetry retries fn while the driver labels the failure as transient.
func RunWithRetry(ctx context.Context, retries int, fn func(context.Context) error) error {
	var err error
	for i := 0; i <= retries; i++ {
		err = fn(ctx)
		if err == nil || !isTransientMongoErr(err) {
			return err
		}
		select {
		case <-ctx.Done():
			return err
		case <-time.After(mongoRetryBackoff):
		}
	}
	return err
}

func isTransientMongoErr(err error) bool {
	var le mongo.LabeledError
	if errors.As(err, &le) {
		return le.HasErrorLabel("TransientTransactionError") || le.HasErrorLabel("RetryableWriteError")
	}
	return false
}

func classifyMongoErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) ||
		errors.Is(err, mongo.ErrClientDisconnected) || errors.Is(err, context.DeadlineExceeded) {
		return unavailable("mongodb", op, err)
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		return rejected("mongodb", op, err)
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && op == "write" {
		return rejected("mongodb", op, err)
	}
	return err
}
