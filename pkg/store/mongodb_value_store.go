package store

import (
	"context"
	"os"

	"versioned-state/pkg/commtypes"
	"versioned-state/pkg/debug"
	"versioned-state/pkg/versioning"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Document fields. A record is stored as
// {k: <key bytes>, v: <payload>, txid: <int64>, prev: <prior payload>};
// txid and prev are omitted when the record does not carry them.
const (
	KEY_NAME   = "k"
	VALUE_NAME = "v"
	TXID_NAME  = "txid"
	PREV_NAME  = "prev"
)

type MongoDBConfig[K any] struct {
	KeySerde       commtypes.EncoderG[K]
	Client         *mongo.Client
	DBName         string
	CollectionName string
	StateType      versioning.StateType
	Retries        int
}

type MongoDBValueStore[K any] struct {
	config *MongoDBConfig[K]
	col    *mongo.Collection
}

var _ = ValueStore[string](&MongoDBValueStore[string]{})

func NewMongoDBValueStore[K any](config *MongoDBConfig[K]) *MongoDBValueStore[K] {
	debug.Assert(config.Client != nil, "mongo db connection should be created first")
	debug.Assert(config.CollectionName != "", "collection name should not be empty")
	debug.Assert(config.DBName != "", "db name should not be empty")
	col := config.Client.Database(config.DBName).
		Collection(config.CollectionName, collectionOptions(config.StateType))
	return &MongoDBValueStore[K]{
		config: config,
		col:    col,
	}
}

// CreateKeyIndex makes point lookups by key an index seek and rejects
// duplicate documents for one key.
func (s *MongoDBValueStore[K]) CreateKeyIndex(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{KEY_NAME: 1},
		Options: options.Index().SetName("kv").SetUnique(true),
	})
	return classifyMongoErr("index", err)
}

func (s *MongoDBValueStore[K]) DropCollection(ctx context.Context) error {
	return classifyMongoErr("drop", s.col.Drop(ctx))
}

func (s *MongoDBValueStore[K]) Name() string {
	return s.config.CollectionName
}

func (s *MongoDBValueStore[K]) TableType() TABLE_TYPE {
	return MONGODB
}

func (s *MongoDBValueStore[K]) Read(ctx context.Context, key K) (versioning.RawRecord, bool, error) {
	kBytes, err := s.config.KeySerde.Encode(key)
	if err != nil {
		return versioning.RawRecord{}, false, err
	}
	var result bson.M
	err = RunWithRetry(ctx, s.config.Retries, func(ctx context.Context) error {
		return s.col.FindOne(ctx, bson.M{KEY_NAME: kBytes}).Decode(&result)
	})
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return versioning.RawRecord{}, false, nil
		}
		return versioning.RawRecord{}, false, classifyMongoErr("read", err)
	}
	return docToRecord(result), true, nil
}

func (s *MongoDBValueStore[K]) Write(ctx context.Context, key K, rec versioning.RawRecord) error {
	kBytes, err := s.config.KeySerde.Encode(key)
	if err != nil {
		return err
	}
	update := recordToUpdate(rec)
	opts := options.Update().SetUpsert(true)
	err = RunWithRetry(ctx, s.config.Retries, func(ctx context.Context) error {
		_, err := s.col.UpdateOne(ctx, bson.M{KEY_NAME: kBytes}, update, opts)
		return err
	})
	if err != nil {
		debug.Fprintf(os.Stderr, "mongodb write of %v failed: %v\n", kBytes, err)
	}
	return classifyMongoErr("write", err)
}

func recordToUpdate(rec versioning.RawRecord) bson.M {
	set := bson.M{}
	unset := bson.M{}
	if rec.Payload != nil {
		set[VALUE_NAME] = rec.Payload
	} else {
		unset[VALUE_NAME] = ""
	}
	if rec.HasTxID {
		set[TXID_NAME] = int64(rec.TxID)
	} else {
		unset[TXID_NAME] = ""
	}
	if rec.Prior != nil {
		set[PREV_NAME] = rec.Prior
	} else {
		unset[PREV_NAME] = ""
	}
	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return update
}

func docToRecord(doc bson.M) versioning.RawRecord {
	rec := versioning.RawRecord{}
	rec.Payload = binaryField(doc, VALUE_NAME)
	rec.Prior = binaryField(doc, PREV_NAME)
	switch txid := doc[TXID_NAME].(type) {
	case int64:
		rec.TxID, rec.HasTxID = uint64(txid), true
	case int32:
		rec.TxID, rec.HasTxID = uint64(txid), true
	}
	return rec
}

func binaryField(doc bson.M, name string) []byte {
	v, ok := doc[name]
	if !ok || v == nil {
		return nil
	}
	bin, ok := v.(primitive.Binary)
	if !ok {
		return nil
	}
	if bin.Data == nil {
		return []byte{}
	}
	return bin.Data
}

func (s *MongoDBValueStore[K]) Close(ctx context.Context) error {
	return s.config.Client.Disconnect(ctx)
}
