package store

import (
	"bytes"
	"context"
	"encoding/hex"
	"io"
	"net/http"

	"versioned-state/pkg/hashfuncs"
	"versioned-state/pkg/versioning"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
)

type MinioConfig struct {
	Addrs           []string
	AccessKey       string
	SecretAccessKey string
	Bucket          string
	Secure          bool
}

func NewMinioClients(cfg MinioConfig) ([]*minio.Client, error) {
	mcs := make([]*minio.Client, len(cfg.Addrs))
	for i := 0; i < len(cfg.Addrs); i++ {
		mc, err := minio.New(cfg.Addrs[i], &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretAccessKey, ""),
			Secure: cfg.Secure,
		})
		if err != nil {
			return nil, err
		}
		mcs[i] = mc
	}
	log.Info().Strs("minio addr", cfg.Addrs).Str("bucket", cfg.Bucket).Msg("created minio clients")
	return mcs, nil
}

// MinioValueStore keeps one object per key, named <store>/<hex key>, spread
// over the clients by key hash.
type MinioValueStore[K any] struct {
	minioClients []*minio.Client
	bucket       string
	name         string
	rb           recordBytes[K]
}

var _ = ValueStore[string](&MinioValueStore[string]{})

func NewMinioValueStore[K any](name string, mcs []*minio.Client, bucket string, cfg BytesConfig[K]) (*MinioValueStore[K], error) {
	rb, err := newRecordBytes(cfg)
	if err != nil {
		return nil, err
	}
	return &MinioValueStore[K]{minioClients: mcs, bucket: bucket, name: name, rb: rb}, nil
}

func (mc *MinioValueStore[K]) CreateBucket(ctx context.Context) error {
	for i := 0; i < len(mc.minioClients); i++ {
		exists, err := mc.minioClients[i].BucketExists(ctx, mc.bucket)
		if err != nil {
			return classifyMinioErr("bucket", err)
		}
		if exists {
			continue
		}
		err = mc.minioClients[i].MakeBucket(ctx, mc.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return classifyMinioErr("bucket", err)
		}
	}
	return nil
}

func (mc *MinioValueStore[K]) Name() string {
	return mc.name
}

func (mc *MinioValueStore[K]) TableType() TABLE_TYPE {
	return MINIO
}

func (mc *MinioValueStore[K]) object(key K) (string, *minio.Client, error) {
	kBytes, err := mc.rb.encodeKey(key)
	if err != nil {
		return "", nil, err
	}
	idx := hashfuncs.ShardOf(kBytes, len(mc.minioClients))
	return mc.name + "/" + hex.EncodeToString(kBytes), mc.minioClients[idx], nil
}

func (mc *MinioValueStore[K]) Read(ctx context.Context, key K) (versioning.RawRecord, bool, error) {
	name, client, err := mc.object(key)
	if err != nil {
		return versioning.RawRecord{}, false, err
	}
	var b []byte
	obj, err := client.GetObject(ctx, mc.bucket, name, minio.GetObjectOptions{})
	if err == nil {
		defer obj.Close()
		b, err = io.ReadAll(obj)
	}
	if err != nil {
		// the object reader reports a missing key on first read
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return versioning.RawRecord{}, false, nil
		}
		return versioning.RawRecord{}, false, classifyMinioErr("read", err)
	}
	rec, err := mc.rb.decodeRecord(b)
	if err != nil {
		return versioning.RawRecord{}, false, err
	}
	return rec, true, nil
}

func (mc *MinioValueStore[K]) Write(ctx context.Context, key K, rec versioning.RawRecord) error {
	name, client, err := mc.object(key)
	if err != nil {
		return err
	}
	b, err := mc.rb.encodeRecord(rec)
	if err != nil {
		return err
	}
	_, err = client.PutObject(ctx, mc.bucket, name, bytes.NewReader(b), int64(len(b)),
		minio.PutObjectOptions{ContentType: "application/octet-stream"})
	return classifyMinioErr("write", err)
}

func classifyMinioErr(op string, err error) error {
	if err == nil {
		return nil
	}
	resp := minio.ToErrorResponse(err)
	if resp.StatusCode >= http.StatusBadRequest && resp.StatusCode < http.StatusInternalServerError {
		return rejected("minio", op, err)
	}
	return unavailable("minio", op, err)
}
