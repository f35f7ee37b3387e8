package store

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"versioned-state/pkg/commtypes"

	"github.com/stretchr/testify/require"
)

func TestMinioValueStore(t *testing.T) {
	addr := os.Getenv("MINIO_ADDR")
	if addr == "" {
		t.Skip("MINIO_ADDR is not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	cfg := MinioConfig{
		Addrs:           []string{addr},
		AccessKey:       os.Getenv("MINIO_ACCESS_KEY"),
		SecretAccessKey: os.Getenv("MINIO_SECRET_KEY"),
		Bucket:          "versioned-state-test",
	}
	mcs, err := NewMinioClients(cfg)
	require.NoError(t, err)
	s, err := NewMinioValueStore[string](fmt.Sprintf("words-%d", time.Now().UnixNano()), mcs, cfg.Bucket,
		stringBytesConfig(commtypes.JSON))
	require.NoError(t, err)
	require.NoError(t, s.CreateBucket(ctx))
	RunValueStoreTests(ctx, s, t)
}

func TestMinioObjectNamesAreNamespaced(t *testing.T) {
	mcs, err := NewMinioClients(MinioConfig{Addrs: []string{"127.0.0.1:9000", "127.0.0.1:9001"}})
	require.NoError(t, err)
	s, err := NewMinioValueStore[string]("words", mcs, "b", stringBytesConfig(commtypes.MSGP))
	require.NoError(t, err)
	name, _, err := s.object("moon/../x")
	require.NoError(t, err)
	require.Equal(t, "words/6d6f6f6e2f2e2e2f78", name)
}
