package redis_client

import (
	"context"
	"os"
	"strings"

	"github.com/go-redis/redis/v9"
	"github.com/rs/zerolog/log"
)

func GetRedisAddr() []string {
	raw_addr := os.Getenv("REDIS_ADDR")
	if raw_addr == "" {
		return nil
	}
	return strings.Split(raw_addr, ",")
}

func GetRedisClients(addr_arr []string) []*redis.Client {
	rdb_arr := make([]*redis.Client, len(addr_arr))
	for i := 0; i < len(addr_arr); i++ {
		rdb_arr[i] = redis.NewClient(&redis.Options{
			Addr:     addr_arr[i],
			Password: "", // no password set
			DB:       0,  // use default DB
		})
	}
	log.Info().Strs("redis addr", addr_arr).Msg("created redis clients")
	return rdb_arr
}

// PingAll checks every client once so a bad address fails at startup
// instead of on the first batch.
func PingAll(ctx context.Context, rdb_arr []*redis.Client) error {
	for _, rdb := range rdb_arr {
		if err := rdb.Ping(ctx).Err(); err != nil {
			return err
		}
	}
	return nil
}
