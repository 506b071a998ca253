package redistestutil

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultAddr = "localhost:6379"

// Addr is the Redis used by tests. REDIS_TEST_ADDR overrides the local default.
func Addr() string {
	if addr := os.Getenv("REDIS_TEST_ADDR"); addr != "" {
		return addr
	}

	return defaultAddr
}

// NewTestClient returns a client and a key prefix unique to the test. Keys
// under the prefix are removed on cleanup. The test is skipped when Redis
// does not answer PING.
func NewTestClient(t *testing.T) (*redis.Client, string) {
	t.Helper()

	rdb := redis.NewClient(&redis.Options{Addr: Addr()})

	ctx, cancel := context.WithTimeout(t.Context(), 2*time.Second)
	defer cancel()

	err := rdb.Ping(ctx).Err()
	if err != nil {
		_ = rdb.Close()
		t.Skipf("redis not reachable at %s: %v", Addr(), err)
	}

	var rnd [6]byte
	_, _ = rand.Read(rnd[:])
	prefix := "test:" + hex.EncodeToString(rnd[:])

	t.Cleanup(func() {
		cctx, ccancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer ccancel()

		iter := rdb.Scan(cctx, 0, prefix+":*", 100).Iterator()
		for iter.Next(cctx) {
			_ = rdb.Del(cctx, iter.Val()).Err()
		}

		_ = rdb.Close()
	})

	return rdb, prefix
}
