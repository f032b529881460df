//go:build integration

package persist

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestRedisStoreIntegration(t *testing.T) {
	addr := os.Getenv("WAYPOINT_REDIS_ADDR")
	if addr == "" {
		t.Skip("WAYPOINT_REDIS_ADDR not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s, err := NewRedisStore(ctx, RedisConfig{Addr: addr, KeyPrefix: "waypoint:test:", TTL: time.Minute})
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	defer s.Close()
	testStore(t, s)
}

func TestMongoStoreIntegration(t *testing.T) {
	uri := os.Getenv("WAYPOINT_MONGO_URI")
	if uri == "" {
		t.Skip("WAYPOINT_MONGO_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s, err := NewMongoStore(ctx, MongoConfig{URI: uri, Database: "waypoint_test", TTL: time.Minute})
	if err != nil {
		t.Fatalf("NewMongoStore: %v", err)
	}
	defer s.Close()
	testStore(t, s)
}
