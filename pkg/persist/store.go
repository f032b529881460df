package persist

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/matzehuels/waypoint/pkg/errors"
	"github.com/matzehuels/waypoint/pkg/nav"
)

// Store persists partial navigation state.
type Store interface {
	// Load returns the state stored under key, marked stale, or nil when
	// nothing is stored.
	Load(ctx context.Context, key string) (*nav.State, error)

	// Save stores state under key, replacing any previous value.
	Save(ctx context.Context, key string, state *nav.State) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Backend names accepted by [Open].
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendNone   = "none"
)

// Config selects and configures a backend.
type Config struct {
	Backend string
	// Dir is the FileStore directory.
	Dir string
	// Addr, Password and DB configure Redis.
	Addr     string
	Password string
	DB       int
	// URI and Database configure MongoDB.
	URI      string
	Database string
	// Prefix scopes every key.
	Prefix string
	// TTL expires entries; zero keeps them forever.
	TTL time.Duration
}

// Open creates the store described by cfg. The result reports loads and
// saves to the registered observability hooks.
func Open(ctx context.Context, cfg Config) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Backend {
	case BackendFile, "":
		s, err = NewFileStore(cfg.Dir, cfg.TTL)
	case BackendMemory:
		s = NewMemoryStore()
	case BackendRedis:
		s, err = NewRedisStore(ctx, RedisConfig{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB, TTL: cfg.TTL})
	case BackendMongo:
		s, err = NewMongoStore(ctx, MongoConfig{URI: cfg.URI, Database: cfg.Database, TTL: cfg.TTL})
	case BackendNone:
		s = NewNullStore()
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	if cfg.Prefix != "" {
		s = Scoped(s, cfg.Prefix)
	}
	backend := cfg.Backend
	if backend == "" {
		backend = BackendFile
	}
	return Instrument(s, backend), nil
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// encode serializes the partial projection of state.
func encode(state *nav.State) ([]byte, error) {
	if state == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "cannot save nil state")
	}
	return nav.Encode(nav.Partial(state))
}

func checkKey(key string) error {
	return errors.ValidateStoreKey(key)
}
