package persist

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	werrors "github.com/matzehuels/waypoint/pkg/errors"
	"github.com/matzehuels/waypoint/pkg/nav"
)

// MongoConfig configures a [MongoStore].
type MongoConfig struct {
	URI string
	// Database defaults to "waypoint".
	Database string
	// Collection defaults to "states".
	Collection string
	TTL        time.Duration
}

// MongoStore keeps partial states as documents keyed by store key.
// Expired documents are removed by a TTL index on expires_at.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	ttl    time.Duration
}

type stateDocument struct {
	Key       string     `bson:"_id"`
	State     []byte     `bson:"state"`
	SavedAt   time.Time  `bson:"saved_at"`
	ExpiresAt *time.Time `bson:"expires_at,omitempty"`
}

// NewMongoStore connects to MongoDB and ensures the TTL index exists.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		return nil, werrors.New(werrors.ErrCodeInvalidConfig, "mongo URI is required")
	}
	if cfg.Database == "" {
		cfg.Database = "waypoint"
	}
	if cfg.Collection == "" {
		cfg.Collection = "states"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, werrors.Wrap(werrors.ErrCodeStore, err, "connect to mongo")
	}
	if err := RetryWithBackoff(ctx, func() error { return classify(client.Ping(ctx, nil)) }); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, werrors.Wrap(werrors.ErrCodeStore, err, "ping mongo")
	}

	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, werrors.Wrap(werrors.ErrCodeStore, err, "create ttl index")
	}
	return &MongoStore{client: client, coll: coll, ttl: cfg.TTL}, nil
}

// Load reads the state stored under key.
func (s *MongoStore) Load(ctx context.Context, key string) (*nav.State, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}

	var doc stateDocument
	err := RetryWithBackoff(ctx, func() error {
		return classify(s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc))
	})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, werrors.Wrap(werrors.ErrCodeStore, err, "mongo find %s", key)
	}
	// The TTL monitor runs once a minute; expired documents may linger.
	if doc.ExpiresAt != nil && time.Now().After(*doc.ExpiresAt) {
		return nil, nil
	}

	state, err := nav.DecodePartial(doc.State)
	if err != nil {
		return nil, werrors.Wrap(werrors.ErrCodeStore, err, "decode %s", key)
	}
	return state, nil
}

// Save upserts the partial projection of state under key.
func (s *MongoStore) Save(ctx context.Context, key string, state *nav.State) error {
	if err := checkKey(key); err != nil {
		return err
	}
	data, err := encode(state)
	if err != nil {
		return err
	}

	doc := stateDocument{Key: key, State: data, SavedAt: time.Now().UTC()}
	if s.ttl > 0 {
		exp := doc.SavedAt.Add(s.ttl)
		doc.ExpiresAt = &exp
	}
	err = RetryWithBackoff(ctx, func() error {
		_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
		return classify(err)
	})
	if err != nil {
		return werrors.Wrap(werrors.ErrCodeStore, err, "mongo upsert %s", key)
	}
	return nil
}

// Delete removes key.
func (s *MongoStore) Delete(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	err := RetryWithBackoff(ctx, func() error {
		_, err := s.coll.DeleteOne(ctx, bson.M{"_id": key})
		return classify(err)
	})
	if err != nil {
		return werrors.Wrap(werrors.ErrCodeStore, err, "mongo delete %s", key)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
