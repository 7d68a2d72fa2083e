package session

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	BackendMemory = "memory"
	BackendMongo  = "mongo"

	// cacheTTL bounds how stale a cached Mongo read may be.
	cacheTTL = 30 * time.Second
)

// Options selects and configures a Store backend.
type Options struct {
	Backend  string
	TTL      time.Duration
	MongoURI string
	MongoDB  string
}

// Open builds the configured Store. The returned close function releases
// its resources and is safe to call once.
func Open(ctx context.Context, opts Options) (Store, func(), error) {
	switch opts.Backend {
	case "", BackendMemory:
		m := NewMemoryStore(opts.TTL)
		return m, m.Stop, nil
	case BackendMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.MongoURI))
		if err != nil {
			return nil, nil, fmt.Errorf("mongo connect: %w", err)
		}
		closeFn := func() { _ = client.Disconnect(context.Background()) }
		ms, err := NewMongoStore(ctx, client, opts.MongoDB, opts.TTL)
		if err != nil {
			closeFn()
			return nil, nil, err
		}
		return NewCachedStore(ms, cacheTTL), closeFn, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}
