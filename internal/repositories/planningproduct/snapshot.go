package planningproduct

import (
	"context"

	goredis "github.com/redis/go-redis/v9"

	"github.com/hideyanjp01-maker/workbench/pkg/redis"
	"github.com/hideyanjp01-maker/workbench/pkg/tracing"
)

// Snapshots persists the state document. Load returns an empty
// current-version document when nothing has been written yet.
type Snapshots interface {
	Load(ctx context.Context) (StateDocument, error)
	Save(ctx context.Context, doc StateDocument) error
}

// RedisSnapshots stores the document as a JSON string under a fixed key.
type RedisSnapshots struct {
	client *redis.Client
	key    string
}

func NewRedisSnapshots(client *redis.Client, key string) *RedisSnapshots {
	return &RedisSnapshots{client: client, key: key}
}

func (s *RedisSnapshots) Load(ctx context.Context) (StateDocument, error) {
	ctx, span := tracing.StartSpan(ctx, "planningproduct.Snapshots.Load")
	defer span.End()

	raw, err := s.client.Get(ctx, s.key)
	if err == goredis.Nil {
		return NewStateDocument(), nil
	}
	if err != nil {
		return StateDocument{}, err
	}

	return ParseStateDocument([]byte(raw))
}

func (s *RedisSnapshots) Save(ctx context.Context, doc StateDocument) error {
	ctx, span := tracing.StartSpan(ctx, "planningproduct.Snapshots.Save")
	defer span.End()

	data, err := doc.Encode()
	if err != nil {
		return err
	}

	// the state document never expires
	return s.client.Set(ctx, s.key, data, 0)
}
