package redis

import (
	"context"
	"errors"
	"fmt"
)

// Healthcheck pings the server and verifies the snapshot index key is either
// absent or a sorted set, which catches a prefix shared with unrelated data.
// It has the shape of introspect.Check.
func (s *Store) Healthcheck(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return errors.Join(ErrHealthcheckFailed, err)
	}

	typ, err := s.client.Type(ctx, s.indexKey()).Result()
	if err != nil {
		return errors.Join(ErrHealthcheckFailed, err)
	}
	if typ != "none" && typ != "zset" {
		return errors.Join(ErrHealthcheckFailed,
			fmt.Errorf("index key %q holds a %s", s.indexKey(), typ))
	}
	return nil
}
