package tagindex

import (
	"context"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
)

// Redis key pattern helpers
//
// All keys are namespaced by board id so several boards can share one server.
//
// Key pattern: easel:{board_id}:tag:{tag}
// Tag registry: easel:{board_id}:tags

// TagKey returns the Redis key for the set of item ids carrying tag.
// Pattern: easel:{board_id}:tag:{tag}
func TagKey(boardID, tag string) string {
	return fmt.Sprintf("easel:%s:tag:%s", boardID, tag)
}

// TagsKey returns the Redis key for the set of tag names recorded for a board.
// Pattern: easel:{board_id}:tags
func TagsKey(boardID string) string {
	return fmt.Sprintf("easel:%s:tags", boardID)
}

// RedisIndex stores mappings as Redis sets.
// The client is thread-safe and can be used concurrently from multiple goroutines.
type RedisIndex struct {
	rdb     *redis.Client
	boardID string
}

// OpenRedis connects to the Redis server at url (redis://host:port/db) and
// verifies connectivity.
func OpenRedis(ctx context.Context, url, boardID string) (*RedisIndex, error) {
	if url == "" {
		return nil, fmt.Errorf("redis url cannot be empty")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url %q: %w", url, err)
	}

	idx, err := NewRedisIndex(opts, boardID)
	if err != nil {
		return nil, err
	}
	if err := idx.Ping(ctx); err != nil {
		idx.Close()
		return nil, err
	}
	return idx, nil
}

// NewRedisIndex creates an index for boardID without checking connectivity.
func NewRedisIndex(opts *redis.Options, boardID string) (*RedisIndex, error) {
	if boardID == "" {
		return nil, fmt.Errorf("board id cannot be empty")
	}
	return &RedisIndex{
		rdb:     redis.NewClient(opts),
		boardID: boardID,
	}, nil
}

// Ping verifies Redis connectivity.
func (r *RedisIndex) Ping(ctx context.Context) error {
	if err := r.rdb.Ping(ctx).Err(); err != nil {
		return storageError("ping redis", err)
	}
	return nil
}

// Close closes the Redis connection.
func (r *RedisIndex) Close() error {
	return r.rdb.Close()
}

// Record adds itemID to each tag set and registers the tags, atomically.
func (r *RedisIndex) Record(ctx context.Context, itemID string, tags ...string) error {
	if err := validateRecord(itemID, tags); err != nil {
		return err
	}
	if len(tags) == 0 {
		return nil
	}

	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, tag := range tags {
			pipe.SAdd(ctx, TagKey(r.boardID, tag), itemID)
			pipe.SAdd(ctx, TagsKey(r.boardID), tag)
		}
		return nil
	})
	if err != nil {
		return storageError("record tag", err)
	}
	return nil
}

// ItemsForTag returns the ids recorded for tag.
func (r *RedisIndex) ItemsForTag(ctx context.Context, tag string) ([]string, error) {
	ids, err := r.rdb.SMembers(ctx, TagKey(r.boardID, tag)).Result()
	if err != nil {
		return nil, storageError("read tag", err)
	}
	sort.Strings(ids)
	return ids, nil
}

// AllMappings returns every registered tag with its ids.
func (r *RedisIndex) AllMappings(ctx context.Context) (map[string][]string, error) {
	tags, err := r.rdb.SMembers(ctx, TagsKey(r.boardID)).Result()
	if err != nil {
		return nil, storageError("read tags", err)
	}

	cmds := make(map[string]*redis.StringSliceCmd, len(tags))
	_, err = r.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, tag := range tags {
			cmds[tag] = pipe.SMembers(ctx, TagKey(r.boardID, tag))
		}
		return nil
	})
	if err != nil {
		return nil, storageError("read mappings", err)
	}

	out := make(map[string][]string, len(tags))
	for tag, cmd := range cmds {
		ids := cmd.Val()
		if len(ids) == 0 {
			continue
		}
		out[tag] = ids
	}
	return sortMappings(out), nil
}

// Prune removes ids that are not live and drops tags left with no ids.
func (r *RedisIndex) Prune(ctx context.Context, live func(itemID string) bool) (int, error) {
	mappings, err := r.AllMappings(ctx)
	if err != nil {
		return 0, err
	}

	tags, err := r.rdb.SMembers(ctx, TagsKey(r.boardID)).Result()
	if err != nil {
		return 0, storageError("read tags", err)
	}

	removed := 0
	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, tag := range tags {
			ids := mappings[tag]
			var dead []interface{}
			for _, id := range ids {
				if !live(id) {
					dead = append(dead, id)
				}
			}
			if len(dead) > 0 {
				pipe.SRem(ctx, TagKey(r.boardID, tag), dead...)
				removed += len(dead)
			}
			if len(dead) == len(ids) {
				pipe.SRem(ctx, TagsKey(r.boardID), tag)
			}
		}
		return nil
	})
	if err != nil {
		return 0, storageError("prune mappings", err)
	}
	return removed, nil
}
