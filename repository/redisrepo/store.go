// Package redisrepo adapts the teacher's redis_client connection
// bootstrap into a repository.Repository[T], storing values JSON-encoded
// through the kernel's json package (spec.md §3.8).
package redisrepo

import (
	"context"
	"fmt"

	goredis "github.com/go-redis/redis/v8"

	"github.com/zernjs/kernel/json"
	"github.com/zernjs/kernel/redis_client"
	"github.com/zernjs/kernel/repository"
)

// Store is a Repository[T] backed by a Redis hash: one hash per type,
// keyed by id, plus a name index for FindByName.
type Store[T any] struct {
	client *goredis.Client
	hash   string
	ctx    context.Context
}

// New connects to Redis using the teacher's redis_client.Config/NewRedis
// and returns a Store namespaced under hash.
func New[T any](cfg redis_client.Config, hash string) (*Store[T], error) {
	client, err := redis_client.NewRedis(cfg)
	if err != nil {
		return nil, fmt.Errorf("redisrepo: connecting: %w", err)
	}
	return &Store[T]{client: client, hash: hash, ctx: context.Background()}, nil
}

func (s *Store[T]) nameIndexKey() string { return s.hash + ":by-name" }

func (s *Store[T]) Save(id string, v T) repository.Result[T] {
	data, err := json.Marshal(v)
	if err != nil {
		return repository.Err[T](fmt.Errorf("redisrepo: encoding %q: %w", id, err))
	}
	if err := s.client.HSet(s.ctx, s.hash, id, data).Err(); err != nil {
		return repository.Err[T](fmt.Errorf("redisrepo: saving %q: %w", id, err))
	}
	if named, ok := any(v).(repository.Named); ok {
		if err := s.client.HSet(s.ctx, s.nameIndexKey(), named.RepositoryName(), id).Err(); err != nil {
			return repository.Err[T](fmt.Errorf("redisrepo: indexing name for %q: %w", id, err))
		}
	}
	return repository.Ok(v)
}

func (s *Store[T]) FindByID(id string) repository.Result[T] {
	data, err := s.client.HGet(s.ctx, s.hash, id).Bytes()
	if err == goredis.Nil {
		return repository.Err[T](fmt.Errorf("redisrepo: no entry for %q", id))
	}
	if err != nil {
		return repository.Err[T](fmt.Errorf("redisrepo: reading %q: %w", id, err))
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return repository.Err[T](fmt.Errorf("redisrepo: decoding %q: %w", id, err))
	}
	return repository.Ok(v)
}

func (s *Store[T]) FindByName(name string) repository.Result[T] {
	id, err := s.client.HGet(s.ctx, s.nameIndexKey(), name).Result()
	if err == goredis.Nil {
		return repository.Err[T](fmt.Errorf("redisrepo: no entry named %q", name))
	}
	if err != nil {
		return repository.Err[T](fmt.Errorf("redisrepo: resolving name %q: %w", name, err))
	}
	return s.FindByID(id)
}

func (s *Store[T]) FindAll() repository.Result[[]T] {
	all, err := s.client.HGetAll(s.ctx, s.hash).Result()
	if err != nil {
		return repository.Err[[]T](fmt.Errorf("redisrepo: listing %s: %w", s.hash, err))
	}
	out := make([]T, 0, len(all))
	for id, raw := range all {
		var v T
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return repository.Err[[]T](fmt.Errorf("redisrepo: decoding %q: %w", id, err))
		}
		out = append(out, v)
	}
	return repository.Ok(out)
}

func (s *Store[T]) Remove(id string) repository.Result[bool] {
	n, err := s.client.HDel(s.ctx, s.hash, id).Result()
	if err != nil {
		return repository.Err[bool](fmt.Errorf("redisrepo: removing %q: %w", id, err))
	}
	return repository.Ok(n > 0)
}

func (s *Store[T]) Exists(id string) repository.Result[bool] {
	ok, err := s.client.HExists(s.ctx, s.hash, id).Result()
	if err != nil {
		return repository.Err[bool](fmt.Errorf("redisrepo: checking %q: %w", id, err))
	}
	return repository.Ok(ok)
}
