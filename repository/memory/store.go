// Package memory is the trivial in-memory Repository glue spec.md §1
// calls out alongside the redis-backed variant.
package memory

import (
	"sort"
	"sync"

	"github.com/zernjs/kernel/repository"
)

// Store is a mutex-guarded map implementing repository.Repository[T].
type Store[T any] struct {
	mu   sync.RWMutex
	data map[string]T
}

// New creates an empty Store.
func New[T any]() *Store[T] {
	return &Store[T]{data: make(map[string]T)}
}

func (s *Store[T]) Save(id string, v T) repository.Result[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[id] = v
	return repository.Ok(v)
}

func (s *Store[T]) FindByID(id string) repository.Result[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[id]
	if !ok {
		return repository.Err[T](errNotFound(id))
	}
	return repository.Ok(v)
}

func (s *Store[T]) FindByName(name string) repository.Result[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range s.data {
		if named, ok := any(v).(repository.Named); ok && named.RepositoryName() == name {
			return repository.Ok(v)
		}
	}
	return repository.Err[T](errNotFound(name))
}

func (s *Store[T]) FindAll() repository.Result[[]T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.data[id])
	}
	return repository.Ok(out)
}

func (s *Store[T]) Remove(id string) repository.Result[bool] {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[id]; !ok {
		return repository.Ok(false)
	}
	delete(s.data, id)
	return repository.Ok(true)
}

func (s *Store[T]) Exists(id string) repository.Result[bool] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.data[id]
	return repository.Ok(ok)
}
