package store

import (
	"context"
	"fmt"

	"github.com/zernjs/kernel/kernelerrors"

	kjson "github.com/zernjs/kernel/json"
)

// Txn is the handle passed to a Store.Transaction callback.
type Txn struct {
	s *Store
}

// Set writes value at key within the transaction.
func (t *Txn) Set(key string, value any) {
	_ = t.s.Set(key, value)
}

// Get reads the current value, including writes already made in this
// transaction.
func (t *Txn) Get(key string) (any, bool) {
	return t.s.Get(key)
}

func (s *Store) snapshotForClone() (map[string]any, error) {
	s.mu.Lock()
	current := make(map[string]any, len(s.data))
	for k, v := range s.data {
		current[k] = v
	}
	strategy := s.opts.CloneStrategy
	s.mu.Unlock()

	if strategy == CloneManual {
		clone := make(map[string]any, len(current))
		for k, v := range current {
			if c, ok := v.(Cloner); ok {
				clone[k] = c.Clone()
				continue
			}
			clone[k] = v
		}
		return clone, nil
	}

	raw, err := kjson.Marshal(current)
	if err != nil {
		return nil, err
	}
	var clone map[string]any
	if err := kjson.Unmarshal(raw, &clone); err != nil {
		return nil, err
	}
	return clone, nil
}

// restore resets s.data and truncates s.history/s.redo back to the
// lengths captured before the transaction ran, so a rolled-back write
// never leaves a phantom entry for Undo/Redo to replay (spec.md §4.5:
// no watcher observes a rolled-back value).
func (s *Store) restore(pre map[string]any, preHistoryLen int, preRedo []Change) {
	s.mu.Lock()
	s.data = pre
	if preHistoryLen <= len(s.history) {
		s.history = s.history[:preHistoryLen]
	}
	s.redo = preRedo
	s.mu.Unlock()
}

// Transaction runs fn against a pre-state snapshot. If fn returns an
// error or panics, the store is restored byte-for-byte and no watcher
// fires; on success, changes are delivered as a single batch (spec.md
// §4.5 "Inside transaction(fn)").
func (s *Store) Transaction(ctx context.Context, fn func(*Txn) error) (err error) {
	pre, cloneErr := s.snapshotForClone()
	if cloneErr != nil {
		return kernelerrors.NewTransactionFailed(cloneErr)
	}

	s.mu.Lock()
	preHistoryLen := len(s.history)
	preRedo := append([]Change(nil), s.redo...)
	s.inBatch++
	s.txnDepth++
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inBatch--
		s.txnDepth--
		changes := s.batchChanges
		s.batchChanges = nil
		s.mu.Unlock()

		if r := recover(); r != nil {
			s.restore(pre, preHistoryLen, preRedo)
			err = fmt.Errorf("transaction panic: %v", r)
			return
		}
		if err != nil {
			s.restore(pre, preHistoryLen, preRedo)
			return
		}
		if s.inBatchDepth() > 0 {
			// an outer batch/transaction owns delivery
			s.mu.Lock()
			s.batchChanges = append(s.batchChanges, changes...)
			s.mu.Unlock()
			return
		}
		if len(changes) > 0 {
			s.notify(changes)
		}
	}()

	if err = ctx.Err(); err != nil {
		return err
	}
	err = fn(&Txn{s: s})
	return err
}

func (s *Store) inBatchDepth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inBatch
}
