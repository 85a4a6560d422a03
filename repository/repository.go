// Package repository defines the storage boundary spec.md §6 names as an
// external collaborator: save, findById, findByName, findAll, remove,
// exists. The kernel core never imports a concrete implementation; a
// plugin's Setup wires one in and exposes it through its own API.
package repository

// Result is the {ok:true,value} | {ok:false,error} sum type spec.md §6
// describes for every repository operation.
type Result[T any] struct {
	ok    bool
	value T
	err   error
}

// Ok constructs a successful Result.
func Ok[T any](v T) Result[T] {
	return Result[T]{ok: true, value: v}
}

// Err constructs a failed Result.
func Err[T any](err error) Result[T] {
	return Result[T]{err: err}
}

// IsOk reports whether the Result holds a value.
func (r Result[T]) IsOk() bool { return r.ok }

// Value returns the held value and whether one is present.
func (r Result[T]) Value() (T, bool) { return r.value, r.ok }

// Error returns the held error, if any.
func (r Result[T]) Error() error { return r.err }

// Unwrap returns the value, panicking if the Result is an error. Intended
// for call sites that have already checked IsOk.
func (r Result[T]) Unwrap() T {
	if !r.ok {
		panic(r.err)
	}
	return r.value
}

// Repository is the storage-agnostic contract a plugin's API exposes its
// persistence through, per spec.md §6.
type Repository[T any] interface {
	Save(id string, v T) Result[T]
	FindByID(id string) Result[T]
	FindByName(name string) Result[T]
	FindAll() Result[[]T]
	Remove(id string) Result[bool]
	Exists(id string) Result[bool]
}

// Named is implemented by values that carry their own lookup name, used
// by FindByName implementations that index on it.
type Named interface {
	RepositoryName() string
}
