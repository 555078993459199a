// Package repokit provides common types and helpers for repository implementations
package repokit

import (
	"rosterline/internal/platform/store"
)

// Docs is the document store surface repos bind against
type Docs = store.Docs

// Binder is a tiny factory that binds a domain repo to a specific Docs seam
type Binder[T any] interface {
	Bind(Docs) T
}

// BindFunc lets you create a Binder from a function
type BindFunc[T any] func(Docs) T

// Bind calls the underlying function
func (f BindFunc[T]) Bind(d Docs) T { return f(d) }

// RequireDocs panics early on programmer error (nil seam)
func RequireDocs(d Docs) Docs {
	if d == nil {
		panic("repokit: nil Docs")
	}
	return d
}

// MustBind is a convenience that validates d then binds
func MustBind[T any](b Binder[T], d Docs) T {
	return b.Bind(RequireDocs(d))
}
