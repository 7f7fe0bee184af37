// Package catalog holds the in-memory rule store snapshot. Reloads publish
// a whole new immutable rule set atomically, so an in-flight resolution
// observes either the fully-old or fully-new set, never a partial one.
package catalog

import (
	"sync/atomic"
	"time"

	"github.com/andestravel/feerules/internal/model"
)

// Snapshot is one immutable published rule set with load provenance.
type Snapshot struct {
	Rules    []model.Rule
	Source   string
	LoadedAt time.Time
}

// Catalog is a concurrency-safe holder for the current rule snapshot.
// The zero value is empty and ready to use.
type Catalog struct {
	snap atomic.Pointer[Snapshot]
}

// New returns a catalog pre-loaded with the given rules.
func New(rules []model.Rule, source string) *Catalog {
	c := &Catalog{}
	c.Replace(rules, source)
	return c
}

// Replace atomically publishes a new rule set. The caller must not modify
// the slice after publishing.
func (c *Catalog) Replace(rules []model.Rule, source string) {
	c.snap.Store(&Snapshot{
		Rules:    rules,
		Source:   source,
		LoadedAt: time.Now().UTC(),
	})
}

// Snapshot returns the current published snapshot, or an empty one when
// nothing has been loaded yet.
func (c *Catalog) Snapshot() Snapshot {
	if s := c.snap.Load(); s != nil {
		return *s
	}
	return Snapshot{Rules: []model.Rule{}}
}

// Rules returns the current rule set. Callers must treat it as read-only.
func (c *Catalog) Rules() []model.Rule {
	return c.Snapshot().Rules
}
