// Package refcache maps natural keys (business identifier tuples) to the
// surrogate ids the store assigned earlier in the same run. The cache is the
// sole owner of those mappings and is discarded at run end; it is not safe
// for concurrent writers.
package refcache

import (
	"fmt"
	"strings"
)

type Entity string

const (
	School       Entity = "school"
	Grade        Entity = "grade"
	Section      Entity = "section"
	Subject      Entity = "subject"
	Teacher      Entity = "teacher"
	Student      Entity = "student"
	FeeStructure Entity = "fee_structure"
	FeePayment   Entity = "fee_payment"
)

type DuplicateKeyError struct {
	Entity Entity
	Key    string
	Have   uint
	Got    uint
}

func (e *DuplicateKeyError) Error() string {
	if e.Got == 0 {
		return fmt.Sprintf("%s %q already registered as id %d, refusing duplicate row",
			e.Entity, e.Key, e.Have)
	}
	return fmt.Sprintf("%s %q already registered as id %d, refusing id %d",
		e.Entity, e.Key, e.Have, e.Got)
}

type UnresolvedReferenceError struct {
	Entity Entity
	Key    string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("%s %q not registered in this run", e.Entity, e.Key)
}

type Cache struct {
	fold bool
	keys map[Entity]map[string]uint
	ids  map[Entity]map[uint]bool
}

// New returns an empty run-scoped cache. With fold set, key components are
// lower-folded so lookups become case-insensitive.
func New(fold bool) *Cache {
	return &Cache{
		fold: fold,
		keys: make(map[Entity]map[string]uint),
		ids:  make(map[Entity]map[uint]bool),
	}
}

// Key joins natural-key components into the cache's lookup form.
func Key(parts ...string) string {
	return strings.Join(parts, "\x1f")
}

func (c *Cache) norm(key string) string {
	if c.fold {
		return strings.ToLower(key)
	}
	return key
}

// Register binds a natural key to a surrogate id. Re-registering the same
// binding is a no-op; a conflicting id fails.
func (c *Cache) Register(e Entity, key string, id uint) error {
	key = c.norm(key)
	m := c.keys[e]
	if m == nil {
		m = make(map[string]uint)
		c.keys[e] = m
	}
	if have, ok := m[key]; ok {
		if have == id {
			return nil
		}
		return &DuplicateKeyError{Entity: e, Key: key, Have: have, Got: id}
	}
	m[key] = id
	c.Track(e, id)
	return nil
}

// Track records an issued surrogate id without a natural key, for entities
// nothing resolves by name but whose ids foreign keys must still point at.
func (c *Cache) Track(e Entity, id uint) {
	s := c.ids[e]
	if s == nil {
		s = make(map[uint]bool)
		c.ids[e] = s
	}
	s[id] = true
}

func (c *Cache) Resolve(e Entity, key string) (uint, error) {
	if id, ok := c.keys[e][c.norm(key)]; ok {
		return id, nil
	}
	return 0, &UnresolvedReferenceError{Entity: e, Key: key}
}

// TryResolve is the non-failing variant used for optional references.
func (c *Cache) TryResolve(e Entity, key string) (uint, bool) {
	id, ok := c.keys[e][c.norm(key)]
	return id, ok
}

// KnownID reports whether id was issued for entity e during this run.
func (c *Cache) KnownID(e Entity, id uint) bool {
	return c.ids[e][id]
}
