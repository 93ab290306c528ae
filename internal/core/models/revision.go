package models

import (
	"sort"
	"time"
)

// Revision is the log metadata of a single eligible revision
type Revision struct {
	Rev     int64     `json:"rev"`
	Author  string    `json:"author"`
	Date    time.Time `json:"date"`
	Paths   []string  `json:"paths"`
	Message string    `json:"message"`
}

// Cache is the persisted snapshot of eligible revisions for one session,
// plus the derived selections built on top of it.
type Cache struct {
	Source      string
	Destination string
	Revisions   map[int64]Revision

	// LastFilteredRevisions holds the ids matched by the most recent filter call
	LastFilteredRevisions []int64
	// PickedRevisions is the deduplicated pick list, in first-picked order
	PickedRevisions []int64

	PopulatedAt time.Time
}

// NewCache creates an empty cache bound to the session's branches
func NewCache(s *Session) *Cache {
	return &Cache{
		Source:      s.Source,
		Destination: s.Destination,
		Revisions:   make(map[int64]Revision),
	}
}

// Empty reports whether the cache holds no revisions
func (c *Cache) Empty() bool {
	return c == nil || len(c.Revisions) == 0
}

// SortedIDs returns the cached revision ids in ascending order
func (c *Cache) SortedIDs() []int64 {
	ids := make([]int64, 0, len(c.Revisions))
	for id := range c.Revisions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// IsPicked reports whether rev is on the pick list
func (c *Cache) IsPicked(rev int64) bool {
	for _, id := range c.PickedRevisions {
		if id == rev {
			return true
		}
	}
	return false
}
