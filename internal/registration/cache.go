// Package registration provides the in-memory registration state cache for
// the signed-in user.
package registration

import (
	"fmt"
	"sync"

	"github.com/campushq/coursereg/internal/models"
)

// Cache tracks the current user's registration state per course: the most
// recent registration snapshot fetched from the service, plus the set of
// course ids joined in the current session. Session join markers are
// deliberately independent of the authoritative remote status; they exist to
// disable duplicate join actions before remote confirmation lands.
type Cache struct {
	mu sync.RWMutex

	// records maps course id to the latest registration snapshot
	records map[int64]*models.Registration

	// joined is the set of course ids joined in this session
	joined map[int64]struct{}
}

// NewCache creates an empty registration cache
func NewCache() *Cache {
	return &Cache{
		records: make(map[int64]*models.Registration),
		joined:  make(map[int64]struct{}),
	}
}

// RecordUserRegistration stores the most recent registration snapshot for the
// course, overwriting any prior snapshot. A payload missing either embedded
// snapshot is rejected so it can never overwrite a valid prior one.
func (c *Cache) RecordUserRegistration(courseID int64, reg *models.Registration) error {
	if !reg.HasSnapshots() {
		return fmt.Errorf("registration for course %d is missing embedded user or course data", courseID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.records[courseID] = reg
	return nil
}

// RegistrationFor returns the cached registration snapshot for the course,
// or nil if none has been recorded
func (c *Cache) RegistrationFor(courseID int64) *models.Registration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.records[courseID]
}

// MarkJoined records that the user joined the course in this session
func (c *Cache) MarkJoined(courseID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.joined[courseID] = struct{}{}
}

// Unmark removes the session join marker for the course, if present
func (c *Cache) Unmark(courseID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.joined, courseID)
}

// IsJoined reports whether the user joined the course in this session
func (c *Cache) IsJoined(courseID int64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.joined[courseID]
	return ok
}

// Clear resets all session-local join markers and cached snapshots
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = make(map[int64]*models.Registration)
	c.joined = make(map[int64]struct{})
}
