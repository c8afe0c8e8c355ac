// Package courselist provides the generation-filtered course list view-model.
package courselist

import (
	"context"
	"log/slog"
	"sync"

	"github.com/campushq/coursereg/internal/courseapi"
	"github.com/campushq/coursereg/internal/models"
)

// MutationKind identifies a remotely confirmed course mutation to reconcile
// into the local list.
type MutationKind int

const (
	// MutationCreate indicates a course was created
	MutationCreate MutationKind = iota
	// MutationUpdate indicates a course was updated
	MutationUpdate
	// MutationDelete indicates a course was deleted
	MutationDelete
)

// ViewModel derives the generation-filtered course list from the remote
// service and reconciles confirmed mutations into it. All remote failures
// are soft: the previous list is retained and the error is recorded rather
// than propagated.
type ViewModel struct {
	mu      sync.RWMutex
	service courseapi.CourseService

	courses []models.Course
	lastErr error
}

// NewViewModel creates a view-model backed by the given service
func NewViewModel(service courseapi.CourseService) *ViewModel {
	return &ViewModel{
		service: service,
	}
}

// Load fetches the full course collection and filters it to courses whose
// generation equals the given cohort. On remote failure the previous list is
// retained and recorded via LastErr. The returned slice is the current list
// either way.
func (v *ViewModel) Load(ctx context.Context, generation string) []models.Course {
	all, err := v.service.GetAllCourses(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()

	if err != nil {
		slog.Error("Failed to load courses", "generation", generation, "error", err)
		v.lastErr = err
		return v.snapshotLocked()
	}
	v.lastErr = nil

	filtered := make([]models.Course, 0, len(all))
	seen := make(map[int64]struct{}, len(all))
	for _, course := range all {
		if course.Generation != generation {
			continue
		}
		// The exposed list never contains two entries with the same id
		if _, dup := seen[course.ID]; dup {
			continue
		}
		seen[course.ID] = struct{}{}
		filtered = append(filtered, course)
	}

	if len(filtered) == 0 {
		slog.Info("No courses found for the selected generation", "generation", generation)
	}

	v.courses = filtered
	return v.snapshotLocked()
}

// ApplyMutation reconciles a remotely confirmed mutation into the local list.
// Updates and deletes are applied in place; the returned flag reports whether
// a full reload is required instead, which is the case for creates since the
// new course's generation must be evaluated against the current filter.
func (v *ViewModel) ApplyMutation(kind MutationKind, course *models.Course) bool {
	if kind == MutationCreate {
		return true
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	switch kind {
	case MutationUpdate:
		for i := range v.courses {
			if v.courses[i].ID == course.ID {
				v.courses[i] = *course
				break
			}
		}
	case MutationDelete:
		kept := v.courses[:0]
		for _, c := range v.courses {
			if c.ID != course.ID {
				kept = append(kept, c)
			}
		}
		v.courses = kept
	}
	return false
}

// Courses returns a snapshot of the current filtered list
func (v *ViewModel) Courses() []models.Course {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.snapshotLocked()
}

// LastErr returns the error recorded by the most recent Load, or nil
func (v *ViewModel) LastErr() error {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.lastErr
}

// snapshotLocked copies the list. Caller must hold v.mu.
func (v *ViewModel) snapshotLocked() []models.Course {
	out := make([]models.Course, len(v.courses))
	copy(out, v.courses)
	return out
}
