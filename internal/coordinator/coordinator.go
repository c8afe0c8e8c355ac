// Package coordinator orchestrates course listing, registration state, and
// modal-driven course mutations for the signed-in user.
package coordinator

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/campushq/coursereg/internal/courseapi"
	"github.com/campushq/coursereg/internal/courselist"
	"github.com/campushq/coursereg/internal/kvstore"
	"github.com/campushq/coursereg/internal/modal"
	"github.com/campushq/coursereg/internal/models"
	"github.com/campushq/coursereg/internal/registration"
)

// User-visible notices for registration outcomes
const (
	noticeJoinSuccess   = "course registration completed"
	noticeCancelSuccess = "course registration cancelled"
)

// Coordinator maintains a consistent generation-filtered view of courses and
// the current user's registration state, and performs course and registration
// operations against the remote service
type Coordinator interface {
	// Initialize loads the persisted session state, loads the course list
	// for the selected generation, and fetches the active registration when
	// both a course id and a user id are stored
	Initialize(ctx context.Context) error

	// LoadCourses refreshes the generation-filtered course list
	LoadCourses(ctx context.Context, generation string) []models.Course

	// Courses returns the current filtered course list
	Courses() []models.Course

	// LoadActiveCourse fetches the persisted active course, normalized to a
	// slice regardless of the service's response shape
	LoadActiveCourse(ctx context.Context) ([]models.Course, error)

	// FetchRegistration fetches and caches the registration linking the
	// given course and user
	FetchRegistration(ctx context.Context, courseID, userID int64)

	// CreateCourse opens the creation form and reloads the list when the
	// form reports that a course was persisted
	CreateCourse(ctx context.Context)

	// UpdateCourse opens the edit form pre-filled with the course and
	// persists the result
	UpdateCourse(ctx context.Context, course *models.Course)

	// DeleteCourse removes the course after interactive confirmation
	DeleteCourse(ctx context.Context, courseID int64)

	// JoinCourse submits a registration request for the course
	JoinCourse(ctx context.Context, courseID int64)

	// CancelRegistration withdraws the user's registration for the course
	// after interactive confirmation
	CancelRegistration(ctx context.Context, courseID int64)

	// ChangeGeneration persists a new cohort selection, resets session join
	// markers, and reloads the course list
	ChangeGeneration(ctx context.Context, generation string)

	// IsRegistered reports whether the user joined the course in this
	// session; it never queries the remote service
	IsRegistered(courseID int64) bool

	// Session returns a copy of the session state loaded at initialization
	Session() Session

	// Close marks the coordinator as no longer of interest; remote
	// completions arriving afterwards become no-op updates
	Close()
}

// defaultCoordinator is the default implementation of Coordinator
type defaultCoordinator struct {
	service   courseapi.CourseService
	store     kvstore.Store
	presenter modal.Presenter
	confirmer modal.Confirmer
	notifier  Notifier

	cache     *registration.Cache
	viewModel *courselist.ViewModel

	// joinGroup deduplicates in-flight join requests per course id
	joinGroup singleflight.Group

	mu      sync.RWMutex
	session Session

	fallbackGeneration string
	clock              func() time.Time
	closed             atomic.Bool
}

// Option is a function that configures the coordinator
type Option func(*defaultCoordinator)

// WithNotifier sets the notifier receiving user-visible notices
func WithNotifier(notifier Notifier) Option {
	return func(c *defaultCoordinator) {
		c.notifier = notifier
	}
}

// WithClock sets the time source used for registration reporting dates
func WithClock(clock func() time.Time) Option {
	return func(c *defaultCoordinator) {
		c.clock = clock
	}
}

// WithFallbackGeneration sets the cohort used when the store holds no
// selection
func WithFallbackGeneration(generation string) Option {
	return func(c *defaultCoordinator) {
		c.fallbackGeneration = generation
	}
}

// New creates a new coordinator with injected dependencies
func New(
	service courseapi.CourseService,
	store kvstore.Store,
	presenter modal.Presenter,
	confirmer modal.Confirmer,
	opts ...Option,
) Coordinator {
	c := &defaultCoordinator{
		service:            service,
		store:              store,
		presenter:          presenter,
		confirmer:          confirmer,
		notifier:           slogNotifier{},
		cache:              registration.NewCache(),
		viewModel:          courselist.NewViewModel(service),
		fallbackGeneration: DefaultGeneration,
		clock:              time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Initialize loads the persisted session state and the initial course list
func (c *defaultCoordinator) Initialize(ctx context.Context) error {
	session, err := LoadSession(ctx, c.store, c.fallbackGeneration)
	if err != nil {
		return fmt.Errorf("failed to load session state: %w", err)
	}

	c.mu.Lock()
	c.session = *session
	c.mu.Unlock()

	slog.Info("Initialized registration coordinator",
		"generation", session.Generation,
		"active_course", session.ActiveCourseID,
		"user", session.UserID)

	c.LoadCourses(ctx, session.Generation)

	// Fetch the active registration only when both ids are stored
	if session.ActiveCourseID != 0 && session.UserID != 0 {
		c.FetchRegistration(ctx, session.ActiveCourseID, session.UserID)
	}

	return nil
}

// LoadCourses refreshes the generation-filtered course list
func (c *defaultCoordinator) LoadCourses(ctx context.Context, generation string) []models.Course {
	return c.viewModel.Load(ctx, generation)
}

// Courses returns the current filtered course list
func (c *defaultCoordinator) Courses() []models.Course {
	return c.viewModel.Courses()
}

// LoadActiveCourse fetches the persisted active course
func (c *defaultCoordinator) LoadActiveCourse(ctx context.Context) ([]models.Course, error) {
	courseID := c.Session().ActiveCourseID
	if courseID == 0 {
		return nil, fmt.Errorf("no active course id is stored")
	}

	courses, err := c.service.GetCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load active course: %w", err)
	}
	return courses, nil
}

// FetchRegistration fetches and caches the registration linking the given
// course and user. A payload missing either embedded snapshot leaves the
// cache unchanged.
func (c *defaultCoordinator) FetchRegistration(ctx context.Context, courseID, userID int64) {
	reg, err := c.service.GetRegistration(ctx, courseID, userID)
	if err != nil {
		slog.Error("Failed to fetch registration",
			"course", courseID,
			"user", userID,
			"error", err)
		c.notifier.Failure("failed to load registration details")
		return
	}

	if c.closed.Load() {
		return
	}

	if err := c.cache.RecordUserRegistration(courseID, reg); err != nil {
		slog.Error("Rejected malformed registration payload",
			"course", courseID,
			"user", userID,
			"error", err)
		c.notifier.Failure("failed to load registration details")
		return
	}

	slog.Debug("Cached registration snapshot",
		"course", courseID,
		"registration", reg.ID,
		"status", reg.Status)
}

// CreateCourse opens the creation form. Persistence happens inside the form;
// a set Created flag means the new course's generation must be evaluated
// against the current filter, so the list is fully reloaded.
func (c *defaultCoordinator) CreateCourse(ctx context.Context) {
	result, err := c.presenter.Present(ctx, modal.FormRequest{
		Generation: c.Session().Generation,
	})
	if err != nil {
		slog.Error("Course creation form failed", "error", err)
		c.notifier.Failure("failed to create course")
		return
	}
	if result == nil || !result.Created || c.closed.Load() {
		return
	}

	c.LoadCourses(ctx, c.Session().Generation)
}

// UpdateCourse opens the edit form pre-filled with the course and persists
// the result via the remote service
func (c *defaultCoordinator) UpdateCourse(ctx context.Context, course *models.Course) {
	result, err := c.presenter.Present(ctx, modal.FormRequest{Course: course})
	if err != nil {
		slog.Error("Course edit form failed", "course", course.ID, "error", err)
		c.notifier.Failure("failed to update course")
		return
	}
	if result == nil || !result.Updated {
		return
	}

	updated, err := c.service.UpdateCourse(ctx, course.ID, result.Course)
	if err != nil {
		slog.Error("Failed to update course", "course", course.ID, "error", err)
		c.notifier.Failure("failed to update course")
		return
	}
	if c.closed.Load() {
		return
	}

	if updated == nil {
		updated = result.Course
	}
	if c.viewModel.ApplyMutation(courselist.MutationUpdate, updated) {
		c.LoadCourses(ctx, c.Session().Generation)
	}
}

// DeleteCourse removes the course after interactive confirmation. A declined
// confirmation aborts silently with no remote call.
func (c *defaultCoordinator) DeleteCourse(ctx context.Context, courseID int64) {
	if !c.confirmer.Confirm(ctx, "Delete this course?") {
		return
	}

	if err := c.service.DeleteCourse(ctx, courseID); err != nil {
		slog.Error("Failed to delete course", "course", courseID, "error", err)
		c.notifier.Failure("failed to delete course")
		return
	}
	if c.closed.Load() {
		return
	}

	if c.viewModel.ApplyMutation(courselist.MutationDelete, &models.Course{ID: courseID}) {
		c.LoadCourses(ctx, c.Session().Generation)
	}
	c.notifier.Success("course deleted")
}

// JoinCourse submits a registration request for the course. A missing
// credential short-circuits with no remote call; duplicate calls for a
// course already joined in this session, or with a request still in flight,
// issue no additional remote request.
func (c *defaultCoordinator) JoinCourse(ctx context.Context, courseID int64) {
	session := c.Session()

	if session.Token == "" {
		slog.Warn("Join attempted without credential", "course", courseID)
		c.notifier.Failure(courseapi.ErrAuthRequired.Error())
		return
	}

	if c.cache.IsJoined(courseID) {
		slog.Debug("Course already joined in this session", "course", courseID)
		return
	}

	// Deduplicate concurrent joins for the same course; the shared call
	// also guarantees the outcome notice fires exactly once.
	_, _, _ = c.joinGroup.Do(strconv.FormatInt(courseID, 10), func() (any, error) {
		c.performJoin(ctx, courseID, session)
		return nil, nil
	})
}

// performJoin issues the remote join request and interprets the outcome
func (c *defaultCoordinator) performJoin(ctx context.Context, courseID int64, session Session) {
	user := session.Identity
	request := &models.Registration{
		Status:        models.RegistrationPending,
		ReportingDate: c.clock(),
		User:          &user,
	}

	result, err := c.service.JoinCourse(ctx, courseID, request)
	if err != nil {
		slog.Error("Join request failed", "course", courseID, "error", err)
		c.notifier.Failure(courseapi.ErrServer.Error())
		return
	}

	if c.closed.Load() {
		return
	}

	if result.OK() {
		c.cache.MarkJoined(courseID)
		slog.Info("Joined course", "course", courseID)
		c.notifier.Success(noticeJoinSuccess)
		return
	}

	// The service's own message takes precedence over the generic
	// category, but only when the service produced one.
	message := result.Message
	if message == "" {
		message = courseapi.CategorizeStatus(result.Status).Error()
	}
	slog.Warn("Join rejected",
		"course", courseID,
		"status", result.Status,
		"message", message)
	c.notifier.Failure(message)
}

// CancelRegistration withdraws the user's registration for the course after
// interactive confirmation
func (c *defaultCoordinator) CancelRegistration(ctx context.Context, courseID int64) {
	if !c.confirmer.Confirm(ctx, "Cancel your registration for this course?") {
		return
	}

	reg := c.cache.RegistrationFor(courseID)
	if reg == nil || reg.ID == 0 {
		slog.Warn("No cached registration to cancel", "course", courseID)
		c.notifier.Failure("no registration found for this course")
		return
	}

	if err := c.service.CancelRegistration(ctx, courseID, reg.ID); err != nil {
		slog.Error("Failed to cancel registration",
			"course", courseID,
			"registration", reg.ID,
			"error", err)
		c.notifier.Failure(courseapi.ErrServer.Error())
		return
	}
	if c.closed.Load() {
		return
	}

	c.cache.Unmark(courseID)
	c.notifier.Success(noticeCancelSuccess)
	c.LoadCourses(ctx, c.Session().Generation)
}

// ChangeGeneration persists a new cohort selection, resets session join
// markers, and reloads the course list
func (c *defaultCoordinator) ChangeGeneration(ctx context.Context, generation string) {
	if err := c.store.Set(ctx, kvstore.KeySelectedGeneration, generation); err != nil {
		slog.Error("Failed to persist generation selection",
			"generation", generation,
			"error", err)
		c.notifier.Failure("failed to save generation selection")
		return
	}

	c.mu.Lock()
	c.session.Generation = generation
	c.mu.Unlock()

	c.cache.Clear()
	c.LoadCourses(ctx, generation)
}

// IsRegistered reports whether the user joined the course in this session
func (c *defaultCoordinator) IsRegistered(courseID int64) bool {
	return c.cache.IsJoined(courseID)
}

// Session returns a copy of the session state
func (c *defaultCoordinator) Session() Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// Close marks the coordinator as no longer of interest
func (c *defaultCoordinator) Close() {
	c.closed.Store(true)
}
