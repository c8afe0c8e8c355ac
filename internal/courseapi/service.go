// Package courseapi provides the client contract for the remote
// course-registration service.
package courseapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/campushq/coursereg/internal/models"
)

var (
	// ErrInvalidRequest is returned when the service rejects a request as malformed
	ErrInvalidRequest = errors.New("invalid request")
	// ErrAuthRequired is returned when the service requires authentication
	ErrAuthRequired = errors.New("authentication required")
	// ErrAlreadyRegistered is returned when the user already holds an active
	// registration for the course
	ErrAlreadyRegistered = errors.New("already registered for this course")
	// ErrServer is returned for any other non-success response
	ErrServer = errors.New("server error")
)

//go:generate mockgen -destination=mocks/mock_service.go -package=mocks -source=service.go CourseService

// CourseService defines the interface for course and registration operations
// against the remote service
type CourseService interface {
	// GetAllCourses returns the full course collection
	GetAllCourses(ctx context.Context) ([]models.Course, error)

	// GetCourse returns the course with the given id. The service may
	// respond with a single object or a collection; the result is always
	// normalized to a slice.
	GetCourse(ctx context.Context, courseID int64) ([]models.Course, error)

	// CreateCourse creates a new course listing
	CreateCourse(ctx context.Context, course *models.Course) (*models.Course, error)

	// UpdateCourse updates an existing course listing
	UpdateCourse(ctx context.Context, courseID int64, course *models.Course) (*models.Course, error)

	// DeleteCourse removes a course listing
	DeleteCourse(ctx context.Context, courseID int64) error

	// GetRegistration returns the registration linking the given course and
	// user, with embedded user and course snapshots
	GetRegistration(ctx context.Context, courseID, userID int64) (*models.Registration, error)

	// JoinCourse submits a registration request for the course. The returned
	// JoinResult carries the service-level status and message even when the
	// service reports a failure; a non-nil error indicates the request never
	// produced a service-level answer.
	JoinCourse(ctx context.Context, courseID int64, registration *models.Registration) (*JoinResult, error)

	// CancelRegistration withdraws an existing registration
	CancelRegistration(ctx context.Context, courseID, registrationID int64) error
}

// JoinResult is the service-level outcome of a join request
type JoinResult struct {
	// Status is the service-level status code
	Status int

	// Message is the service-provided message, if any
	Message string
}

// OK reports whether the join was accepted by the service
func (r *JoinResult) OK() bool {
	return r != nil && r.Status >= http.StatusOK && r.Status < http.StatusMultipleChoices
}

// CategorizeStatus maps a non-success HTTP status code to one of the fixed
// user-facing error categories
func CategorizeStatus(statusCode int) error {
	switch statusCode {
	case http.StatusBadRequest:
		return ErrInvalidRequest
	case http.StatusUnauthorized:
		return ErrAuthRequired
	case http.StatusConflict:
		return ErrAlreadyRegistered
	default:
		return ErrServer
	}
}
