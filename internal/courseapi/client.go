package courseapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/campushq/coursereg/internal/httpclient"
	"github.com/campushq/coursereg/internal/models"
)

// httpCourseService implements CourseService against the HTTP API
type httpCourseService struct {
	client  httpclient.Client
	baseURL string
}

var _ CourseService = (*httpCourseService)(nil)

// NewHTTPCourseService creates a CourseService backed by the HTTP API at
// the given base URL
func NewHTTPCourseService(client httpclient.Client, baseURL string) CourseService {
	return &httpCourseService{
		client:  client,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// GetAllCourses returns the full course collection
func (s *httpCourseService) GetAllCourses(ctx context.Context) ([]models.Course, error) {
	body, err := s.client.Get(ctx, s.baseURL+"/courses")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch courses: %w", err)
	}

	env, err := decodeEnvelope(body)
	if err != nil {
		return nil, err
	}

	var courses []models.Course
	if err := json.Unmarshal(env.Data, &courses); err != nil {
		return nil, fmt.Errorf("failed to decode course list: %w", err)
	}
	return courses, nil
}

// GetCourse returns the course with the given id, normalized to a slice
func (s *httpCourseService) GetCourse(ctx context.Context, courseID int64) ([]models.Course, error) {
	body, err := s.client.Get(ctx, fmt.Sprintf("%s/courses/%d", s.baseURL, courseID))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch course %d: %w", courseID, err)
	}

	env, err := decodeEnvelope(body)
	if err != nil {
		return nil, err
	}

	if !env.HasData() {
		return nil, fmt.Errorf("course response for %d carries no data", courseID)
	}

	// The service returns a single object for this endpoint on some
	// deployments and a one-element collection on others. Normalize to a
	// slice before the data leaves the adapter.
	var courses []models.Course
	if err := json.Unmarshal(env.Data, &courses); err == nil {
		return courses, nil
	}

	var course models.Course
	if err := json.Unmarshal(env.Data, &course); err != nil {
		return nil, fmt.Errorf("failed to decode course %d: %w", courseID, err)
	}
	return []models.Course{course}, nil
}

// CreateCourse creates a new course listing
func (s *httpCourseService) CreateCourse(ctx context.Context, course *models.Course) (*models.Course, error) {
	payload, err := json.Marshal(course)
	if err != nil {
		return nil, fmt.Errorf("failed to encode course: %w", err)
	}

	body, err := s.client.Do(ctx, http.MethodPost, s.baseURL+"/courses", payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	return decodeCourse(body)
}

// UpdateCourse updates an existing course listing
func (s *httpCourseService) UpdateCourse(ctx context.Context, courseID int64, course *models.Course) (*models.Course, error) {
	payload, err := json.Marshal(course)
	if err != nil {
		return nil, fmt.Errorf("failed to encode course: %w", err)
	}

	body, err := s.client.Do(ctx, http.MethodPut, fmt.Sprintf("%s/courses/%d", s.baseURL, courseID), payload)
	if err != nil {
		return nil, fmt.Errorf("failed to update course %d: %w", courseID, err)
	}

	return decodeCourse(body)
}

// DeleteCourse removes a course listing
func (s *httpCourseService) DeleteCourse(ctx context.Context, courseID int64) error {
	_, err := s.client.Do(ctx, http.MethodDelete, fmt.Sprintf("%s/courses/%d", s.baseURL, courseID), nil)
	if err != nil {
		return fmt.Errorf("failed to delete course %d: %w", courseID, err)
	}
	return nil
}

// GetRegistration returns the registration linking the given course and user
func (s *httpCourseService) GetRegistration(ctx context.Context, courseID, userID int64) (*models.Registration, error) {
	url := fmt.Sprintf("%s/courses/%d/registrations/%d", s.baseURL, courseID, userID)
	body, err := s.client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch registration for course %d user %d: %w", courseID, userID, err)
	}

	env, err := decodeEnvelope(body)
	if err != nil {
		return nil, err
	}
	if !env.HasData() {
		return nil, fmt.Errorf("registration response for course %d user %d carries no data", courseID, userID)
	}

	var reg models.Registration
	if err := json.Unmarshal(env.Data, &reg); err != nil {
		return nil, fmt.Errorf("failed to decode registration: %w", err)
	}
	return &reg, nil
}

// JoinCourse submits a registration request for the course
func (s *httpCourseService) JoinCourse(ctx context.Context, courseID int64, registration *models.Registration) (*JoinResult, error) {
	payload, err := json.Marshal(registration)
	if err != nil {
		return nil, fmt.Errorf("failed to encode registration: %w", err)
	}

	body, err := s.client.Do(ctx, http.MethodPost, fmt.Sprintf("%s/courses/%d/registrations", s.baseURL, courseID), payload)
	if err != nil {
		// HTTP status failures still carry a definitive service answer;
		// surface them as a JoinResult so the caller can map the status
		// to a user-facing category.
		var httpErr *httpclient.HTTPError
		if errors.As(err, &httpErr) {
			return &JoinResult{Status: httpErr.StatusCode}, nil
		}
		return nil, fmt.Errorf("failed to join course %d: %w", courseID, err)
	}

	var env models.Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to decode join response: %w", err)
	}
	return &JoinResult{Status: env.Status, Message: env.Message}, nil
}

// CancelRegistration withdraws an existing registration
func (s *httpCourseService) CancelRegistration(ctx context.Context, courseID, registrationID int64) error {
	url := fmt.Sprintf("%s/courses/%d/registrations/%d", s.baseURL, courseID, registrationID)
	if _, err := s.client.Do(ctx, http.MethodDelete, url, nil); err != nil {
		return fmt.Errorf("failed to cancel registration %d for course %d: %w", registrationID, courseID, err)
	}
	return nil
}

// decodeEnvelope unwraps the service response envelope
func decodeEnvelope(body []byte) (*models.Envelope, error) {
	var env models.Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to decode response envelope: %w", err)
	}
	return &env, nil
}

// decodeCourse unwraps a single-course response
func decodeCourse(body []byte) (*models.Course, error) {
	env, err := decodeEnvelope(body)
	if err != nil {
		return nil, err
	}
	if !env.HasData() {
		return nil, nil
	}
	var course models.Course
	if err := json.Unmarshal(env.Data, &course); err != nil {
		return nil, fmt.Errorf("failed to decode course: %w", err)
	}
	return &course, nil
}
