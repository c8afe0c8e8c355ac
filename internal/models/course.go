// Package models defines the wire-level data types exchanged with the
// campus course-registration service.
package models

// Course represents a single course listing.
type Course struct {
	// ID is the unique identifier assigned by the service
	ID int64 `json:"course_id"`

	// Title is the course title
	Title string `json:"course_title"`

	// Description is the course description
	Description string `json:"description"`

	// InstructorName is the display name of the instructor
	InstructorName string `json:"instructor_name"`

	// Generation is the cohort tag used as the list-filter predicate
	Generation string `json:"generation"`

	// Notice is an optional announcement attached to the course
	Notice string `json:"course_notice,omitempty"`
}
