package models

import "time"

// RegistrationStatus is the lifecycle status of a course registration.
type RegistrationStatus string

const (
	// RegistrationPending indicates a registration awaiting instructor review
	RegistrationPending RegistrationStatus = "PENDING"

	// RegistrationAccepted indicates an approved registration
	RegistrationAccepted RegistrationStatus = "ACCEPTED"

	// RegistrationRejected indicates a declined registration
	RegistrationRejected RegistrationStatus = "REJECTED"

	// RegistrationCancelled indicates a registration withdrawn by the user
	RegistrationCancelled RegistrationStatus = "CANCELLED"
)

// Registration links one user to one course with a lifecycle status.
// The embedded User and Course are snapshots taken at registration time,
// not live references to the source records.
type Registration struct {
	// ID is the unique identifier assigned by the service.
	// Zero for registrations constructed client-side before submission.
	ID int64 `json:"course_registration_id"`

	// Status is the registration lifecycle status
	Status RegistrationStatus `json:"course_registration_status"`

	// ReportingDate is the timestamp the registration was submitted
	ReportingDate time.Time `json:"course_reporting_date"`

	// User is the applicant snapshot
	User *User `json:"user,omitempty"`

	// Course is the course snapshot
	Course *Course `json:"course,omitempty"`
}

// HasSnapshots reports whether both embedded snapshots are present.
// The service is expected to return both; a payload missing either one
// must never overwrite previously cached state.
func (r *Registration) HasSnapshots() bool {
	return r != nil && r.User != nil && r.Course != nil
}
