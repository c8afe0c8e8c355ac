// Package modal provides the create/edit form and confirmation surfaces the
// coordinator presents to the user.
package modal

import (
	"context"

	"github.com/campushq/coursereg/internal/models"
)

//go:generate mockgen -destination=mocks/mock_presenter.go -package=mocks -source=presenter.go Presenter,Confirmer

// FormRequest describes the form to present. A nil Course opens an empty
// create form; a non-nil Course pre-fills an edit form.
type FormRequest struct {
	// Course pre-fills the form for editing; nil for creation
	Course *models.Course

	// Generation pre-selects the cohort tag for new courses
	Generation string
}

// FormResult is the outcome of a dismissed form. Created and Updated signal
// that persistence occurred inside the form and a reload is required.
type FormResult struct {
	// Course is the course as entered by the user
	Course *models.Course

	// Created reports that a new course was persisted
	Created bool

	// Updated reports that an existing course was edited and should be persisted
	Updated bool
}

// Presenter displays a create/edit form and resolves with an optional result
// when dismissed. A nil result with a nil error means the user dismissed the
// form without saving.
type Presenter interface {
	Present(ctx context.Context, req FormRequest) (*FormResult, error)
}

// Confirmer asks the user a yes/no question
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}
