package modal

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/campushq/coursereg/internal/courseapi"
	"github.com/campushq/coursereg/internal/models"
)

const (
	fieldTitle = iota
	fieldDescription
	fieldInstructor
	fieldGeneration
	fieldNotice
	fieldCount
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

var fieldLabels = [fieldCount]string{
	"Title",
	"Description",
	"Instructor",
	"Generation",
	"Notice",
}

// formModel is the bubbletea model for the course create/edit form
type formModel struct {
	inputs    [fieldCount]textinput.Model
	focus     int
	editing   bool
	saved     bool
	cancelled bool
}

func newFormModel(req FormRequest) formModel {
	m := formModel{
		editing: req.Course != nil,
	}

	for i := range m.inputs {
		ti := textinput.New()
		ti.CharLimit = 200
		ti.Width = 48
		ti.Prompt = "> "
		m.inputs[i] = ti
	}
	m.inputs[fieldTitle].Focus()

	if req.Course != nil {
		m.inputs[fieldTitle].SetValue(req.Course.Title)
		m.inputs[fieldDescription].SetValue(req.Course.Description)
		m.inputs[fieldInstructor].SetValue(req.Course.InstructorName)
		m.inputs[fieldGeneration].SetValue(req.Course.Generation)
		m.inputs[fieldNotice].SetValue(req.Course.Notice)
	} else if req.Generation != "" {
		m.inputs[fieldGeneration].SetValue(req.Generation)
	}

	return m
}

func (formModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m formModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc", "ctrl+c":
			m.cancelled = true
			return m, tea.Quit
		case "ctrl+s":
			m.saved = true
			return m, tea.Quit
		case "tab", "down":
			m.setFocus((m.focus + 1) % fieldCount)
			return m, nil
		case "shift+tab", "up":
			m.setFocus((m.focus + fieldCount - 1) % fieldCount)
			return m, nil
		case "enter":
			if m.focus == fieldCount-1 {
				m.saved = true
				return m, tea.Quit
			}
			m.setFocus(m.focus + 1)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *formModel) setFocus(i int) {
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
}

func (m formModel) View() string {
	header := "New course"
	if m.editing {
		header = "Edit course"
	}

	s := titleStyle.Render(header) + "\n\n"
	for i, input := range m.inputs {
		label := labelStyle.Render(fieldLabels[i])
		if i == m.focus {
			label = focusedStyle.Render(fieldLabels[i])
		}
		s += fmt.Sprintf("%s\n%s\n", label, input.View())
	}
	s += "\n" + helpStyle.Render("enter/tab: next field • ctrl+s: save • esc: cancel") + "\n"
	return s
}

// course builds the course from the entered field values
func (m formModel) course() *models.Course {
	return &models.Course{
		Title:          m.inputs[fieldTitle].Value(),
		Description:    m.inputs[fieldDescription].Value(),
		InstructorName: m.inputs[fieldInstructor].Value(),
		Generation:     m.inputs[fieldGeneration].Value(),
		Notice:         m.inputs[fieldNotice].Value(),
	}
}

// TerminalPresenter presents the course form as an interactive terminal UI.
// Creation is persisted inside the form, mirroring the create modal owning
// the create call; edits are handed back to the caller via the Updated flag.
type TerminalPresenter struct {
	service courseapi.CourseService
}

var _ Presenter = (*TerminalPresenter)(nil)

// NewTerminalPresenter creates a terminal form presenter. The service is
// used to persist newly created courses before the form resolves.
func NewTerminalPresenter(service courseapi.CourseService) *TerminalPresenter {
	return &TerminalPresenter{
		service: service,
	}
}

// Present runs the form and returns the entered course, or nil if the user
// dismissed the form without saving
func (p *TerminalPresenter) Present(ctx context.Context, req FormRequest) (*FormResult, error) {
	program := tea.NewProgram(newFormModel(req), tea.WithContext(ctx))
	final, err := program.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to run course form: %w", err)
	}

	m, ok := final.(formModel)
	if !ok || !m.saved || m.cancelled {
		return nil, nil
	}

	course := m.course()
	if req.Course != nil {
		course.ID = req.Course.ID
		return &FormResult{Course: course, Updated: true}, nil
	}

	created, err := p.service.CreateCourse(ctx, course)
	if err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}
	if created != nil {
		course = created
	}
	return &FormResult{Course: course, Created: true}, nil
}
