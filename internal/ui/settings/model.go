// Package settings is the preferences form.
package settings

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/hvu/timeblock/internal/model"
)

// Values are the editable preferences, passed in pre-filled and
// returned on save.
type Values struct {
	DayStartHour int
	DayEndHour   int
	DaysInView   int
	DefaultColor string
	Use24Hour    bool
}

// SavedMsg carries the confirmed form values.
type SavedMsg struct {
	Values Values
}

// CancelMsg signals the form was dismissed without saving.
type CancelMsg struct{}

// Model is the settings form view. The bound values live behind a
// pointer so the huh field bindings survive model copies.
type Model struct {
	form   *huh.Form
	values *Values

	width, height int
}

// New creates the form pre-filled with the current values.
func New(values Values, width, height int) Model {
	m := Model{
		values: &values,
		width:  width,
		height: height,
	}
	m.form = m.buildForm()
	return m
}

// buildForm constructs the huh form bound to the model's value fields.
func (m *Model) buildForm() *huh.Form {
	hourOptions := func(lo, hi int) []huh.Option[int] {
		opts := make([]huh.Option[int], 0, hi-lo+1)
		for h := lo; h <= hi; h++ {
			opts = append(opts, huh.NewOption(fmt.Sprintf("%02d:00", h), h))
		}
		return opts
	}

	colorOptions := make([]huh.Option[string], 0, len(model.Palette))
	for _, hex := range model.Palette {
		colorOptions = append(colorOptions, huh.NewOption(hex, hex))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Day starts at").
				Options(hourOptions(0, 12)...).
				Value(&m.values.DayStartHour),
			huh.NewSelect[int]().
				Title("Day ends at").
				Options(hourOptions(12, 24)...).
				Value(&m.values.DayEndHour),
			huh.NewSelect[int]().
				Title("Days in view").
				Options(
					huh.NewOption("1", 1),
					huh.NewOption("2", 2),
					huh.NewOption("3", 3),
					huh.NewOption("4", 4),
					huh.NewOption("5", 5),
				).
				Value(&m.values.DaysInView),
			huh.NewSelect[string]().
				Title("Default block color").
				Options(colorOptions...).
				Value(&m.values.DefaultColor),
			huh.NewConfirm().
				Title("24-hour clock").
				Value(&m.values.Use24Hour),
		),
	).WithWidth(60)
}

// Init starts the form.
func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update drives the form and emits SavedMsg or CancelMsg when it
// finishes.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		values := *m.values
		return m, func() tea.Msg { return SavedMsg{Values: values} }
	case huh.StateAborted:
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the form.
func (m Model) View() string {
	return m.form.View()
}
