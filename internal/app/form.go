package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/fitcoach/internal/keys"
	"github.com/zjrosen/fitcoach/internal/profile"
	"github.com/zjrosen/fitcoach/internal/ui/styles"
)

var fieldLabels = map[string]string{
	profile.FieldWeight:            "Weight (kg)",
	profile.FieldHeight:            "Height (cm)",
	profile.FieldGender:            "Gender",
	profile.FieldAge:               "Age",
	profile.FieldHypertension:      "Hypertension",
	profile.FieldDiabetes:          "Diabetes",
	profile.FieldFitnessGoal:       "Fitness goal",
	profile.FieldWorkoutPreference: "Workout type",
	profile.FieldWorkoutLocation:   "Location",
	profile.FieldDuration:          "Session length",
	profile.FieldExperienceLevel:   "Experience",
}

var fieldPlaceholders = map[string]string{
	profile.FieldWeight:      "30-300",
	profile.FieldHeight:      "100-250",
	profile.FieldAge:         "12-100",
	profile.FieldFitnessGoal: "e.g. lose weight, build muscle",
	profile.FieldDuration:    "e.g. 45 minutes",
}

// formField is a text input or, when options is set, a choice list.
type formField struct {
	key     string
	input   textinput.Model
	options []string
	choice  int
}

func (f formField) value() string {
	if f.options != nil {
		return f.options[f.choice]
	}
	return f.input.Value()
}

// formModel is the profile entry screen.
type formModel struct {
	fields []formField
	focus  int
	errs   profile.FieldErrors
}

func newForm() formModel {
	fields := make([]formField, 0, len(profile.Fields))
	for _, k := range profile.Fields {
		f := formField{key: k, options: profile.Options(k)}
		if f.options == nil {
			ti := textinput.New()
			ti.Placeholder = fieldPlaceholders[k]
			ti.CharLimit = 80
			ti.Width = 32
			ti.Prompt = ""
			f.input = ti
		}
		fields = append(fields, f)
	}
	fm := formModel{fields: fields}
	fm.setFocus(0)
	return fm
}

// values returns raw form values keyed by profile field.
func (f formModel) values() map[string]string {
	out := make(map[string]string, len(f.fields))
	for _, field := range f.fields {
		out[field.key] = field.value()
	}
	return out
}

func (f *formModel) setFocus(i int) {
	n := len(f.fields)
	i = ((i % n) + n) % n
	for j := range f.fields {
		if f.fields[j].options == nil {
			f.fields[j].input.Blur()
		}
	}
	f.focus = i
	if f.fields[i].options == nil {
		f.fields[i].input.Focus()
	}
}

// setValue fills a field by key; choice fields accept one of their options.
func (f *formModel) setValue(key, value string) {
	for i := range f.fields {
		field := &f.fields[i]
		if field.key != key {
			continue
		}
		if field.options == nil {
			field.input.SetValue(value)
			return
		}
		for j, o := range field.options {
			if strings.EqualFold(o, value) {
				field.choice = j
			}
		}
		return
	}
}

// update handles navigation and editing. submit reports an enter press.
func (f formModel) update(msg tea.KeyMsg) (formModel, tea.Cmd, bool) {
	field := &f.fields[f.focus]
	switch {
	case key.Matches(msg, keys.Form.Submit):
		return f, nil, true
	case key.Matches(msg, keys.Form.Next):
		f.setFocus(f.focus + 1)
		return f, nil, false
	case key.Matches(msg, keys.Form.Prev):
		f.setFocus(f.focus - 1)
		return f, nil, false
	case field.options != nil && key.Matches(msg, keys.Form.Cycle):
		field.choice = (field.choice + 1) % len(field.options)
		return f, nil, false
	case field.options != nil && key.Matches(msg, keys.Form.CyclePrev):
		field.choice = (field.choice + len(field.options) - 1) % len(field.options)
		return f, nil, false
	}

	if field.options != nil {
		return f, nil, false
	}
	var cmd tea.Cmd
	field.input, cmd = field.input.Update(msg)
	return f, cmd, false
}

// updateInput forwards non-key messages to the focused text input.
func (f formModel) updateInput(msg tea.Msg) (formModel, tea.Cmd) {
	field := &f.fields[f.focus]
	if field.options != nil {
		return f, nil
	}
	var cmd tea.Cmd
	field.input, cmd = field.input.Update(msg)
	return f, cmd
}

func (f formModel) view(width int, submitting bool, spin string) string {
	var b strings.Builder
	b.WriteString(styles.HeaderStyle.Render("fitcoach · tell us about yourself"))
	b.WriteString("\n\n")

	for i, field := range f.fields {
		focused := i == f.focus
		labelStyle := styles.FormLabelStyle
		if focused {
			labelStyle = styles.FormFocusedLabelStyle
		}

		indicator := "  "
		if focused {
			indicator = styles.SelectionIndicatorStyle.Render("> ")
		}

		var value string
		if field.options != nil {
			value = renderOptions(field.options, field.choice, focused)
		} else {
			value = field.input.View()
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, indicator, labelStyle.Render(fieldLabels[field.key]), value))
		b.WriteString("\n")

		if msg, ok := f.errs[field.key]; ok {
			b.WriteString(styles.FormErrorStyle.Render("  " + msg))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if submitting {
		b.WriteString(styles.DisabledButtonStyle.Render(spin + " Generating plan…"))
	} else {
		b.WriteString(styles.PrimaryButtonFocusedStyle.Render("Generate plan"))
	}
	return lipgloss.NewStyle().MaxWidth(width).Padding(1, 2).Render(b.String())
}

func renderOptions(options []string, choice int, focused bool) string {
	parts := make([]string, len(options))
	for i, o := range options {
		switch {
		case i == choice && focused:
			parts[i] = styles.ActiveRowStyle.Render("[" + o + "]")
		case i == choice:
			parts[i] = styles.RowStyle.Render("[" + o + "]")
		default:
			parts[i] = styles.MutedStyle.Render(" " + o + " ")
		}
	}
	return strings.Join(parts, " ")
}
