// Package wizard is the shared engine behind the multi-step forms: a linear
// walk over ordered steps where each step names the fields it requires
// before the user may move forward.
package wizard

import (
	"strings"

	"legallink_client/platform/apperr"
)

// Step is one screen of a wizard and the fields it requires filled.
type Step struct {
	Name     string
	Required []string
}

// Wizard walks an ordered list of steps over one flat value bag. Values
// survive Back and a Reset, so a failed submission never costs the user
// their input.
type Wizard struct {
	steps  []Step
	index  int
	values map[string]interface{}
}

// New creates a wizard positioned on the first step.
func New(steps ...Step) *Wizard {
	return &Wizard{
		steps:  steps,
		values: make(map[string]interface{}),
	}
}

// Step returns the current step. After the final Next the wizard is done
// and the last step is still reported.
func (w *Wizard) Step() Step {
	if w.Done() {
		return w.steps[len(w.steps)-1]
	}
	return w.steps[w.index]
}

// StepIndex returns the zero-based index of the current step.
func (w *Wizard) StepIndex() int {
	if w.Done() {
		return len(w.steps) - 1
	}
	return w.index
}

// Steps returns the total step count.
func (w *Wizard) Steps() int {
	return len(w.steps)
}

// Done reports whether the final step passed validation.
func (w *Wizard) Done() bool {
	return w.index >= len(w.steps)
}

// Set records a field value. Accepted value types are string and []string.
func (w *Wizard) Set(field string, value interface{}) {
	w.values[field] = value
}

// String returns a field's string value, empty when unset.
func (w *Wizard) String(field string) string {
	s, _ := w.values[field].(string)
	return s
}

// Strings returns a field's list value, nil when unset.
func (w *Wizard) Strings(field string) []string {
	list, _ := w.values[field].([]string)
	return list
}

// Next validates the current step and advances past it. When required
// fields are missing it stays put and reports them in the error details.
func (w *Wizard) Next() error {
	if w.Done() {
		return apperr.BadRequest("the form is already complete")
	}

	step := w.steps[w.index]
	var missing []string
	for _, field := range step.Required {
		if !w.filled(field) {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return apperr.Validation("required fields missing on " + step.Name).WithDetails(missing)
	}

	w.index++
	return nil
}

// Back moves to the previous step. It never validates: whatever state the
// user left behind is shown again as-is.
func (w *Wizard) Back() {
	if w.index > 0 {
		w.index--
	}
}

// Reset returns to the first step, keeping every entered value.
func (w *Wizard) Reset() {
	w.index = 0
}

// Assemble flattens all entered values into one submission payload.
// Unset and empty values are omitted.
func (w *Wizard) Assemble() map[string]interface{} {
	payload := make(map[string]interface{}, len(w.values))
	for field, value := range w.values {
		switch v := value.(type) {
		case string:
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				payload[field] = trimmed
			}
		case []string:
			if len(v) > 0 {
				payload[field] = v
			}
		default:
			if value != nil {
				payload[field] = value
			}
		}
	}
	return payload
}

// filled reports whether a required field holds a usable value: a string
// that survives trimming, or a non-empty slice.
func (w *Wizard) filled(field string) bool {
	switch v := w.values[field].(type) {
	case string:
		return strings.TrimSpace(v) != ""
	case []string:
		return len(v) > 0
	case nil:
		return false
	default:
		return true
	}
}
