// edufy-erp/internal/enroll/wizard.go

// Package enroll models the enrollment wizard as an explicit step machine.
// The client walks Student -> Program -> Payments and submits once; the
// server replays the same transitions over the submitted form so that step
// validation cannot be bypassed by a hand-crafted request.
package enroll

import "errors"

// Step is the wizard's current position.
type Step int

const (
	StepStudent Step = iota + 1
	StepProgram
	StepPayments
	StepSubmitted
)

var stepNames = map[Step]string{
	StepStudent:   "student",
	StepProgram:   "program",
	StepPayments:  "payments",
	StepSubmitted: "submitted",
}

func (s Step) String() string { return stepNames[s] }

// Validation failures surfaced to the client; wording matches the dialogs
// the desk staff already know.
var (
	ErrStudentNameRequired = errors.New("student name is required")
	ErrProgramRequired     = errors.New("a program must be selected")
	ErrAlreadySubmitted    = errors.New("enrollment was already submitted")
	ErrCannotGoBack        = errors.New("already at the first step")
)

// Form is the wizard's accumulated state across all steps.
type Form struct {
	// Step 1: student identity. An existing student id short-circuits
	// the name requirement (quick-enroll).
	StudentID   *uint
	StudentName string

	// Step 2: program selection.
	ProgramID uint
	PackName  string
	GroupID   *uint

	// Step 3: payment entries; may legitimately be empty.
	PaymentCount int
}

// Wizard tracks the current step over a form.
type Wizard struct {
	Step Step
	Form Form
}

// New starts a wizard at the student step, or directly at the program step
// when an existing student id is supplied (quick-enroll path).
func New(form Form) *Wizard {
	w := &Wizard{Step: StepStudent, Form: form}
	if form.StudentID != nil && *form.StudentID != 0 {
		w.Step = StepProgram
	}
	return w
}

// Next advances one step after validating the current one. On a validation
// error the step does not change.
func (w *Wizard) Next() error {
	switch w.Step {
	case StepStudent:
		if (w.Form.StudentID == nil || *w.Form.StudentID == 0) && w.Form.StudentName == "" {
			return ErrStudentNameRequired
		}
	case StepProgram:
		if w.Form.ProgramID == 0 {
			return ErrProgramRequired
		}
	case StepSubmitted:
		return ErrAlreadySubmitted
	}
	w.Step++
	return nil
}

// Back moves one step backwards unconditionally.
func (w *Wizard) Back() error {
	if w.Step <= StepStudent {
		return ErrCannotGoBack
	}
	if w.Step == StepSubmitted {
		return ErrAlreadySubmitted
	}
	w.Step--
	return nil
}

// Validate replays the full forward path over a submitted form and returns
// the first validation error, if any. Used by the submission handler before
// any write happens.
func Validate(form Form) error {
	w := New(form)
	for w.Step != StepSubmitted {
		if err := w.Next(); err != nil {
			return err
		}
	}
	return nil
}
