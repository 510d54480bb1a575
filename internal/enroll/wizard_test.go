package enroll

import "testing"

func uintPtr(v uint) *uint { return &v }

func TestWizardForwardValidation(t *testing.T) {
	tests := []struct {
		name    string
		form    Form
		wantErr error
	}{
		{"complete form passes", Form{StudentName: "Neil Hamdouch", ProgramID: 3}, nil},
		{"missing name blocks step 1", Form{ProgramID: 3}, ErrStudentNameRequired},
		{"existing student skips name requirement", Form{StudentID: uintPtr(7), ProgramID: 3}, nil},
		{"missing program blocks step 2", Form{StudentName: "Ali"}, ErrProgramRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Validate(tt.form); err != tt.wantErr {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestWizardBlockedTransitionKeepsStep(t *testing.T) {
	w := New(Form{})
	if w.Step != StepStudent {
		t.Fatalf("initial step = %v, want %v", w.Step, StepStudent)
	}
	if err := w.Next(); err != ErrStudentNameRequired {
		t.Fatalf("Next() error = %v, want %v", err, ErrStudentNameRequired)
	}
	// A failed transition must not move the wizard.
	if w.Step != StepStudent {
		t.Errorf("step after blocked transition = %v, want %v", w.Step, StepStudent)
	}
}

func TestWizardQuickEnrollStartsAtProgram(t *testing.T) {
	w := New(Form{StudentID: uintPtr(12)})
	if w.Step != StepProgram {
		t.Errorf("quick-enroll initial step = %v, want %v", w.Step, StepProgram)
	}
}

func TestWizardBack(t *testing.T) {
	w := New(Form{StudentName: "Lina Tazi", ProgramID: 1})
	if err := w.Next(); err != nil {
		t.Fatal(err)
	}
	if err := w.Next(); err != nil {
		t.Fatal(err)
	}
	if w.Step != StepPayments {
		t.Fatalf("step = %v, want %v", w.Step, StepPayments)
	}

	// Backward transitions are unconditional.
	if err := w.Back(); err != nil {
		t.Fatalf("Back() error = %v", err)
	}
	if w.Step != StepProgram {
		t.Errorf("step = %v, want %v", w.Step, StepProgram)
	}

	if err := w.Back(); err != nil {
		t.Fatal(err)
	}
	if err := w.Back(); err != ErrCannotGoBack {
		t.Errorf("Back() at first step error = %v, want %v", err, ErrCannotGoBack)
	}
}
