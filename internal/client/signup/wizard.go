package signup

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Step indexes the wizard's pages.
type Step int

const (
	StepAccount   Step = iota // username + password
	StepQuestions             // security questions
	stepCount
)

// Backend is what the wizard invokes on submit: the raw credential
// operations, nothing more. Authentication and navigation are not the
// wizard's business; the gate controller chains those only after a submit
// has fully succeeded.
type Backend interface {
	Register(ctx context.Context, username, password string) error
	SetSecurityQuestions(ctx context.Context, username string, questions map[string]string) error
}

// accountStep carries the step-0 field constraints. Minimum lengths match
// the account rules enforced server-side.
type accountStep struct {
	Username string `validate:"required,min=3"`
	Password string `validate:"required,min=8"`
}

// Wizard is the sign-up flow state machine. Entered data survives failed
// submissions so the user can correct and resubmit without retyping.
type Wizard struct {
	backend  Backend
	validate *validator.Validate

	current    Step
	registered bool
	submitted  bool

	Username  string
	Password  string
	Questions QuestionSet
}

func NewWizard(backend Backend) *Wizard {
	return &Wizard{
		backend:  backend,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Current returns the active step.
func (w *Wizard) Current() Step { return w.current }

// Submitted reports whether a submission has fully succeeded.
func (w *Wizard) Submitted() bool { return w.submitted }

// Next advances to the following step, but only when the current step's
// fields pass validation. On the last step Next is a no-op; use Submit.
func (w *Wizard) Next() error {
	if w.current >= stepCount-1 {
		return nil
	}
	if err := w.validateStep(w.current); err != nil {
		return err
	}
	w.current++
	return nil
}

// Back returns to the previous step. Always permitted except from step 0.
func (w *Wizard) Back() {
	if w.current > 0 {
		w.current--
	}
}

// Submit finalizes the flow: it validates everything, then registers the
// account and stores the security questions, in that order. A failure at
// either call leaves the step and the entered data untouched, so a partial
// re-submission is possible. Registration that already went through is not
// repeated on a later attempt; only the questions call is retried.
func (w *Wizard) Submit(ctx context.Context) error {
	if w.current != stepCount-1 {
		return fmt.Errorf("submit is only valid on the final step")
	}
	for s := Step(0); s < stepCount; s++ {
		if err := w.validateStep(s); err != nil {
			return err
		}
	}

	if !w.registered {
		if err := w.backend.Register(ctx, w.Username, w.Password); err != nil {
			return err
		}
		w.registered = true
	}
	if err := w.backend.SetSecurityQuestions(ctx, w.Username, w.Questions.Map()); err != nil {
		return err
	}

	w.submitted = true
	return nil
}

func (w *Wizard) validateStep(s Step) error {
	switch s {
	case StepAccount:
		return w.validate.Struct(accountStep{Username: w.Username, Password: w.Password})
	case StepQuestions:
		return w.Questions.Validate()
	default:
		return fmt.Errorf("unknown step %d", s)
	}
}
