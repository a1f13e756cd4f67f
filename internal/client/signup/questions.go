// Package signup implements the sign-up wizard: a bounded two-step form
// flow and the security-question selector with its uniqueness invariant.
package signup

import (
	"errors"
	"fmt"
)

// SetSize is the number of security questions every account configures.
const SetSize = 3

// Catalog is the fixed set of candidate questions offered to the user.
var Catalog = []string{
	"What was the name of your first pet?",
	"In what city were you born?",
	"What is your mother's maiden name?",
	"What high school did you attend?",
	"What was the make of your first car?",
	"What is your favorite movie?",
	"What is the name of your favorite childhood teacher?",
	"What is your favorite book?",
	"What is the name of the street you grew up on?",
	"What is your favorite food?",
}

var (
	ErrQuestionNotSelected = errors.New("no question selected")
	ErrUnknownQuestion     = errors.New("question is not in the catalog")
	ErrDuplicateQuestion   = errors.New("question already used in another slot")
	ErrEmptyAnswer         = errors.New("answer is required")
)

// Entry is one selected question with its answer.
type Entry struct {
	Question string
	Answer   string
}

// QuestionSet is the in-progress selection: a fixed-size ordered list, not
// a map, so duplicate selections are visible instead of silently collapsed.
type QuestionSet [SetSize]Entry

// AvailableOptions returns the catalog minus the questions selected at the
// other indexes. The question occupying index itself stays listed, so a
// made selection never disappears from its own dropdown.
func (s *QuestionSet) AvailableOptions(index int) []string {
	taken := make(map[string]struct{}, SetSize)
	for i, e := range s {
		if i != index && e.Question != "" {
			taken[e.Question] = struct{}{}
		}
	}

	options := make([]string, 0, len(Catalog))
	for _, q := range Catalog {
		if _, ok := taken[q]; !ok {
			options = append(options, q)
		}
	}
	return options
}

// ValidateSlot checks a single slot: a catalog question must be selected,
// it must not repeat another slot's selection, and the answer must be
// non-empty. Only the given slot is examined, so changing one selection
// does not cascade validation over the whole set.
func (s *QuestionSet) ValidateSlot(index int) error {
	e := s[index]

	if e.Question == "" {
		return fmt.Errorf("slot %d: %w", index, ErrQuestionNotSelected)
	}
	if !inCatalog(e.Question) {
		return fmt.Errorf("slot %d: %w", index, ErrUnknownQuestion)
	}
	for i, other := range s {
		if i != index && other.Question == e.Question {
			return fmt.Errorf("slot %d: %w", index, ErrDuplicateQuestion)
		}
	}
	if e.Answer == "" {
		return fmt.Errorf("slot %d: %w", index, ErrEmptyAnswer)
	}
	return nil
}

// Validate checks the whole set. This is the guard before submission; a
// set that fails here never reaches the backend.
func (s *QuestionSet) Validate() error {
	for i := range s {
		if err := s.ValidateSlot(i); err != nil {
			return err
		}
	}
	return nil
}

// Map converts a validated set to the wire shape. Call Validate first:
// mapping an invalid set would collapse duplicate questions.
func (s *QuestionSet) Map() map[string]string {
	m := make(map[string]string, SetSize)
	for _, e := range s {
		m[e.Question] = e.Answer
	}
	return m
}

func inCatalog(q string) bool {
	for _, c := range Catalog {
		if c == q {
			return true
		}
	}
	return false
}
