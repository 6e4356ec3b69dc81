// Package scope tracks which part of the patient case a conversation is focused on.
package scope

import (
	"log/slog"
	"slices"
	"strconv"

	"github.com/myrjola/spbot/internal/errors"
)

// Level is a named focus of the conversation.
type Level string

const (
	None                   Level = ""
	ChiefComplaint         Level = "chief_complaint"
	ChiefComplaintPrevious Level = "chief_complaint_previous"
	ReviewOfSystems        Level = "review_of_systems"
	MedicalHistory         Level = "medical_history"
	SurgicalHistory        Level = "surgical_history"
	Medications            Level = "medications"
	Allergies              Level = "allergies"
	FamilyHistory          Level = "family_history"
	SocialHistory          Level = "social_history"
	Substances             Level = "substances"
	TravelHistory          Level = "travel_history"
	SexualHistory          Level = "sexual_history"
	BirthHistory           Level = "birth_history"
	DevelopmentalHistory   Level = "developmental_history"
)

var levels = []Level{
	ChiefComplaint,
	ChiefComplaintPrevious,
	ReviewOfSystems,
	MedicalHistory,
	SurgicalHistory,
	Medications,
	Allergies,
	FamilyHistory,
	SocialHistory,
	Substances,
	TravelHistory,
	SexualHistory,
	BirthHistory,
	DevelopmentalHistory,
}

var ErrUnknownLevel = errors.NewSentinel("unknown scope level")

// Scope is a level and the path of element names below it, e.g. the chain of associated symptoms under the chief
// complaint or the index of the birth being discussed.
type Scope struct {
	Level    Level
	Elements []string
}

// Path is the persisted form of the scope. The empty scope has a nil path.
func (s Scope) Path() []string {
	if s.Level == None {
		return nil
	}
	return append([]string{string(s.Level)}, s.Elements...)
}

// FromPath restores a scope persisted with [Scope.Path].
func FromPath(path []string) (Scope, error) {
	if len(path) == 0 {
		return Scope{Level: None, Elements: nil}, nil
	}
	level := Level(path[0])
	if !slices.Contains(levels, level) {
		return Scope{}, errors.Wrap(ErrUnknownLevel, "restore scope", slog.String("level", path[0]))
	}
	return Scope{Level: level, Elements: slices.Clone(path[1:])}, nil
}

// Is reports whether the scope is at level.
func (s *Scope) Is(level Level) bool {
	return s.Level == level
}

// SwitchTo focuses the scope on level and drops the element path. Switching to the current level keeps the path.
func (s *Scope) SwitchTo(level Level) {
	if s.Level == level {
		return
	}
	s.Level = level
	s.Elements = nil
}

// Focus focuses the scope on level with the given element path.
func (s *Scope) Focus(level Level, elements ...string) {
	s.Level = level
	s.Elements = slices.Clone(elements)
}

// Push descends one element deeper.
func (s *Scope) Push(element string) {
	s.Elements = append(slices.Clone(s.Elements), element)
}

// Element returns the innermost element, or "" when the path is empty.
func (s *Scope) Element() string {
	if len(s.Elements) == 0 {
		return ""
	}
	return s.Elements[len(s.Elements)-1]
}

// Clear resets the scope to no focus.
func (s *Scope) Clear() {
	s.Level = None
	s.Elements = nil
}

// Index interprets the innermost element as a list index, as used by the birth history.
func (s *Scope) Index() (int, bool) {
	idx, err := strconv.Atoi(s.Element())
	if err != nil {
		return 0, false
	}
	return idx, true
}

// SetIndex stores idx as the only element.
func (s *Scope) SetIndex(idx int) {
	s.Elements = []string{strconv.Itoa(idx)}
}
