// Package scoring grades a finished encounter.
package scoring

import (
	"context"
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/myrjola/spbot/internal/errors"
	"github.com/myrjola/spbot/internal/ledger"
	"github.com/myrjola/spbot/internal/patient"
	"github.com/myrjola/spbot/internal/synonyms"
)

var ErrNoQuestions = errors.NewSentinel("case registers no questions")

// Interview returns the percentage of registered questions that were asked.
func Interview(l *ledger.Ledger) (int, error) {
	total := l.Total()
	if total == 0 {
		return 0, ErrNoQuestions
	}
	asked := float64(total-l.Unread()) / float64(total)
	return int(math.Round(asked * 100)), nil //nolint:mnd // percent
}

// DifferentialScore counts the differentials the trainee got right.
type DifferentialScore struct {
	Correct int
	Total   int
}

func (s DifferentialScore) Fraction() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Total)
}

func (s DifferentialScore) String() string {
	return fmt.Sprintf("%d/%d", s.Correct, s.Total)
}

// Differentials compares each answer with the synonyms of its diagnosis. Missing answers are wrong.
func Differentials(ctx context.Context, index *synonyms.Index, diffs []patient.Differential) DifferentialScore {
	score := DifferentialScore{Correct: 0, Total: len(diffs)}
	for _, d := range diffs {
		if d.Answer == nil {
			continue
		}
		if index.Equivalents(ctx, synonyms.Disease, d.Truth).Contains(strings.TrimSpace(*d.Answer)) {
			score.Correct++
		}
	}
	return score
}

// MissedQuestions lists the unread questions grouped by history section, formatted for the trainee.
func MissedQuestions(l *ledger.Ledger) []string {
	var (
		missed []string
		fields = map[ledger.SectionKind][]ledger.Entry{}
		kinds  []ledger.SectionKind
	)
	for _, e := range l.Entries() {
		if _, ok := fields[e.Kind]; !ok {
			kinds = append(kinds, e.Kind)
		}
		fields[e.Kind] = append(fields[e.Kind], e)
	}

	for _, kind := range kinds {
		entries := fields[kind]
		switch kind {
		case ledger.Symptom, ledger.Substance:
			missed = append(missed, byOwner(kind, entries)...)
		case ledger.ReviewOfSystems:
			for _, e := range entries {
				missed = append(missed, fmt.Sprintf("(**ROS**) *%s*: %s", capitalize(e.Field), strings.Join(e.Owners, ", ")))
			}
		case ledger.Disease:
			missed = append(missed, "Past Medical History")
		case ledger.Surgery:
			missed = append(missed, "Past Surgical History")
		case ledger.Allergy:
			missed = append(missed, "Allergies")
		case ledger.Medication:
			if _, ok := findField(entries, "name"); ok {
				missed = append(missed, "Medications")
			} else if _, ok = findField(entries, "dose"); ok {
				missed = append(missed, "Medication *Doses*")
			}
		case ledger.FamilyMember:
			if e, ok := findField(entries, "relationship"); ok {
				missed = append(missed, fmt.Sprintf("**Family History**: %s", strings.Join(e.Owners, ", ")))
			}
		case ledger.Travel:
			if _, ok := findField(entries, "location"); ok {
				missed = append(missed, "Travel History")
			} else if _, ok = findField(entries, "return date"); ok {
				missed = append(missed, "*Date of return* from travel")
			}
		case ledger.Social, ledger.Sexual, ledger.Gynecologic, ledger.Birth, ledger.Developmental:
			names := make([]string, 0, len(entries))
			for _, e := range entries {
				names = append(names, e.Field)
			}
			missed = append(missed, fmt.Sprintf("**%s History**: %s", capitalize(kind.String()), strings.Join(names, ", ")))
		}
	}
	return missed
}

// byOwner regroups field entries so that each symptom or substance lists its own missing fields.
func byOwner(kind ledger.SectionKind, entries []ledger.Entry) []string {
	var (
		owners  []string
		pending = map[string][]string{}
	)
	for _, e := range entries {
		for _, owner := range e.Owners {
			if _, ok := pending[owner]; !ok {
				owners = append(owners, owner)
			}
			pending[owner] = append(pending[owner], e.Field)
		}
	}
	lines := make([]string, 0, len(owners))
	for _, owner := range owners {
		lines = append(lines, fmt.Sprintf("(**%s**) *%s*: %s",
			capitalize(kind.String()), capitalize(owner), strings.Join(pending[owner], ", ")))
	}
	return lines
}

func findField(entries []ledger.Entry, field string) (ledger.Entry, bool) {
	for _, e := range entries {
		if e.Field == field {
			return e, true
		}
	}
	return ledger.Entry{}, false
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
