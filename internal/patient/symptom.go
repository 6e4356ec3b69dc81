package patient

import (
	"log/slog"

	"github.com/myrjola/spbot/internal/errors"
	"github.com/myrjola/spbot/internal/ledger"
	"github.com/myrjola/spbot/internal/models"
)

var ErrSymptomTooDeep = errors.NewSentinel("associated symptoms nest too deep")

// requiredHPIFields counts onset, precipitant, aggravating and alleviating factors and progression.
const requiredHPIFields = 5

// Associated is an associated symptom. It is either a bare label or a node with its own history.
type Associated struct {
	label string
	node  *Symptom
}

// Label names the associated symptom.
func (a Associated) Label() string { return a.label }

// Node returns the nested symptom, or nil for a bare label.
func (a Associated) Node() *Symptom { return a.node }

// IsNode reports whether the associated symptom carries its own history.
func (a Associated) IsNode() bool { return a.node != nil }

// Symptom is a node of the chief-complaint tree.
type Symptom struct {
	tracked
	rec        models.SymptomRecord
	associated []Associated
}

func (c *Case) newSymptom(rec models.SymptomRecord, depth int) (*Symptom, error) {
	if depth > maxSymptomDepth {
		return nil, errors.Wrap(ErrSymptomTooDeep, "build symptom",
			slog.String("symptom", rec.Symptom), slog.Int("depth", depth))
	}
	s := &Symptom{
		tracked:    c.track(ledger.Symptom, rec.Symptom),
		rec:        rec,
		associated: make([]Associated, 0, len(rec.AssociatedSymptoms)),
	}

	s.register("onset")
	s.registerIf(rec.Frequency != "", "frequency")
	s.registerIf(rec.Duration != "", "duration")
	s.register("precipitant", "aggravating factors", "alleviating factors", "progression")
	s.registerIf(rec.Severity != nil, "severity")
	s.registerIf(rec.Quality != "", "quality")
	s.registerIf(rec.Quantity != "", "quantity")
	s.registerIf(rec.Location != "", "location")
	s.registerIf(rec.Radiation != "", "radiation")

	for _, negative := range rec.PertinentNegatives {
		c.ledger.Register(ledger.ReviewOfSystems, rec.Symptom, negative)
	}
	for _, a := range rec.AssociatedSymptoms {
		if a.Symptom == nil {
			s.associated = append(s.associated, Associated{label: a.Label, node: nil})
		} else {
			node, err := c.newSymptom(*a.Symptom, depth+1)
			if err != nil {
				return nil, err
			}
			s.associated = append(s.associated, Associated{label: node.Label(), node: node})
		}
		c.ledger.Register(ledger.ReviewOfSystems, rec.Symptom, a.Label)
	}
	return s, nil
}

// Label names the symptom. Reading it does not count as a question.
func (s *Symptom) Label() string { return s.rec.Symptom }

func (s *Symptom) Onset() string {
	s.readRequired("onset", s.rec.Onset != "")
	return s.rec.Onset
}

func (s *Symptom) Frequency() string {
	s.read("frequency")
	return s.rec.Frequency
}

func (s *Symptom) Duration() string {
	s.read("duration")
	return s.rec.Duration
}

func (s *Symptom) Precipitant() string {
	s.readRequired("precipitant", s.rec.Precipitant != "")
	return s.rec.Precipitant
}

func (s *Symptom) AggravatingFactors() []string {
	s.read("aggravating factors")
	return s.rec.AggravatingFactors
}

func (s *Symptom) AlleviatingFactors() []string {
	s.read("alleviating factors")
	return s.rec.AlleviatingFactors
}

func (s *Symptom) Progression() string {
	s.readRequired("progression", s.rec.Progression != "")
	return s.rec.Progression
}

// Severity is the 0-10 rating. ok is false when the case does not rate the symptom.
func (s *Symptom) Severity() (int, bool) {
	s.read("severity")
	if s.rec.Severity == nil {
		return 0, false
	}
	return *s.rec.Severity, true
}

func (s *Symptom) Quality() string {
	s.read("quality")
	return s.rec.Quality
}

func (s *Symptom) Quantity() string {
	s.read("quantity")
	return s.rec.Quantity
}

func (s *Symptom) Location() string {
	s.read("location")
	return s.rec.Location
}

func (s *Symptom) Radiation() string {
	s.read("radiation")
	return s.rec.Radiation
}

// Other returns a symptom-specific fact such as the sputum of a cough. These facts are not scored.
func (s *Symptom) Other(key string) (string, bool) {
	v, ok := s.rec.Other[key]
	return v, ok
}

func (s *Symptom) PertinentNegatives() []string { return s.rec.PertinentNegatives }

// HPIFieldCount is the number of history of present illness questions the symptom answers.
func (s *Symptom) HPIFieldCount() int {
	optional := []bool{
		s.rec.Frequency != "",
		s.rec.Duration != "",
		s.rec.Severity != nil,
		s.rec.Quality != "",
		s.rec.Quantity != "",
		s.rec.Location != "",
		s.rec.Radiation != "",
	}
	count := requiredHPIFields
	for _, present := range optional {
		if present {
			count++
		}
	}
	return count
}

func (s *Symptom) Associated() []Associated { return s.associated }

// associatedNode finds the nested symptom with exactly the given label.
func (s *Symptom) associatedNode(label string) *Symptom {
	for _, a := range s.associated {
		if a.node != nil && a.label == label {
			return a.node
		}
	}
	return nil
}
