package patient

import (
	"context"
	"strconv"
	"strings"

	"github.com/myrjola/spbot/internal/ledger"
	"github.com/myrjola/spbot/internal/scope"
	"github.com/myrjola/spbot/internal/synonyms"
)

// FindSymptomInScope returns the symptom the scope points at.
//
// The path of the scope is walked from the chief complaint, or from the previous episode when that scope is active.
// When matchTo is given, the associated symptom of the resolved node that is a synonym of matchTo is returned
// instead. A miss returns nil.
func (c *Case) FindSymptomInScope(ctx context.Context, sc scope.Scope, matchTo string) *Symptom {
	root := c.ChiefComplaintSymptom()
	if sc.Is(scope.ChiefComplaintPrevious) {
		root = c.PreviousSymptom()
	}

	var path []string
	switch sc.Level { //nolint:exhaustive // other levels do not address symptoms
	case scope.ChiefComplaint, scope.ChiefComplaintPrevious, scope.ReviewOfSystems:
		path = sc.Elements
	}

	node := descend(root, path, 0)
	if node == nil || matchTo == "" {
		return node
	}
	return c.matchAssociated(ctx, node, matchTo)
}

// descend follows path[i:] through the nested associated symptoms of node.
func descend(node *Symptom, path []string, i int) *Symptom {
	if node == nil || i == len(path) {
		return node
	}
	return descend(node.associatedNode(path[i]), path, i+1)
}

func (c *Case) matchAssociated(ctx context.Context, node *Symptom, term string) *Symptom {
	for _, a := range node.associated {
		if a.node != nil && c.matches(ctx, synonyms.Symptom, a.label, term) {
			return a.node
		}
	}
	return nil
}

// FocusSymptom resolves a symptom named in the current turn and moves the scope onto it.
//
// The chief complaint is matched first, then the associated symptoms of the symptom in
// focus, then the associated symptoms of the chief complaint. On a miss the scope is left untouched and nil returned.
func (c *Case) FocusSymptom(ctx context.Context, sc *scope.Scope, term string) *Symptom {
	if c.matches(ctx, synonyms.Symptom, c.ChiefComplaintSymptom().Label(), term) ||
		c.matches(ctx, synonyms.Symptom, c.chiefComplaint, term) {
		sc.Focus(scope.ChiefComplaint)
		return c.ChiefComplaintSymptom()
	}

	if sc.Is(scope.ChiefComplaint) || sc.Is(scope.ChiefComplaintPrevious) || sc.Is(scope.ReviewOfSystems) {
		if node := c.FindSymptomInScope(ctx, *sc, term); node != nil {
			if sc.Is(scope.ChiefComplaint) {
				sc.Level = scope.ReviewOfSystems
			}
			sc.Push(node.Label())
			return node
		}
	}

	if node := c.matchAssociated(ctx, c.ChiefComplaintSymptom(), term); node != nil {
		sc.Focus(scope.ReviewOfSystems, node.Label())
		return node
	}
	return nil
}

// Finding is the outcome of asking about one symptom during the review of systems.
type Finding struct {
	Query string
	// Label is the matching associated symptom or pertinent negative, empty when nothing matched.
	Label string
	// Present is true for associated symptoms and false for pertinent negatives.
	Present bool
}

// ReviewSystems answers whether the patient has each queried symptom alongside current, or the chief complaint when
// current is nil. Every matched label is marked read under the review of systems of current.
func (c *Case) ReviewSystems(ctx context.Context, current *Symptom, queries []string) []Finding {
	if current == nil {
		current = c.ChiefComplaintSymptom()
	}

	type candidate struct {
		label   string
		present bool
	}
	candidates := make([]candidate, 0, len(current.rec.PertinentNegatives)+len(current.associated))
	for _, negative := range current.rec.PertinentNegatives {
		candidates = append(candidates, candidate{label: negative, present: false})
	}
	for _, a := range current.associated {
		candidates = append(candidates, candidate{label: a.label, present: true})
	}

	findings := make([]Finding, 0, len(queries))
	for _, q := range queries {
		f := Finding{Query: q, Label: "", Present: false}
		for _, cand := range candidates {
			if c.matches(ctx, synonyms.Symptom, cand.label, q) {
				c.ledger.MarkRead(ledger.ReviewOfSystems, current.Label(), cand.label)
				f.Label = cand.label
				f.Present = cand.present
				break
			}
		}
		findings = append(findings, f)
	}
	return findings
}

// matches reports whether query is a synonym of label.
func (c *Case) matches(ctx context.Context, kind synonyms.Kind, label string, query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return false
	}
	if strings.ToLower(label) == query {
		return true
	}
	return c.index.Equivalents(ctx, kind, label).Contains(query)
}

func findFirst[T any](items []T, pred func(T) bool) T {
	for _, item := range items {
		if pred(item) {
			return item
		}
	}
	var zero T
	return zero
}

func (c *Case) FindDisease(ctx context.Context, name string) *Disease {
	return findFirst(c.diseases, func(d *Disease) bool {
		return c.matches(ctx, synonyms.Disease, d.rec.Diagnosis, name)
	})
}

func (c *Case) FindSurgery(ctx context.Context, name string) *Surgery {
	return findFirst(c.surgeries, func(s *Surgery) bool {
		return c.matches(ctx, synonyms.Surgery, s.rec.Type, name)
	})
}

func (c *Case) FindMedication(ctx context.Context, name string) *Medication {
	return findFirst(c.medications, func(m *Medication) bool {
		return c.matches(ctx, synonyms.Medication, m.rec.Name, name)
	})
}

func (c *Case) FindAllergy(ctx context.Context, name string) *Allergy {
	return findFirst(c.allergies, func(a *Allergy) bool {
		return c.matches(ctx, synonyms.Allergy, a.rec.Allergen, name)
	})
}

func (c *Case) FindFamilyMember(ctx context.Context, relationship string) *FamilyMember {
	return findFirst(c.familyMembers, func(fm *FamilyMember) bool {
		return c.matches(ctx, synonyms.Relationship, fm.rec.Relationship, relationship)
	})
}

func (c *Case) FindSubstance(ctx context.Context, name string) *Substance {
	if c.social == nil {
		return nil
	}
	return findFirst(c.social.substances, func(s *Substance) bool {
		return c.matches(ctx, synonyms.Substance, s.rec.Name, name)
	})
}

// FindTravel matches the destination case-insensitively.
func (c *Case) FindTravel(location string) *Travel {
	if c.social == nil {
		return nil
	}
	location = strings.ToLower(strings.TrimSpace(location))
	return findFirst(c.social.travel, func(t *Travel) bool {
		return strings.ToLower(t.rec.Location) == location
	})
}

var birthOrdinals = map[string]int{
	"first": 0, "1st": 0, "earliest": 0,
	"second": 1, "2nd": 1,
	"third": 2, "3rd": 2,
	"fourth": 3, "4th": 3,
	"fifth": 4, "5th": 4,
	"sixth": 5, "6th": 5,
}

// NavigateBirth resolves a reference to a pregnancy such as "first", "next" or "2".
//
// The index of the pregnancy in focus is kept in the birth-history scope. Relative references without a pregnancy in
// focus and references past either end resolve to nil and leave the scope untouched. A reference that is not
// understood returns the pregnancy in focus.
func (c *Case) NavigateBirth(sc *scope.Scope, referent string) *Birth {
	if c.gynecologic == nil || len(c.gynecologic.births) == 0 {
		return nil
	}
	births := c.gynecologic.births

	cached, hasCached := -1, false
	if sc.Is(scope.BirthHistory) {
		cached, hasCached = sc.Index()
		if hasCached && (cached < 0 || cached >= len(births)) {
			hasCached = false
		}
	}

	var target int
	referent = strings.ToLower(strings.TrimSpace(referent))
	switch referent {
	case "last", "most recent", "latest":
		target = len(births) - 1
	case "next", "after":
		if !hasCached {
			return nil
		}
		target = cached + 1
	case "before", "previous", "prior":
		if !hasCached {
			return nil
		}
		target = cached - 1
	default:
		if n, err := strconv.Atoi(referent); err == nil {
			target = n
		} else if idx, ok := birthOrdinals[referent]; ok {
			target = idx
		} else if hasCached {
			target = cached
		} else {
			return nil
		}
	}

	if target < 0 || target >= len(births) {
		return nil
	}
	sc.SwitchTo(scope.BirthHistory)
	sc.SetIndex(target)
	return births[target]
}
