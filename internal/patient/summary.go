package patient

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/myrjola/spbot/internal/scope"
	"github.com/myrjola/spbot/internal/synonyms"
)

const nothingKnown = "Nothing that I'm aware of"

// FamilyHistorySummary describes the health of the relatives, limited to the given relationships when any are given.
func (c *Case) FamilyHistorySummary(ctx context.Context, sc *scope.Scope, relationships ...string) string {
	if len(c.familyMembers) == 0 {
		return nothingKnown
	}
	sc.SwitchTo(scope.FamilyHistory)

	var sentences []string
	for _, fm := range c.familyMembers {
		if len(relationships) > 0 && !slices.ContainsFunc(relationships, func(r string) bool {
			return c.matches(ctx, synonyms.Relationship, fm.rec.Relationship, r)
		}) {
			continue
		}
		relationship := fm.Relationship()
		conditions := strings.Join(fm.Conditions(), ", ")
		switch {
		case conditions == "":
			sentences = append(sentences, fmt.Sprintf("My %s is healthy.", relationship))
		case fm.CauseOfDeath() != "":
			sentences = append(sentences, fmt.Sprintf("My %s had %s.", relationship, conditions))
		default:
			sentences = append(sentences, fmt.Sprintf("My %s has %s.", relationship, conditions))
		}
	}
	if len(sentences) == 0 {
		return nothingKnown
	}
	return strings.Join(sentences, " ")
}

// TravelSummary lists the recent destinations.
func (c *Case) TravelSummary(sc *scope.Scope) string {
	if c.social == nil || len(c.social.travel) == 0 {
		return "No"
	}
	sc.SwitchTo(scope.TravelHistory)

	locations := make([]string, 0, len(c.social.travel))
	for _, t := range c.social.travel {
		locations = append(locations, t.Location())
	}
	return fmt.Sprintf("I recently traveled to %s.", strings.Join(locations, ", "))
}

// RecreationalDrugs groups the names of drugs other than alcohol and tobacco by active or previous use.
func (c *Case) RecreationalDrugs() map[string][]string {
	drugs := map[string][]string{StatusActive: nil, StatusPrevious: nil}
	if c.social == nil {
		return drugs
	}
	for _, s := range c.social.substances {
		if s.rec.Name == Alcohol || s.rec.Name == Tobacco {
			continue
		}
		if _, ok := drugs[s.rec.Status]; ok {
			drugs[s.rec.Status] = append(drugs[s.rec.Status], s.Name())
		}
	}
	return drugs
}

// BirthHistorySummary counts the pregnancies and tells how each ended.
func (c *Case) BirthHistorySummary(sc *scope.Scope) string {
	if c.gynecologic == nil || len(c.gynecologic.births) == 0 {
		return "I've never been pregnant"
	}
	sc.SwitchTo(scope.BirthHistory)

	births := c.gynecologic.births
	var b strings.Builder
	fmt.Fprintf(&b, "I've been pregnant %d time", len(births))
	if len(births) > 1 {
		b.WriteString("s")
	}
	b.WriteString(".")
	for i, birth := range births {
		category := birth.Category()
		switch category {
		case Delivered:
			fmt.Fprintf(&b, " Pregnancy %d was %s.", i+1, category)
		case Miscarriage:
			fmt.Fprintf(&b, " Pregnancy %d was a %s.", i+1, category)
		default:
			fmt.Fprintf(&b, " Pregnancy %d was an %s.", i+1, category)
		}
	}
	return b.String()
}

// Diagnoses splits the medical history into active and previous diagnoses.
func (c *Case) Diagnoses() ([]string, []string) {
	var active, previous []string
	for _, d := range c.diseases {
		switch d.rec.Status {
		case StatusActive:
			active = append(active, d.Diagnosis())
		case StatusPrevious:
			previous = append(previous, d.Diagnosis())
		}
	}
	return active, previous
}

func (c *Case) SurgeryList() []string {
	list := make([]string, 0, len(c.surgeries))
	for _, s := range c.surgeries {
		list = append(list, s.Type())
	}
	return list
}

func (c *Case) MedicationList() []string {
	list := make([]string, 0, len(c.medications))
	for _, m := range c.medications {
		list = append(list, m.Name())
	}
	return list
}

func (c *Case) AllergenList() []string {
	list := make([]string, 0, len(c.allergies))
	for _, a := range c.allergies {
		list = append(list, a.Allergen())
	}
	return list
}
