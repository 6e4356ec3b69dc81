package patient

import (
	"slices"

	"github.com/myrjola/spbot/internal/ledger"
	"github.com/myrjola/spbot/internal/models"
)

// Status values shared by diseases and substances.
const (
	StatusActive   = "active"
	StatusPrevious = "previous"
	StatusNever    = "never"
)

type Disease struct {
	tracked
	rec models.DiseaseRecord
}

func (c *Case) newDisease(rec models.DiseaseRecord) *Disease {
	d := &Disease{tracked: c.track(ledger.Disease, rec.Diagnosis), rec: rec}
	d.register("diagnosis")
	return d
}

func (d *Disease) Diagnosis() string {
	d.read("diagnosis")
	return d.rec.Diagnosis
}

// Duration is how long ago the disease was diagnosed, e.g. 5 and "year".
func (d *Disease) Duration() (int, string, bool) {
	if d.rec.Duration == nil {
		return 0, "", false
	}
	return *d.rec.Duration, d.rec.DurationUnits, true
}

func (d *Disease) Status() string      { return d.rec.Status }
func (d *Disease) Treatment() []string { return d.rec.Treatment }

type Surgery struct {
	tracked
	rec models.SurgeryRecord
}

func (c *Case) newSurgery(rec models.SurgeryRecord) *Surgery {
	s := &Surgery{tracked: c.track(ledger.Surgery, rec.Type), rec: rec}
	s.register("type")
	return s
}

func (s *Surgery) Type() string {
	s.read("type")
	return s.rec.Type
}

func (s *Surgery) Indication() string    { return s.rec.Indication }
func (s *Surgery) Date() string          { return s.rec.Date }
func (s *Surgery) Complications() string { return s.rec.Complications }

type Medication struct {
	tracked
	rec models.MedicationRecord
}

func (c *Case) newMedication(rec models.MedicationRecord) *Medication {
	m := &Medication{tracked: c.track(ledger.Medication, rec.Name), rec: rec}
	m.register("name", "dose")
	return m
}

func (m *Medication) Name() string {
	m.read("name")
	return m.rec.Name
}

// Dose returns the full dose. Asking for it covers amount, unit, rate and route.
func (m *Medication) Dose() (models.DoseRecord, bool) {
	m.readRequired("dose", m.rec.Dose != nil)
	if m.rec.Dose == nil {
		return models.DoseRecord{}, false
	}
	return *m.rec.Dose, true
}

func (m *Medication) Category() string   { return m.rec.Category }
func (m *Medication) Indication() string { return m.rec.Indication }

type Allergy struct {
	tracked
	rec models.AllergyRecord
}

func (c *Case) newAllergy(rec models.AllergyRecord) *Allergy {
	a := &Allergy{tracked: c.track(ledger.Allergy, rec.Allergen), rec: rec}
	a.register("allergen", "reaction")
	return a
}

func (a *Allergy) Allergen() string {
	a.read("allergen")
	return a.rec.Allergen
}

func (a *Allergy) Reaction() string {
	a.readRequired("reaction", a.rec.Reaction != "")
	return a.rec.Reaction
}

func (a *Allergy) Category() string { return a.rec.Category }

type FamilyMember struct {
	tracked
	rec models.FamilyMemberRecord
}

func (c *Case) newFamilyMember(rec models.FamilyMemberRecord) *FamilyMember {
	fm := &FamilyMember{tracked: c.track(ledger.FamilyMember, rec.Relationship), rec: rec}
	fm.register("relationship")
	return fm
}

func (fm *FamilyMember) Relationship() string {
	fm.read("relationship")
	return fm.rec.Relationship
}

// Age is the current age, or the age at death.
func (fm *FamilyMember) Age() (int, bool) {
	if fm.rec.Age == nil {
		return 0, false
	}
	return *fm.rec.Age, true
}

// CauseOfDeath is empty for living relatives.
func (fm *FamilyMember) CauseOfDeath() string { return fm.rec.CauseOfDeath }
func (fm *FamilyMember) Conditions() []string { return fm.rec.Conditions }

var maleRelatives = []string{"father", "brother", "son", "uncle", "grandfather"}

func (fm *FamilyMember) Pronoun() string {
	if slices.Contains(maleRelatives, fm.rec.Relationship) {
		return "he"
	}
	return "she"
}
