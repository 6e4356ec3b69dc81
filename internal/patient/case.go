// Package patient builds the interactive model of a standardized-patient case.
//
// Accessors return case facts and mark the corresponding questions as asked in the case's [ledger.Ledger]. A Case
// belongs to a single conversation and is not safe for concurrent use.
package patient

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/myrjola/spbot/internal/errors"
	"github.com/myrjola/spbot/internal/ledger"
	"github.com/myrjola/spbot/internal/models"
	"github.com/myrjola/spbot/internal/synonyms"
)

var (
	ErrCaseNotFound  = errors.NewSentinel("case not found")
	ErrAmbiguousCase = errors.NewSentinel("case id matches more than one case")
	ErrInvalidCase   = errors.NewSentinel("invalid case record")
)

// maxSymptomDepth bounds the nesting of associated symptoms below the chief complaint.
const maxSymptomDepth = 8

// CaseStore looks up stored case records by id.
type CaseStore interface {
	FindCases(ctx context.Context, id string) ([]models.CaseRecord, error)
}

// Differential pairs a diagnosis of the case with the answer the trainee gave for that slot.
type Differential struct {
	Truth  string
	Answer *string
}

// Case is a patient encounter built from a [models.CaseRecord].
type Case struct {
	id       string
	category string
	name     string
	age      models.Age
	gender   string

	chiefComplaint string
	// symptoms[0] is the current complaint, symptoms[1] an optional previous episode.
	symptoms []*Symptom

	diseases      []*Disease
	surgeries     []*Surgery
	medications   []*Medication
	allergies     []*Allergy
	familyMembers []*FamilyMember
	social        *SocialHistory
	gynecologic   *GynecologicHistory
	developmental *DevelopmentalHistory

	differentials    []Differential
	pointsOfEmphasis []string

	ledger *ledger.Ledger
	index  *synonyms.Index
	logger *slog.Logger
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load finds the case with the given id and builds it.
func Load(ctx context.Context, store CaseStore, id string, index *synonyms.Index, logger *slog.Logger) (*Case, error) {
	records, err := store.FindCases(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "find case", slog.String("caseID", id))
	}
	switch len(records) {
	case 0:
		return nil, errors.Wrap(ErrCaseNotFound, "load case", slog.String("caseID", id))
	case 1:
		return New(records[0], index, logger)
	default:
		return nil, errors.Wrap(ErrAmbiguousCase, "load case",
			slog.String("caseID", id), slog.Int("matches", len(records)))
	}
}

// New validates rec and builds the case tree, registering every trackable question in a fresh ledger.
func New(rec models.CaseRecord, index *synonyms.Index, logger *slog.Logger) (*Case, error) {
	if err := validate.Struct(rec); err != nil {
		return nil, errors.Wrap(ErrInvalidCase, err.Error(), slog.String("caseID", rec.ID))
	}

	c := &Case{
		id:               rec.ID,
		category:         rec.Category,
		name:             rec.Name,
		age:              rec.Age,
		gender:           rec.Gender,
		chiefComplaint:   rec.ChiefComplaint.Label,
		symptoms:         nil,
		diseases:         nil,
		surgeries:        nil,
		medications:      nil,
		allergies:        nil,
		familyMembers:    nil,
		social:           nil,
		gynecologic:      nil,
		developmental:    nil,
		differentials:    make([]Differential, 0, len(rec.Feedback.Differentials)),
		pointsOfEmphasis: rec.Feedback.PointsOfEmphasis,
		ledger:           ledger.New(),
		index:            index,
		logger:           logger.With("caseID", rec.ID),
	}

	for _, s := range rec.ChiefComplaint.Symptoms {
		symptom, err := c.newSymptom(s, 0)
		if err != nil {
			return nil, err
		}
		c.symptoms = append(c.symptoms, symptom)
	}
	for _, d := range rec.MedicalHistory {
		c.diseases = append(c.diseases, c.newDisease(d))
	}
	for _, s := range rec.SurgicalHistory {
		c.surgeries = append(c.surgeries, c.newSurgery(s))
	}
	for _, m := range rec.Medications {
		c.medications = append(c.medications, c.newMedication(m))
	}
	for _, a := range rec.Allergies {
		c.allergies = append(c.allergies, c.newAllergy(a))
	}
	for _, fm := range rec.FamilyHistory {
		c.familyMembers = append(c.familyMembers, c.newFamilyMember(fm))
	}
	if rec.SocialHistory != nil {
		c.social = c.newSocialHistory(*rec.SocialHistory)
	}
	if rec.GynecologicHistory != nil {
		c.gynecologic = c.newGynecologicHistory(*rec.GynecologicHistory)
	}
	if rec.DevelopmentalHistory != nil {
		c.developmental = c.newDevelopmentalHistory(*rec.DevelopmentalHistory)
	}
	for _, truth := range rec.Feedback.Differentials {
		c.differentials = append(c.differentials, Differential{Truth: truth, Answer: nil})
	}

	return c, nil
}

func (c *Case) ID() string       { return c.id }
func (c *Case) Category() string { return c.category }
func (c *Case) Name() string     { return c.name }
func (c *Case) Gender() string   { return c.gender }

// Age returns the age value and its unit, e.g. 54 and "year".
func (c *Case) Age() (int, string) { return c.age.Value, c.age.Units }

func (c *Case) ChiefComplaint() string { return c.chiefComplaint }

// ChiefComplaintSymptom is the symptom tree of the presenting complaint.
func (c *Case) ChiefComplaintSymptom() *Symptom { return c.symptoms[0] }

// PreviousSymptom is the symptom tree of an earlier episode, or nil.
func (c *Case) PreviousSymptom() *Symptom {
	if len(c.symptoms) < 2 { //nolint:mnd // current and previous episode
		return nil
	}
	return c.symptoms[1]
}

// Ledger exposes the questions still unread.
func (c *Case) Ledger() *ledger.Ledger { return c.ledger }

// Index is the synonym index the case resolves terms with.
func (c *Case) Index() *synonyms.Index { return c.index }

// Introduction presents the patient to the trainee.
func (c *Case) Introduction() string {
	return fmt.Sprintf("Your patient is %s, a **%d** %s-old **%s** complaining of **%s**",
		c.name, c.age.Value, c.age.Units, c.gender, c.chiefComplaint)
}

// Differentials returns a copy of the differential slots.
func (c *Case) Differentials() []Differential {
	out := make([]Differential, len(c.differentials))
	copy(out, c.differentials)
	return out
}

// SetDifferential records the trainee's answer for slot i (0-based).
func (c *Case) SetDifferential(i int, answer string) error {
	if i < 0 || i >= len(c.differentials) {
		return errors.New("differential slot out of range", slog.Int("slot", i))
	}
	c.differentials[i].Answer = &answer
	return nil
}

// PointsOfEmphasis are the teaching points shown after the encounter.
func (c *Case) PointsOfEmphasis() []string { return c.pointsOfEmphasis }

func (c *Case) Diseases() []*Disease           { return c.diseases }
func (c *Case) Surgeries() []*Surgery          { return c.surgeries }
func (c *Case) Medications() []*Medication     { return c.medications }
func (c *Case) Allergies() []*Allergy          { return c.allergies }
func (c *Case) FamilyMembers() []*FamilyMember { return c.familyMembers }

// SocialHistory is nil when the case has none.
func (c *Case) SocialHistory() *SocialHistory { return c.social }

// GynecologicHistory is nil when the case has none.
func (c *Case) GynecologicHistory() *GynecologicHistory { return c.gynecologic }

// DevelopmentalHistory is nil when the case has none.
func (c *Case) DevelopmentalHistory() *DevelopmentalHistory { return c.developmental }

// tracked binds a case node to the ledger section and owner its questions are counted under.
type tracked struct {
	ledger *ledger.Ledger
	logger *slog.Logger
	kind   ledger.SectionKind
	owner  string
}

func (c *Case) track(kind ledger.SectionKind, owner string) tracked {
	return tracked{ledger: c.ledger, logger: c.logger, kind: kind, owner: owner}
}

func (t tracked) register(fields ...string) {
	for _, f := range fields {
		t.ledger.Register(t.kind, f, t.owner)
	}
}

// registerIf registers field only when the case provides a value for it.
func (t tracked) registerIf(present bool, field string) {
	if present {
		t.ledger.Register(t.kind, field, t.owner)
	}
}

func (t tracked) read(field string) {
	t.ledger.MarkRead(t.kind, field, t.owner)
}

// readRequired marks field read and reports a case script without a value for it.
func (t tracked) readRequired(field string, present bool) {
	t.read(field)
	if !present {
		t.logger.Warn("required case field is empty",
			slog.String("section", t.kind.String()),
			slog.String("field", field),
			slog.String("owner", t.owner))
	}
}
