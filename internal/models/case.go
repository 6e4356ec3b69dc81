package models

import (
	"bytes"
	"encoding/json"

	"github.com/myrjola/spbot/internal/errors"
)

// CaseRecord is a stored standardized-patient script.
type CaseRecord struct {
	ID                   string                      `json:"id" validate:"required"`
	Category             string                      `json:"category" validate:"required"`
	Name                 string                      `json:"name" validate:"required"`
	Age                  Age                         `json:"age"`
	Gender               string                      `json:"gender" validate:"required"`
	ChiefComplaint       ChiefComplaintRecord        `json:"chief_complaint"`
	MedicalHistory       []DiseaseRecord             `json:"medical_history,omitempty" validate:"dive"`
	SurgicalHistory      []SurgeryRecord             `json:"surgical_history,omitempty" validate:"dive"`
	Medications          []MedicationRecord          `json:"medications,omitempty" validate:"dive"`
	Allergies            []AllergyRecord             `json:"allergies,omitempty" validate:"dive"`
	FamilyHistory        []FamilyMemberRecord        `json:"family_history,omitempty" validate:"dive"`
	SocialHistory        *SocialHistoryRecord        `json:"social_history,omitempty"`
	GynecologicHistory   *GynecologicHistoryRecord   `json:"gynecologic_history,omitempty"`
	DevelopmentalHistory *DevelopmentalHistoryRecord `json:"developmental_history,omitempty"`
	Feedback             FeedbackRecord              `json:"feedback"`
}

type Age struct {
	Value int    `json:"value" validate:"gte=0"`
	Units string `json:"units" validate:"required"`
}

// ChiefComplaintRecord holds the presenting complaint. Symptoms[0] is the current episode and the optional
// Symptoms[1] a previous one.
type ChiefComplaintRecord struct {
	Label    string          `json:"label" validate:"required"`
	Symptoms []SymptomRecord `json:"symptoms" validate:"min=1,max=2,dive"`
}

type FeedbackRecord struct {
	Differentials    []string `json:"differentials" validate:"len=3,dive,required"`
	PointsOfEmphasis []string `json:"poe"`
}

type SymptomRecord struct {
	Symptom            string                    `json:"symptom" validate:"required"`
	Onset              string                    `json:"onset,omitempty"`
	Frequency          string                    `json:"frequency,omitempty"`
	Duration           string                    `json:"duration,omitempty"`
	Precipitant        string                    `json:"precipitant,omitempty"`
	AggravatingFactors []string                  `json:"aggravating_factors,omitempty"`
	AlleviatingFactors []string                  `json:"alleviating_factors,omitempty"`
	Progression        string                    `json:"progression,omitempty"`
	Severity           *int                      `json:"severity,omitempty" validate:"omitempty,min=0,max=10"`
	Quality            string                    `json:"quality,omitempty"`
	Quantity           string                    `json:"quantity,omitempty"`
	Location           string                    `json:"location,omitempty"`
	Radiation          string                    `json:"radiation,omitempty"`
	Other              map[string]string         `json:"other,omitempty"`
	PertinentNegatives []string                  `json:"pertinent_negatives,omitempty"`
	AssociatedSymptoms []AssociatedSymptomRecord `json:"assoc_symptoms,omitempty" validate:"dive"`
}

// AssociatedSymptomRecord is either a bare label or a symptom with its own history.
type AssociatedSymptomRecord struct {
	Label   string
	Symptom *SymptomRecord
}

var ErrMalformedAssociatedSymptom = errors.NewSentinel("associated symptom must be a string or an object")

func (r *AssociatedSymptomRecord) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		r.Symptom = nil
		if err := json.Unmarshal(data, &r.Label); err != nil {
			return errors.Wrap(err, "unmarshal associated symptom label")
		}
		return nil
	}
	if len(data) == 0 || data[0] != '{' {
		return ErrMalformedAssociatedSymptom
	}
	var s SymptomRecord
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Wrap(err, "unmarshal associated symptom")
	}
	r.Label = s.Symptom
	r.Symptom = &s
	return nil
}

func (r AssociatedSymptomRecord) MarshalJSON() ([]byte, error) {
	if r.Symptom != nil {
		return json.Marshal(r.Symptom) //nolint:wrapcheck // plain delegation
	}
	return json.Marshal(r.Label) //nolint:wrapcheck // plain delegation
}

type DiseaseRecord struct {
	Diagnosis     string   `json:"diagnosis" validate:"required"`
	Duration      *int     `json:"duration,omitempty"`
	DurationUnits string   `json:"duration_units,omitempty"`
	Status        string   `json:"status,omitempty" validate:"omitempty,oneof=active previous"`
	Treatment     []string `json:"treatment,omitempty"`
}

type SurgeryRecord struct {
	Type          string `json:"type" validate:"required"`
	Indication    string `json:"indication,omitempty"`
	Date          string `json:"date,omitempty"`
	Complications string `json:"complications,omitempty"`
}

type DoseRecord struct {
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit,omitempty"`
	Rate   string  `json:"rate,omitempty"`
	Route  string  `json:"route,omitempty"`
}

type MedicationRecord struct {
	Name       string      `json:"name" validate:"required"`
	Category   string      `json:"category,omitempty"`
	Indication string      `json:"indication,omitempty"`
	Dose       *DoseRecord `json:"dose,omitempty"`
}

type AllergyRecord struct {
	Allergen string `json:"allergen" validate:"required"`
	Category string `json:"category,omitempty"`
	Reaction string `json:"reaction,omitempty"`
}

type FamilyMemberRecord struct {
	Relationship string   `json:"relationship" validate:"required"`
	Age          *int     `json:"age,omitempty"`
	CauseOfDeath string   `json:"cod,omitempty"`
	Conditions   []string `json:"conditions,omitempty"`
}

type SocialHistoryRecord struct {
	Housing       string               `json:"housing,omitempty"`
	Employment    string               `json:"employment,omitempty"`
	Diet          string               `json:"diet,omitempty"`
	Exercise      string               `json:"exercise,omitempty"`
	SickContacts  []string             `json:"sick_contacts,omitempty"`
	PPD           string               `json:"ppd,omitempty"`
	Substances    []SubstanceRecord    `json:"substances,omitempty" validate:"dive"`
	Travel        []TravelRecord       `json:"travel,omitempty" validate:"dive"`
	SexualHistory *SexualHistoryRecord `json:"sexual_history,omitempty"`
}

type QuantityRecord struct {
	Value float64 `json:"value"`
	Units string  `json:"units,omitempty"`
	Rate  string  `json:"rate,omitempty"`
}

type SubstanceRecord struct {
	Name          string          `json:"name" validate:"required"`
	Status        string          `json:"status" validate:"oneof=active previous never"`
	AgeOfFirstUse *int            `json:"age_of_first_use,omitempty"`
	Amount        *QuantityRecord `json:"amount,omitempty"`
	LastUse       string          `json:"last_use,omitempty"`
	Duration      *QuantityRecord `json:"duration,omitempty"`
}

type TravelRecord struct {
	Location      string `json:"location" validate:"required"`
	DepartureDate string `json:"departure_date,omitempty"`
	ReturnDate    string `json:"return_date,omitempty"`
	Mode          string `json:"mode,omitempty"`
}

type PartnersRecord struct {
	Current  int  `json:"current"`
	PastYear *int `json:"past_year,omitempty"`
	Lifetime *int `json:"lifetime,omitempty"`
}

type SexualHistoryRecord struct {
	Status             string         `json:"status,omitempty"`
	PartnerType        string         `json:"partner_type,omitempty"`
	NumberOfPartners   PartnersRecord `json:"number_of_partners"`
	AgeOfFirstCoitus   *int           `json:"start_age,omitempty"`
	LastSexualActivity string         `json:"last_active,omitempty"`
	Contraception      []string       `json:"contraception,omitempty"`
}

type GynecologicHistoryRecord struct {
	LastMenstrualPeriod string        `json:"lmp,omitempty"`
	AgeOfMenarche       *int          `json:"age_of_menarche,omitempty"`
	Cycles              string        `json:"cycles,omitempty"`
	PapSmears           string        `json:"pap_smears,omitempty"`
	BirthHistory        []BirthRecord `json:"birth_hx,omitempty" validate:"dive"`
}

type BirthRecord struct {
	MaternalAge    int      `json:"maternal_age"`
	GestationalAge int      `json:"gestational_age"`
	Category       string   `json:"category" validate:"oneof=abortion delivered ectopic miscarriage"`
	BirthWeight    []int    `json:"birth_weight,omitempty"`
	Gender         string   `json:"gender,omitempty" validate:"omitempty,oneof=male female"`
	DeliveryMethod string   `json:"delivery_method,omitempty"`
	Complications  []string `json:"complications,omitempty"`
	Indication     string   `json:"indication,omitempty"`
	Management     string   `json:"management,omitempty"`
}

type DevelopmentalHistoryRecord struct {
	BirthHistory *BirthRecord `json:"birth_hx,omitempty"`
	Development  string       `json:"development,omitempty"`
	Vaccinations string       `json:"vaccinations,omitempty"`
	LastCheckup  string       `json:"last_checkup,omitempty"`
	WetDiapers   *int         `json:"wet_diapers,omitempty"`
}

// ChiefComplaintOption is a case as offered in a category listing.
type ChiefComplaintOption struct {
	ChiefComplaint string `db:"chief_complaint" json:"chief_complaint"`
	CaseID         string `db:"id" json:"case_id"`
}
