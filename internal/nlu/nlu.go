// Package nlu turns a trainee's utterance into an intent and the entities it mentions.
package nlu

import (
	"context"
	"slices"
)

// Intent labels. Labels sharing a prefix ask about the same history section.
const (
	IntentNone     = "none"
	IntentGreeting = "greeting"

	IntentName = "demographics.name"
	IntentAge  = "demographics.age"

	IntentOnset       = "hpi.onset"
	IntentFrequency   = "hpi.frequency"
	IntentDuration    = "hpi.duration"
	IntentPrecipitant = "hpi.precipitant"
	IntentAggravating = "hpi.aggravating"
	IntentAlleviating = "hpi.alleviating"
	IntentProgression = "hpi.progression"
	IntentSeverity    = "hpi.severity"
	IntentQuality     = "hpi.quality"
	IntentQuantity    = "hpi.quantity"
	IntentLocation    = "hpi.location"
	IntentRadiation   = "hpi.radiation"
	IntentPrevious    = "hpi.previous"

	IntentReviewOfSystems = "ros"

	IntentMedicalHistory    = "pmh"
	IntentDiseaseDetail     = "pmh.detail"
	IntentSurgicalHistory   = "psh"
	IntentMedications       = "medications"
	IntentMedicationDose    = "medication.dose"
	IntentAllergies         = "allergies"
	IntentAllergyReaction   = "allergy.reaction"
	IntentFamilyHistory     = "family_history"
	IntentHousing           = "social.housing"
	IntentEmployment        = "social.employment"
	IntentDiet              = "social.diet"
	IntentExercise          = "social.exercise"
	IntentSickContacts      = "social.sick_contacts"
	IntentPPD               = "social.ppd"
	IntentSubstances        = "substances"
	IntentSubstanceFirstUse = "substance.first_use"
	IntentSubstanceAmount   = "substance.amount"
	IntentSubstanceLastUse  = "substance.last_use"
	IntentSubstanceDuration = "substance.duration"
	IntentTravel            = "travel"
	IntentTravelReturn      = "travel.return_date"

	IntentSexualStatus        = "sexual.status"
	IntentSexualPartners      = "sexual.partners"
	IntentSexualFirstCoitus   = "sexual.first_coitus"
	IntentSexualLastActivity  = "sexual.last_activity"
	IntentSexualContraception = "sexual.contraception"

	IntentLastMenstrualPeriod = "gyn.lmp"
	IntentMenarche            = "gyn.menarche"
	IntentCycles              = "gyn.cycles"
	IntentPapSmears           = "gyn.pap_smears"
	IntentBirthHistory        = "birth_history"
	IntentBirthMaternalAge    = "birth.maternal_age"
	IntentBirthGestationalAge = "birth.gestational_age"
	IntentBirthOutcome        = "birth.outcome"
	IntentBirthGender         = "birth.gender"
	IntentBirthWeight         = "birth.weight"
	IntentBirthDelivery       = "birth.delivery"
	IntentBirthComplications  = "birth.complications"

	IntentDevelopment  = "developmental.milestones"
	IntentVaccinations = "developmental.vaccinations"
	IntentLastCheckup  = "developmental.checkup"
	IntentWetDiapers   = "developmental.wet_diapers"
)

// Intents lists every label a Recognizer may return.
var Intents = []string{
	IntentNone, IntentGreeting, IntentName, IntentAge,
	IntentOnset, IntentFrequency, IntentDuration, IntentPrecipitant, IntentAggravating, IntentAlleviating,
	IntentProgression, IntentSeverity, IntentQuality, IntentQuantity, IntentLocation, IntentRadiation, IntentPrevious,
	IntentReviewOfSystems,
	IntentMedicalHistory, IntentDiseaseDetail, IntentSurgicalHistory, IntentMedications, IntentMedicationDose,
	IntentAllergies, IntentAllergyReaction, IntentFamilyHistory,
	IntentHousing, IntentEmployment, IntentDiet, IntentExercise, IntentSickContacts, IntentPPD,
	IntentSubstances, IntentSubstanceFirstUse, IntentSubstanceAmount, IntentSubstanceLastUse, IntentSubstanceDuration,
	IntentTravel, IntentTravelReturn,
	IntentSexualStatus, IntentSexualPartners, IntentSexualFirstCoitus, IntentSexualLastActivity,
	IntentSexualContraception,
	IntentLastMenstrualPeriod, IntentMenarche, IntentCycles, IntentPapSmears,
	IntentBirthHistory, IntentBirthMaternalAge, IntentBirthGestationalAge, IntentBirthOutcome, IntentBirthGender,
	IntentBirthWeight, IntentBirthDelivery, IntentBirthComplications,
	IntentDevelopment, IntentVaccinations, IntentLastCheckup, IntentWetDiapers,
}

// Entity kinds.
const (
	KindSymptom      = "symptom"
	KindDisease      = "disease"
	KindSurgery      = "surgery"
	KindMedication   = "medication"
	KindAllergen     = "allergen"
	KindRelationship = "relationship"
	KindSubstance    = "substance"
	KindLocation     = "location"
	KindOrdinal      = "ordinal"
)

var EntityKinds = []string{
	KindSymptom, KindDisease, KindSurgery, KindMedication, KindAllergen, KindRelationship, KindSubstance,
	KindLocation, KindOrdinal,
}

type Intent struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Entity is a span of the utterance. EndIndex is exclusive.
type Entity struct {
	Label      string  `json:"label"`
	Kind       string  `json:"kind"`
	StartIndex int     `json:"start_index"`
	EndIndex   int     `json:"end_index"`
	Score      float64 `json:"score"`
}

type Result struct {
	Text     string   `json:"text"`
	Intent   Intent   `json:"intent"`
	Entities []Entity `json:"entities"`
}

// Labels returns the labels of the entities of kind in utterance order.
func (r Result) Labels(kind string) []string {
	var labels []string
	for _, e := range r.Entities {
		if e.Kind == kind {
			labels = append(labels, e.Label)
		}
	}
	return labels
}

// First returns the label of the first entity of kind.
func (r Result) First(kind string) (string, bool) {
	i := slices.IndexFunc(r.Entities, func(e Entity) bool { return e.Kind == kind })
	if i == -1 {
		return "", false
	}
	return r.Entities[i].Label, true
}

// Recognizer classifies utterances.
type Recognizer interface {
	Recognize(ctx context.Context, text string) (Result, error)
}
