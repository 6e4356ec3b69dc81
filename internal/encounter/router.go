package encounter

import (
	"context"
	"fmt"
	"strings"

	"github.com/myrjola/spbot/internal/nlu"
	"github.com/myrjola/spbot/internal/patient"
	"github.com/myrjola/spbot/internal/scope"
)

// answer resolves one recognized question against the case and returns the patient's reply. The reply is empty when
// the question could not be answered. sc is moved onto the part of the history the answer talks about.
func answer(ctx context.Context, c *patient.Case, sc *scope.Scope, r nlu.Result) string {
	intent := r.Intent.Label
	section, _, _ := strings.Cut(intent, ".")
	switch section {
	case "hpi":
		return answerHPI(ctx, c, sc, r)
	case "pmh", "psh", "medications", "medication", "allergies", "allergy":
		return answerMedical(ctx, c, sc, r)
	case "social", "substances", "substance", "travel":
		return answerSocial(ctx, c, sc, r)
	case "sexual":
		return answerSexual(c, sc, intent)
	case "gyn", "birth_history", "birth":
		return answerGynecologic(c, sc, r)
	case "developmental":
		return answerDevelopmental(c, sc, intent)
	}

	switch intent {
	case nlu.IntentGreeting:
		return fmt.Sprintf("Hi, I'm %s.", c.Name())
	case nlu.IntentName:
		return fmt.Sprintf("My name is %s.", c.Name())
	case nlu.IntentAge:
		value, units := c.Age()
		return fmt.Sprintf("I'm %d %s old.", value, plural(float64(value), units))
	case nlu.IntentReviewOfSystems:
		return reviewSystems(ctx, c, sc, r)
	case nlu.IntentFamilyHistory:
		return sentence(c.FamilyHistorySummary(ctx, sc, r.Labels(nlu.KindRelationship)...))
	}
	return ""
}

// focusedSymptom is the symptom named in the turn, else the symptom in scope, else the chief complaint.
func focusedSymptom(ctx context.Context, c *patient.Case, sc *scope.Scope, r nlu.Result) *patient.Symptom {
	if term, ok := r.First(nlu.KindSymptom); ok {
		return c.FocusSymptom(ctx, sc, term)
	}
	if sc.Is(scope.ChiefComplaint) || sc.Is(scope.ChiefComplaintPrevious) || sc.Is(scope.ReviewOfSystems) {
		if node := c.FindSymptomInScope(ctx, *sc, ""); node != nil {
			return node
		}
	}
	sc.Focus(scope.ChiefComplaint)
	return c.ChiefComplaintSymptom()
}

func answerHPI(ctx context.Context, c *patient.Case, sc *scope.Scope, r nlu.Result) string {
	if r.Intent.Label == nlu.IntentPrevious {
		if c.PreviousSymptom() == nil {
			return "No, this is the first time."
		}
		sc.Focus(scope.ChiefComplaintPrevious)
		return "Yes, I've had this before."
	}

	s := focusedSymptom(ctx, c, sc, r)
	if s == nil {
		// The symptom may be listed without a history of its own.
		term, _ := r.First(nlu.KindSymptom)
		f, ok := associatedFinding(ctx, c, *sc, term)
		switch {
		case !ok:
			return ""
		case f.Present:
			return fmt.Sprintf("I do have %s, but I can't tell you much more about it.", f.Label)
		}
		return fmt.Sprintf("I don't have %s.", f.Label)
	}

	switch r.Intent.Label {
	case nlu.IntentOnset:
		return either(s.Onset(), "It started %s.", "I'm not sure when it started.")
	case nlu.IntentFrequency:
		return either(s.Frequency(), "%s.", "It's there all the time.")
	case nlu.IntentDuration:
		return either(s.Duration(), "It lasts %s.", "I'm not sure how long it lasts.")
	case nlu.IntentPrecipitant:
		return either(s.Precipitant(), "It started when I was %s.", "Nothing in particular brought it on.")
	case nlu.IntentAggravating:
		return factors(s.AggravatingFactors(), "worse")
	case nlu.IntentAlleviating:
		return factors(s.AlleviatingFactors(), "better")
	case nlu.IntentProgression:
		return either(s.Progression(), "%s.", "It hasn't really changed.")
	case nlu.IntentSeverity:
		if severity, ok := s.Severity(); ok {
			return fmt.Sprintf("I'd rate it a %d out of 10.", severity)
		}
		return "I'm not sure how to rate it."
	case nlu.IntentQuality:
		return either(s.Quality(), "It feels like %s.", "It's hard to describe.")
	case nlu.IntentQuantity:
		return either(s.Quantity(), "%s.", "I'm not sure.")
	case nlu.IntentLocation:
		return either(s.Location(), "It's in %s.", "It's hard to say where exactly.")
	case nlu.IntentRadiation:
		return either(s.Radiation(), "It spreads to %s.", "It doesn't spread anywhere.")
	}
	return ""
}

func factors(items []string, direction string) string {
	switch len(items) {
	case 0:
		return fmt.Sprintf("Nothing really makes it %s.", direction)
	case 1:
		return capitalize(fmt.Sprintf("%s makes it %s.", items[0], direction))
	}
	return capitalize(fmt.Sprintf("%s make it %s.", list(items), direction))
}

// reviewSystems answers yes or no for every symptom asked about alongside the symptom in focus.
func reviewSystems(ctx context.Context, c *patient.Case, sc *scope.Scope, r nlu.Result) string {
	queries := r.Labels(nlu.KindSymptom)
	if len(queries) == 0 {
		return ""
	}

	var current *patient.Symptom
	switch sc.Level { //nolint:exhaustive // other levels fall back to the chief complaint
	case scope.ChiefComplaint, scope.ReviewOfSystems, scope.ChiefComplaintPrevious:
		current = c.FindSymptomInScope(ctx, *sc, "")
		if sc.Is(scope.ChiefComplaint) {
			sc.Level = scope.ReviewOfSystems
		}
	default:
		sc.Focus(scope.ReviewOfSystems)
	}
	if current == nil {
		current = c.ChiefComplaintSymptom()
	}

	replies := make([]string, 0, len(queries))
	for _, f := range c.ReviewSystems(ctx, current, queries) {
		switch {
		case f.Label != "":
			replies = append(replies, findingReply(f))
		default:
			if other, ok := current.Other(f.Query); ok {
				replies = append(replies, sentence(other))
				continue
			}
			if cc := c.ChiefComplaintSymptom(); current != cc {
				if fallback := c.ReviewSystems(ctx, cc, []string{f.Query})[0]; fallback.Label != "" {
					replies = append(replies, findingReply(fallback))
					continue
				}
			}
			replies = append(replies, fmt.Sprintf("No, I don't have %s.", f.Query))
		}
	}
	return strings.Join(replies, " ")
}

func findingReply(f patient.Finding) string {
	if f.Present {
		return fmt.Sprintf("Yes, I have %s.", f.Label)
	}
	return fmt.Sprintf("No, I don't have %s.", f.Label)
}

// associatedFinding looks term up among the associated symptoms and pertinent negatives of the symptom in scope, then
// of the chief complaint. A match is marked read in the review of systems.
func associatedFinding(ctx context.Context, c *patient.Case, sc scope.Scope, term string) (patient.Finding, bool) {
	miss := patient.Finding{Query: term, Label: "", Present: false}
	if term == "" {
		return miss, false
	}
	cc := c.ChiefComplaintSymptom()
	nodes := []*patient.Symptom{cc}
	if sc.Is(scope.ChiefComplaint) || sc.Is(scope.ChiefComplaintPrevious) || sc.Is(scope.ReviewOfSystems) {
		if node := c.FindSymptomInScope(ctx, sc, ""); node != nil && node != cc {
			nodes = []*patient.Symptom{node, cc}
		}
	}
	for _, node := range nodes {
		if f := c.ReviewSystems(ctx, node, []string{term})[0]; f.Label != "" {
			return f, true
		}
	}
	return miss, false
}

// element is the entity of kind named in the turn, else the element in focus when the scope is at level.
func element(r nlu.Result, kind string, sc *scope.Scope, level scope.Level) (string, bool) {
	if label, ok := r.First(kind); ok {
		return label, true
	}
	if sc.Is(level) && sc.Element() != "" {
		return sc.Element(), false
	}
	return "", false
}

func answerMedical(ctx context.Context, c *patient.Case, sc *scope.Scope, r nlu.Result) string {
	switch r.Intent.Label {
	case nlu.IntentMedicalHistory:
		if name, ok := r.First(nlu.KindDisease); ok {
			return diseaseDetail(ctx, c, sc, name, true)
		}
		sc.SwitchTo(scope.MedicalHistory)
		active, previous := c.Diagnoses()
		var replies []string
		if len(active) > 0 {
			replies = append(replies, fmt.Sprintf("I have %s.", list(active)))
		}
		if len(previous) > 0 {
			replies = append(replies, fmt.Sprintf("I used to have %s.", list(previous)))
		}
		if len(replies) == 0 {
			return "No, I've always been healthy."
		}
		return strings.Join(replies, " ")
	case nlu.IntentDiseaseDetail:
		name, named := element(r, nlu.KindDisease, sc, scope.MedicalHistory)
		if name == "" {
			return ""
		}
		return diseaseDetail(ctx, c, sc, name, named)

	case nlu.IntentSurgicalHistory:
		if name, ok := r.First(nlu.KindSurgery); ok {
			s := c.FindSurgery(ctx, name)
			if s == nil {
				return fmt.Sprintf("No, I've never had %s.", name)
			}
			sc.Focus(scope.SurgicalHistory, s.Type())
			reply := fmt.Sprintf("Yes, I had %s", s.Type())
			if s.Date() != "" {
				reply += " in " + s.Date()
			}
			if s.Indication() != "" {
				reply += " for " + s.Indication()
			}
			reply += "."
			if s.Complications() != "" {
				reply += " " + sentence(s.Complications())
			}
			return reply
		}
		sc.SwitchTo(scope.SurgicalHistory)
		if surgeries := c.SurgeryList(); len(surgeries) > 0 {
			return fmt.Sprintf("I had %s.", list(surgeries))
		}
		return "No, I've never had surgery."

	case nlu.IntentMedications:
		if name, ok := r.First(nlu.KindMedication); ok {
			m := c.FindMedication(ctx, name)
			if m == nil {
				return fmt.Sprintf("No, I don't take %s.", name)
			}
			sc.Focus(scope.Medications, m.Name())
			return fmt.Sprintf("Yes, I take %s.", m.Name())
		}
		sc.SwitchTo(scope.Medications)
		if medications := c.MedicationList(); len(medications) > 0 {
			return fmt.Sprintf("I take %s.", list(medications))
		}
		return "I don't take any medications."
	case nlu.IntentMedicationDose:
		m := resolveMedication(ctx, c, sc, r)
		if m == nil {
			return ""
		}
		dose, ok := m.Dose()
		if !ok {
			return "I'm not sure of the dose."
		}
		return fmt.Sprintf("I take %s.", joinNonEmpty(number(dose.Amount), dose.Unit, dose.Route, dose.Rate))

	case nlu.IntentAllergies:
		if name, ok := r.First(nlu.KindAllergen); ok {
			a := c.FindAllergy(ctx, name)
			if a == nil {
				return fmt.Sprintf("No, I'm not allergic to %s.", name)
			}
			sc.Focus(scope.Allergies, a.Allergen())
			return fmt.Sprintf("Yes, I'm allergic to %s.", a.Allergen())
		}
		sc.SwitchTo(scope.Allergies)
		if allergens := c.AllergenList(); len(allergens) > 0 {
			return fmt.Sprintf("I'm allergic to %s.", list(allergens))
		}
		return "No allergies that I know of."
	case nlu.IntentAllergyReaction:
		a := resolveAllergy(ctx, c, sc, r)
		if a == nil {
			return ""
		}
		return either(a.Reaction(), "I get %s.", "I'm not sure what happens.")
	}
	return ""
}

func diseaseDetail(ctx context.Context, c *patient.Case, sc *scope.Scope, name string, named bool) string {
	d := c.FindDisease(ctx, name)
	if d == nil {
		if named {
			return fmt.Sprintf("No, I've never had %s.", name)
		}
		return ""
	}
	diagnosis := d.Diagnosis()
	sc.Focus(scope.MedicalHistory, diagnosis)

	reply := fmt.Sprintf("Yes, I have %s.", diagnosis)
	if d.Status() == patient.StatusPrevious {
		reply = fmt.Sprintf("I had %s.", diagnosis)
	}
	if value, units, ok := d.Duration(); ok {
		reply = fmt.Sprintf("I was diagnosed with %s %d %s ago.", diagnosis, value, plural(float64(value), units))
	}
	if treatment := d.Treatment(); len(treatment) > 0 {
		reply += fmt.Sprintf(" I take %s for it.", list(treatment))
	}
	return reply
}

func resolveMedication(ctx context.Context, c *patient.Case, sc *scope.Scope, r nlu.Result) *patient.Medication {
	if name, _ := element(r, nlu.KindMedication, sc, scope.Medications); name != "" {
		if m := c.FindMedication(ctx, name); m != nil {
			sc.Focus(scope.Medications, name)
			return m
		}
		return nil
	}
	if medications := c.Medications(); len(medications) == 1 {
		sc.Focus(scope.Medications, medications[0].Name())
		return medications[0]
	}
	return nil
}

func resolveAllergy(ctx context.Context, c *patient.Case, sc *scope.Scope, r nlu.Result) *patient.Allergy {
	if name, _ := element(r, nlu.KindAllergen, sc, scope.Allergies); name != "" {
		if a := c.FindAllergy(ctx, name); a != nil {
			sc.Focus(scope.Allergies, name)
			return a
		}
		return nil
	}
	if allergies := c.Allergies(); len(allergies) == 1 {
		sc.Focus(scope.Allergies, allergies[0].Allergen())
		return allergies[0]
	}
	return nil
}

func answerSocial(ctx context.Context, c *patient.Case, sc *scope.Scope, r nlu.Result) string {
	sh := c.SocialHistory()
	if sh == nil {
		return ""
	}

	switch r.Intent.Label {
	case nlu.IntentHousing:
		sc.SwitchTo(scope.SocialHistory)
		return either(sh.Housing(), "%s.", "I don't have a place to live right now.")
	case nlu.IntentEmployment:
		sc.SwitchTo(scope.SocialHistory)
		return either(sh.Employment(), "%s.", "I'm not working right now.")
	case nlu.IntentDiet:
		sc.SwitchTo(scope.SocialHistory)
		return either(sh.Diet(), "%s.", "Nothing special.")
	case nlu.IntentExercise:
		sc.SwitchTo(scope.SocialHistory)
		return either(sh.Exercise(), "%s.", "I don't really exercise.")
	case nlu.IntentSickContacts:
		sc.SwitchTo(scope.SocialHistory)
		contacts := sh.SickContacts()
		if len(contacts) == 0 {
			return "Not that I know of."
		}
		if len(contacts) == 1 {
			return fmt.Sprintf("Yes, my %s has been sick.", contacts[0])
		}
		return fmt.Sprintf("Yes, my %s have been sick.", list(contacts))
	case nlu.IntentPPD:
		sc.SwitchTo(scope.SocialHistory)
		return either(sh.PPD(), "%s.", "I don't think I've had one.")

	case nlu.IntentSubstances:
		if name, ok := r.First(nlu.KindSubstance); ok {
			s := c.FindSubstance(ctx, name)
			if s == nil {
				return fmt.Sprintf("No, I don't use %s.", name)
			}
			sc.Focus(scope.Substances, s.Name())
			switch s.Status() {
			case patient.StatusActive:
				return fmt.Sprintf("Yes, I use %s.", s.Name())
			case patient.StatusPrevious:
				return fmt.Sprintf("I used to use %s.", s.Name())
			}
			return fmt.Sprintf("No, I don't use %s.", s.Name())
		}
		sc.SwitchTo(scope.Substances)
		drugs := c.RecreationalDrugs()
		var replies []string
		if active := drugs[patient.StatusActive]; len(active) > 0 {
			replies = append(replies, fmt.Sprintf("I use %s.", list(active)))
		}
		if previous := drugs[patient.StatusPrevious]; len(previous) > 0 {
			replies = append(replies, fmt.Sprintf("I used to use %s.", list(previous)))
		}
		if len(replies) == 0 {
			return "No, I don't use any drugs."
		}
		return strings.Join(replies, " ")
	case nlu.IntentSubstanceFirstUse, nlu.IntentSubstanceAmount, nlu.IntentSubstanceLastUse,
		nlu.IntentSubstanceDuration:
		return substanceDetail(ctx, c, sc, r)

	case nlu.IntentTravel:
		if location, ok := r.First(nlu.KindLocation); ok {
			t := c.FindTravel(location)
			if t == nil {
				return fmt.Sprintf("No, I haven't been to %s.", location)
			}
			sc.Focus(scope.TravelHistory, t.Location())
			return fmt.Sprintf("Yes, I went to %s.", t.Location())
		}
		return sentence(c.TravelSummary(sc))
	case nlu.IntentTravelReturn:
		t := resolveTravel(c, sc, r)
		if t == nil {
			return ""
		}
		return either(t.ReturnDate(), "I got back %s.", "I don't remember when I got back.")
	}
	return ""
}

func substanceDetail(ctx context.Context, c *patient.Case, sc *scope.Scope, r nlu.Result) string {
	name, _ := element(r, nlu.KindSubstance, sc, scope.Substances)
	if name == "" {
		return ""
	}
	s := c.FindSubstance(ctx, name)
	if s == nil {
		return fmt.Sprintf("I don't use %s.", name)
	}
	sc.Focus(scope.Substances, name)

	switch r.Intent.Label {
	case nlu.IntentSubstanceFirstUse:
		if age, ok := s.AgeOfFirstUse(); ok {
			return fmt.Sprintf("I was %d when I started.", age)
		}
		return "I don't remember when I started."
	case nlu.IntentSubstanceAmount:
		if amount, ok := s.Amount(); ok {
			return fmt.Sprintf("About %s.", joinNonEmpty(number(amount.Value), plural(amount.Value, amount.Units),
				amount.Rate))
		}
		return "I'm not sure how much."
	case nlu.IntentSubstanceLastUse:
		return either(s.LastUse(), "%s.", "I don't remember.")
	case nlu.IntentSubstanceDuration:
		if duration, ok := s.Duration(); ok {
			return fmt.Sprintf("For %s.", joinNonEmpty(number(duration.Value), plural(duration.Value, duration.Units)))
		}
		return "I'm not sure for how long."
	}
	return ""
}

func resolveTravel(c *patient.Case, sc *scope.Scope, r nlu.Result) *patient.Travel {
	if location, _ := element(r, nlu.KindLocation, sc, scope.TravelHistory); location != "" {
		if t := c.FindTravel(location); t != nil {
			sc.Focus(scope.TravelHistory, location)
			return t
		}
		return nil
	}
	if trips := c.SocialHistory().Travel(); len(trips) == 1 {
		sc.Focus(scope.TravelHistory, trips[0].Location())
		return trips[0]
	}
	return nil
}

func answerSexual(c *patient.Case, sc *scope.Scope, intent string) string {
	sh := c.SocialHistory()
	if sh == nil || sh.SexualHistory() == nil {
		return ""
	}
	sx := sh.SexualHistory()
	sc.SwitchTo(scope.SexualHistory)

	switch intent {
	case nlu.IntentSexualStatus:
		if sx.Status() != patient.StatusActive {
			return "No, I'm not sexually active."
		}
		return either(sx.PartnerType(), "Yes, I'm sexually active with %s.", "Yes, I'm sexually active.")
	case nlu.IntentSexualPartners:
		current := sx.CurrentPartners()
		reply := fmt.Sprintf("I have %d %s right now.", current, plural(float64(current), "partner"))
		if n, ok := sx.PartnersPastYear(); ok {
			reply += fmt.Sprintf(" %d in the past year.", n)
		}
		if n, ok := sx.LifetimePartners(); ok {
			reply += fmt.Sprintf(" %d in my lifetime.", n)
		}
		return reply
	case nlu.IntentSexualFirstCoitus:
		if age, ok := sx.AgeOfFirstCoitus(); ok {
			return fmt.Sprintf("I was %d.", age)
		}
		return "I'd rather not say."
	case nlu.IntentSexualLastActivity:
		return either(sx.LastSexualActivity(), "%s.", "I don't remember.")
	case nlu.IntentSexualContraception:
		if methods := sx.Contraception(); len(methods) > 0 {
			return fmt.Sprintf("We use %s.", list(methods))
		}
		return "We don't use anything."
	}
	return ""
}

func answerGynecologic(c *patient.Case, sc *scope.Scope, r nlu.Result) string {
	gh := c.GynecologicHistory()
	if gh == nil && strings.HasPrefix(r.Intent.Label, "gyn.") {
		return ""
	}

	switch r.Intent.Label {
	case nlu.IntentLastMenstrualPeriod:
		return either(gh.LastMenstrualPeriod(), "My last period was %s.", "I don't remember.")
	case nlu.IntentMenarche:
		if age, ok := gh.AgeOfMenarche(); ok {
			return fmt.Sprintf("I was %d when I got my first period.", age)
		}
		return "I don't remember."
	case nlu.IntentCycles:
		return either(gh.Cycles(), "%s.", "They're normal.")
	case nlu.IntentPapSmears:
		return either(gh.PapSmears(), "%s.", "I've never had one.")
	case nlu.IntentBirthHistory:
		if dh := c.DevelopmentalHistory(); gh == nil && dh != nil && dh.Birth() != nil {
			sc.SwitchTo(scope.DevelopmentalHistory)
			b := dh.Birth()
			return fmt.Sprintf("I was born at %d weeks. %s", b.GestationalAge(), birthOutcome(b.Category()))
		}
		return sentence(c.BirthHistorySummary(sc))
	}

	b, own := resolveBirth(c, sc, r)
	if b == nil {
		return ""
	}
	switch r.Intent.Label {
	case nlu.IntentBirthMaternalAge:
		if own {
			return fmt.Sprintf("My mother was %d.", b.MaternalAge())
		}
		return fmt.Sprintf("I was %d.", b.MaternalAge())
	case nlu.IntentBirthGestationalAge:
		if own {
			return fmt.Sprintf("I was born at %d weeks.", b.GestationalAge())
		}
		return fmt.Sprintf("I was %d weeks along.", b.GestationalAge())
	case nlu.IntentBirthOutcome:
		return birthOutcome(b.Category())
	case nlu.IntentBirthGender:
		return either(b.Gender(), "It was a %s.", "The pregnancy didn't go to term.")
	case nlu.IntentBirthWeight:
		weight := b.BirthWeight()
		if len(weight) != 2 { //nolint:mnd // pounds and ounces
			return "I don't remember."
		}
		subject := capitalize(b.Pronoun())
		if own {
			subject = "I"
		}
		return fmt.Sprintf("%s weighed %d pounds %d ounces.", subject, weight[0], weight[1])
	case nlu.IntentBirthDelivery:
		return either(b.DeliveryMethod(), "The delivery was %s.", "The pregnancy didn't go to term.")
	case nlu.IntentBirthComplications:
		if complications := b.Complications(); len(complications) > 0 {
			return fmt.Sprintf("There was %s.", list(complications))
		}
		return "There were no complications."
	}
	return ""
}

// resolveBirth finds the pregnancy the turn refers to, or the patient's own birth in a pediatric case.
func resolveBirth(c *patient.Case, sc *scope.Scope, r nlu.Result) (*patient.Birth, bool) {
	if gh := c.GynecologicHistory(); gh != nil && len(gh.Births()) > 0 {
		referent, _ := r.First(nlu.KindOrdinal)
		if b := c.NavigateBirth(sc, referent); b != nil {
			return b, false
		}
		if births := gh.Births(); referent == "" && len(births) == 1 {
			sc.SwitchTo(scope.BirthHistory)
			sc.SetIndex(0)
			return births[0], false
		}
		return nil, false
	}
	if dh := c.DevelopmentalHistory(); dh != nil && dh.Birth() != nil {
		sc.SwitchTo(scope.DevelopmentalHistory)
		return dh.Birth(), true
	}
	return nil, false
}

func birthOutcome(category string) string {
	switch category {
	case patient.Delivered:
		return "The baby was delivered."
	case patient.Miscarriage:
		return "It was a miscarriage."
	case patient.Ectopic:
		return "It was an ectopic pregnancy."
	case patient.Abortion:
		return "It ended in an abortion."
	}
	return ""
}

func answerDevelopmental(c *patient.Case, sc *scope.Scope, intent string) string {
	dh := c.DevelopmentalHistory()
	if dh == nil {
		return ""
	}
	sc.SwitchTo(scope.DevelopmentalHistory)

	switch intent {
	case nlu.IntentDevelopment:
		return either(dh.Development(), "%s.", "Everything has been normal.")
	case nlu.IntentVaccinations:
		return either(dh.Vaccinations(), "%s.", "I'm not sure.")
	case nlu.IntentLastCheckup:
		return either(dh.LastCheckup(), "The last checkup was %s.", "I don't remember.")
	case nlu.IntentWetDiapers:
		if n, ok := dh.WetDiapers(); ok {
			return fmt.Sprintf("About %d a day.", n)
		}
		return "I haven't been counting."
	}
	return ""
}
