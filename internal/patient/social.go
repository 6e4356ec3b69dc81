package patient

import (
	"github.com/myrjola/spbot/internal/ledger"
	"github.com/myrjola/spbot/internal/models"
)

// Substance names that the recreational drug summary leaves out.
const (
	Alcohol = "alcohol"
	Tobacco = "cigarettes"
)

type SocialHistory struct {
	tracked
	rec        models.SocialHistoryRecord
	substances []*Substance
	travel     []*Travel
	sexual     *SexualHistory
}

func (c *Case) newSocialHistory(rec models.SocialHistoryRecord) *SocialHistory {
	sh := &SocialHistory{
		tracked:    c.track(ledger.Social, ledger.Singular),
		rec:        rec,
		substances: make([]*Substance, 0, len(rec.Substances)),
		travel:     make([]*Travel, 0, len(rec.Travel)),
		sexual:     nil,
	}
	sh.register("housing", "employment", "diet", "exercise")
	sh.registerIf(rec.SickContacts != nil, "sick contacts")
	sh.registerIf(rec.PPD != "", "PPD")

	for _, s := range rec.Substances {
		sh.substances = append(sh.substances, c.newSubstance(s))
	}
	for _, t := range rec.Travel {
		sh.travel = append(sh.travel, c.newTravel(t))
	}
	if rec.SexualHistory != nil {
		sh.sexual = c.newSexualHistory(*rec.SexualHistory)
	}
	return sh
}

// Housing is empty for a homeless patient.
func (sh *SocialHistory) Housing() string {
	sh.read("housing")
	return sh.rec.Housing
}

// Employment is empty for an unemployed patient.
func (sh *SocialHistory) Employment() string {
	sh.read("employment")
	return sh.rec.Employment
}

func (sh *SocialHistory) Diet() string {
	sh.readRequired("diet", sh.rec.Diet != "")
	return sh.rec.Diet
}

func (sh *SocialHistory) Exercise() string {
	sh.readRequired("exercise", sh.rec.Exercise != "")
	return sh.rec.Exercise
}

func (sh *SocialHistory) SickContacts() []string {
	sh.read("sick contacts")
	return sh.rec.SickContacts
}

func (sh *SocialHistory) PPD() string {
	sh.read("PPD")
	return sh.rec.PPD
}

func (sh *SocialHistory) Substances() []*Substance { return sh.substances }
func (sh *SocialHistory) Travel() []*Travel        { return sh.travel }

// SexualHistory is nil when the case has none.
func (sh *SocialHistory) SexualHistory() *SexualHistory { return sh.sexual }

type Substance struct {
	tracked
	rec models.SubstanceRecord
}

func (c *Case) newSubstance(rec models.SubstanceRecord) *Substance {
	s := &Substance{tracked: c.track(ledger.Substance, rec.Name), rec: rec}
	s.register("name")
	s.registerIf(rec.AgeOfFirstUse != nil, "age of first use")
	s.registerIf(rec.Amount != nil, "amount")
	s.registerIf(rec.LastUse != "", "time since last use")
	s.registerIf(rec.Duration != nil, "duration of use")
	return s
}

// Name is asked together with the status of use.
func (s *Substance) Name() string {
	s.read("name")
	return s.rec.Name
}

func (s *Substance) Status() string { return s.rec.Status }

func (s *Substance) AgeOfFirstUse() (int, bool) {
	s.read("age of first use")
	if s.rec.AgeOfFirstUse == nil {
		return 0, false
	}
	return *s.rec.AgeOfFirstUse, true
}

// Amount is how much is used and how often.
func (s *Substance) Amount() (models.QuantityRecord, bool) {
	s.read("amount")
	if s.rec.Amount == nil {
		return models.QuantityRecord{}, false
	}
	return *s.rec.Amount, true
}

func (s *Substance) LastUse() string {
	s.read("time since last use")
	return s.rec.LastUse
}

func (s *Substance) Duration() (models.QuantityRecord, bool) {
	s.read("duration of use")
	if s.rec.Duration == nil {
		return models.QuantityRecord{}, false
	}
	return *s.rec.Duration, true
}

type Travel struct {
	tracked
	rec models.TravelRecord
}

func (c *Case) newTravel(rec models.TravelRecord) *Travel {
	t := &Travel{tracked: c.track(ledger.Travel, rec.Location), rec: rec}
	t.register("location", "return date")
	return t
}

func (t *Travel) Location() string {
	t.read("location")
	return t.rec.Location
}

func (t *Travel) ReturnDate() string {
	t.readRequired("return date", t.rec.ReturnDate != "")
	return t.rec.ReturnDate
}

func (t *Travel) DepartureDate() string { return t.rec.DepartureDate }
func (t *Travel) Mode() string          { return t.rec.Mode }

type SexualHistory struct {
	tracked
	rec models.SexualHistoryRecord
}

func (c *Case) newSexualHistory(rec models.SexualHistoryRecord) *SexualHistory {
	sx := &SexualHistory{tracked: c.track(ledger.Sexual, ledger.Singular), rec: rec}
	sx.register("status", "partner type")
	sx.registerIf(rec.AgeOfFirstCoitus != nil, "age of first coitus")
	sx.register("number of current partners")
	sx.registerIf(rec.NumberOfPartners.PastYear != nil, "number of partners in past year")
	sx.registerIf(rec.NumberOfPartners.Lifetime != nil, "number of partners over lifetime")
	sx.registerIf(rec.LastSexualActivity != "", "date of last sexual activity")
	sx.registerIf(len(rec.Contraception) > 0, "contraception")
	return sx
}

func (sx *SexualHistory) Status() string {
	sx.readRequired("status", sx.rec.Status != "")
	return sx.rec.Status
}

func (sx *SexualHistory) PartnerType() string {
	sx.readRequired("partner type", sx.rec.PartnerType != "")
	return sx.rec.PartnerType
}

func (sx *SexualHistory) AgeOfFirstCoitus() (int, bool) {
	sx.read("age of first coitus")
	if sx.rec.AgeOfFirstCoitus == nil {
		return 0, false
	}
	return *sx.rec.AgeOfFirstCoitus, true
}

func (sx *SexualHistory) CurrentPartners() int {
	sx.read("number of current partners")
	return sx.rec.NumberOfPartners.Current
}

func (sx *SexualHistory) PartnersPastYear() (int, bool) {
	sx.read("number of partners in past year")
	if sx.rec.NumberOfPartners.PastYear == nil {
		return 0, false
	}
	return *sx.rec.NumberOfPartners.PastYear, true
}

func (sx *SexualHistory) LifetimePartners() (int, bool) {
	sx.read("number of partners over lifetime")
	if sx.rec.NumberOfPartners.Lifetime == nil {
		return 0, false
	}
	return *sx.rec.NumberOfPartners.Lifetime, true
}

func (sx *SexualHistory) LastSexualActivity() string {
	sx.read("date of last sexual activity")
	return sx.rec.LastSexualActivity
}

func (sx *SexualHistory) Contraception() []string {
	sx.read("contraception")
	return sx.rec.Contraception
}
