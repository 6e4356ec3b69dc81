package patient

import (
	"fmt"
	"slices"

	"github.com/myrjola/spbot/internal/ledger"
	"github.com/myrjola/spbot/internal/models"
)

// Birth categories.
const (
	Abortion    = "abortion"
	Delivered   = "delivered"
	Ectopic     = "ectopic"
	Miscarriage = "miscarriage"
)

const (
	Boy  = "boy"
	Girl = "girl"
)

type GynecologicHistory struct {
	tracked
	rec    models.GynecologicHistoryRecord
	births []*Birth
}

func (c *Case) newGynecologicHistory(rec models.GynecologicHistoryRecord) *GynecologicHistory {
	gh := &GynecologicHistory{
		tracked: c.track(ledger.Gynecologic, ledger.Singular),
		rec:     rec,
		births:  make([]*Birth, 0, len(rec.BirthHistory)),
	}
	gh.register("last menstrual period", "menarche (age)", "menstrual cycles (description)", "pap smears")
	for i, b := range rec.BirthHistory {
		gh.births = append(gh.births, c.newBirth(b, fmt.Sprintf("pregnancy %d", i+1)))
	}
	return gh
}

func (gh *GynecologicHistory) LastMenstrualPeriod() string {
	gh.readRequired("last menstrual period", gh.rec.LastMenstrualPeriod != "")
	return gh.rec.LastMenstrualPeriod
}

func (gh *GynecologicHistory) AgeOfMenarche() (int, bool) {
	gh.readRequired("menarche (age)", gh.rec.AgeOfMenarche != nil)
	if gh.rec.AgeOfMenarche == nil {
		return 0, false
	}
	return *gh.rec.AgeOfMenarche, true
}

func (gh *GynecologicHistory) Cycles() string {
	gh.readRequired("menstrual cycles (description)", gh.rec.Cycles != "")
	return gh.rec.Cycles
}

func (gh *GynecologicHistory) PapSmears() string {
	gh.readRequired("pap smears", gh.rec.PapSmears != "")
	return gh.rec.PapSmears
}

// Births lists the pregnancies in chronological order.
func (gh *GynecologicHistory) Births() []*Birth { return gh.births }

// Birth is a pregnancy of the patient, or the birth of a pediatric patient.
type Birth struct {
	tracked
	rec    models.BirthRecord
	gender string
}

func (c *Case) newBirth(rec models.BirthRecord, owner string) *Birth {
	b := &Birth{tracked: c.track(ledger.Birth, owner), rec: rec, gender: Girl}
	if rec.Gender == "male" {
		b.gender = Boy
	}
	b.register("maternal age", "gestational age", "category (e.g. delivered vs. ectopic)")
	if rec.Category == Delivered {
		b.register("gender", "birth weight", "delivery method (NSVD vs. C-Section)")
	} else {
		b.gender = ""
		b.rec.BirthWeight = nil
		b.rec.DeliveryMethod = ""
	}
	b.registerIf(len(rec.Complications) > 0, "complications")
	b.registerIf(rec.Indication != "", "indication")
	b.registerIf(rec.Management != "", "management")
	return b
}

func (b *Birth) MaternalAge() int {
	b.read("maternal age")
	return b.rec.MaternalAge
}

// GestationalAge is in weeks.
func (b *Birth) GestationalAge() int {
	b.read("gestational age")
	return b.rec.GestationalAge
}

func (b *Birth) Category() string {
	b.read("category (e.g. delivered vs. ectopic)")
	return b.rec.Category
}

// Gender is empty unless the baby was delivered.
func (b *Birth) Gender() string {
	b.read("gender")
	return b.gender
}

// BirthWeight is pounds and ounces.
func (b *Birth) BirthWeight() []int {
	b.read("birth weight")
	return slices.Clone(b.rec.BirthWeight)
}

func (b *Birth) DeliveryMethod() string {
	b.read("delivery method (NSVD vs. C-Section)")
	return b.rec.DeliveryMethod
}

func (b *Birth) Complications() []string {
	b.read("complications")
	return b.rec.Complications
}

func (b *Birth) Indication() string {
	b.read("indication")
	return b.rec.Indication
}

func (b *Birth) Management() string {
	b.read("management")
	return b.rec.Management
}

func (b *Birth) Pronoun() string {
	if b.gender == Boy {
		return "he"
	}
	return "she"
}

type DevelopmentalHistory struct {
	tracked
	rec   models.DevelopmentalHistoryRecord
	birth *Birth
}

func (c *Case) newDevelopmentalHistory(rec models.DevelopmentalHistoryRecord) *DevelopmentalHistory {
	dh := &DevelopmentalHistory{
		tracked: c.track(ledger.Developmental, ledger.Singular),
		rec:     rec,
		birth:   nil,
	}
	if rec.BirthHistory != nil {
		dh.birth = c.newBirth(*rec.BirthHistory, "birth")
	}
	dh.register("development", "vaccination status", "last checkup")
	dh.registerIf(rec.WetDiapers != nil, "number of wet diapers")
	return dh
}

// Birth is the birth of the pediatric patient, or nil.
func (dh *DevelopmentalHistory) Birth() *Birth { return dh.birth }

func (dh *DevelopmentalHistory) Development() string {
	dh.readRequired("development", dh.rec.Development != "")
	return dh.rec.Development
}

func (dh *DevelopmentalHistory) Vaccinations() string {
	dh.readRequired("vaccination status", dh.rec.Vaccinations != "")
	return dh.rec.Vaccinations
}

func (dh *DevelopmentalHistory) LastCheckup() string {
	dh.readRequired("last checkup", dh.rec.LastCheckup != "")
	return dh.rec.LastCheckup
}

func (dh *DevelopmentalHistory) WetDiapers() (int, bool) {
	dh.read("number of wet diapers")
	if dh.rec.WetDiapers == nil {
		return 0, false
	}
	return *dh.rec.WetDiapers, true
}
