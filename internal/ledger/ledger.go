// Package ledger tracks which history questions of a patient case have not been asked yet.
package ledger

import "slices"

// SectionKind tags every history node with the ledger section its fields are tracked under.
type SectionKind int

const (
	Symptom SectionKind = iota
	ReviewOfSystems
	Disease
	Surgery
	Medication
	Allergy
	FamilyMember
	Social
	Substance
	Travel
	Sexual
	Gynecologic
	Birth
	Developmental
)

var sectionTags = [...]string{
	Symptom:         "symptom",
	ReviewOfSystems: "ROS",
	Disease:         "disease",
	Surgery:         "surgery",
	Medication:      "med",
	Allergy:         "allergy",
	FamilyMember:    "fm",
	Social:          "social",
	Substance:       "substance",
	Travel:          "travel",
	Sexual:          "sexual",
	Gynecologic:     "gynecologic",
	Birth:           "birth",
	Developmental:   "developmental",
}

func (k SectionKind) String() string {
	if k < 0 || int(k) >= len(sectionTags) {
		return "unknown"
	}
	return sectionTags[k]
}

// Singular is the owner label of fields that belong to a one-of-a-kind section such as the social history.
const Singular = ""

// Entry is a pending (section, field) pair together with the owners that still have it unread.
//
// An entry without owners is a singular field that has not been asked.
type Entry struct {
	Kind   SectionKind
	Field  string
	Owners []string
}

type key struct {
	kind  SectionKind
	field string
	owner string
}

type fieldEntry struct {
	name   string
	owners []string
}

// Ledger records which fields of a case are still unread.
//
// A Ledger is not safe for concurrent use.
type Ledger struct {
	total      int
	registered map[key]struct{}
	kinds      []SectionKind
	fields     map[SectionKind][]*fieldEntry
}

// New returns an empty Ledger.
func New() *Ledger {
	return &Ledger{
		total:      0,
		registered: make(map[key]struct{}),
		kinds:      nil,
		fields:     make(map[SectionKind][]*fieldEntry),
	}
}

// Register counts the question (kind, field, owner) once and tracks it as unread.
func (l *Ledger) Register(kind SectionKind, field string, owner string) {
	k := key{kind: kind, field: field, owner: owner}
	if _, ok := l.registered[k]; ok {
		return
	}
	l.registered[k] = struct{}{}
	l.total++

	if !slices.Contains(l.kinds, kind) {
		l.kinds = append(l.kinds, kind)
	}
	entry := l.find(kind, field)
	if entry == nil {
		entry = &fieldEntry{name: field, owners: nil}
		l.fields[kind] = append(l.fields[kind], entry)
	}
	if owner != Singular && !slices.Contains(entry.owners, owner) {
		entry.owners = append(entry.owners, owner)
	}
}

// MarkRead records that the question (kind, field, owner) was asked.
//
// A singular read removes the field only when no owner is pending for it. Reads of untracked questions are ignored.
func (l *Ledger) MarkRead(kind SectionKind, field string, owner string) {
	entry := l.find(kind, field)
	if entry == nil {
		return
	}
	if owner == Singular {
		if len(entry.owners) == 0 {
			l.remove(kind, field)
		}
		return
	}
	idx := slices.Index(entry.owners, owner)
	if idx == -1 {
		return
	}
	entry.owners = slices.Delete(entry.owners, idx, idx+1)
	if len(entry.owners) == 0 {
		l.remove(kind, field)
	}
}

// Pending reports whether the question (kind, field, owner) is still unread.
func (l *Ledger) Pending(kind SectionKind, field string, owner string) bool {
	entry := l.find(kind, field)
	if entry == nil {
		return false
	}
	if owner == Singular {
		return len(entry.owners) == 0
	}
	return slices.Contains(entry.owners, owner)
}

// Total is the number of registered questions.
func (l *Ledger) Total() int {
	return l.total
}

// Unread is the number of questions not asked yet. An ownerless entry counts as one.
func (l *Ledger) Unread() int {
	unread := 0
	for _, kind := range l.kinds {
		for _, entry := range l.fields[kind] {
			unread += max(len(entry.owners), 1)
		}
	}
	return unread
}

// Entries lists the unread entries in registration order.
func (l *Ledger) Entries() []Entry {
	var entries []Entry
	for _, kind := range l.kinds {
		for _, entry := range l.fields[kind] {
			entries = append(entries, Entry{
				Kind:   kind,
				Field:  entry.name,
				Owners: slices.Clone(entry.owners),
			})
		}
	}
	return entries
}

func (l *Ledger) find(kind SectionKind, field string) *fieldEntry {
	for _, entry := range l.fields[kind] {
		if entry.name == field {
			return entry
		}
	}
	return nil
}

func (l *Ledger) remove(kind SectionKind, field string) {
	l.fields[kind] = slices.DeleteFunc(l.fields[kind], func(entry *fieldEntry) bool {
		return entry.name == field
	})
}
