// Package synonyms maps domain terms to the spellings that count as the same concept.
package synonyms

import (
	"context"
	"log/slog"
	"strings"

	"github.com/myrjola/spbot/internal/errors"
)

// Kind selects the reference vocabulary a term is looked up in.
type Kind string

const (
	Symptom      Kind = "symptom"
	Disease      Kind = "disease"
	Surgery      Kind = "surgery"
	Medication   Kind = "medication"
	Allergy      Kind = "allergy"
	Relationship Kind = "relationship"
	Substance    Kind = "substance"
)

var ErrUnknownKind = errors.NewSentinel("unknown synonym kind")

type reference struct {
	collection string
	field      string
}

var references = map[Kind]reference{
	Symptom:      {collection: "symptoms", field: "symptom"},
	Disease:      {collection: "diseases", field: "diagnosis"},
	Surgery:      {collection: "surgeries", field: "type"},
	Medication:   {collection: "medications", field: "name"},
	Allergy:      {collection: "allergies", field: "allergen"},
	Relationship: {collection: "relationships", field: "relationship"},
	Substance:    {collection: "substances", field: "name"},
}

// Kinds lists every synonym kind.
func Kinds() []Kind {
	return []Kind{Symptom, Disease, Surgery, Medication, Allergy, Relationship, Substance}
}

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(s))
	if _, ok := references[k]; !ok {
		return "", errors.Wrap(ErrUnknownKind, "parse kind", slog.String("kind", s))
	}
	return k, nil
}

// Collection is the name of the reference collection holding the kind's records.
func (k Kind) Collection() string {
	return references[k].collection
}

// Field is the canonical array field of the kind's reference records.
func (k Kind) Field() string {
	return references[k].field
}

// Store finds every spelling that shares a reference record with term.
type Store interface {
	FindSynonyms(ctx context.Context, kind Kind, term string) ([]string, error)
}

// Set is a set of lowercase spellings.
type Set map[string]struct{}

// Contains reports whether s is in the set. The check is case-insensitive.
func (s Set) Contains(term string) bool {
	_, ok := s[strings.ToLower(term)]
	return ok
}

// Index answers equivalence questions using a [Store].
type Index struct {
	store  Store
	logger *slog.Logger
}

func NewIndex(store Store, logger *slog.Logger) *Index {
	return &Index{
		store:  store,
		logger: logger,
	}
}

// Equivalents returns the lowercase synonyms of term, always including term itself.
//
// A failing store is logged and degrades to the term alone.
func (i *Index) Equivalents(ctx context.Context, kind Kind, term string) Set {
	term = strings.ToLower(strings.TrimSpace(term))
	set := Set{term: {}}
	if term == "" {
		return set
	}

	found, err := i.store.FindSynonyms(ctx, kind, term)
	if err != nil {
		i.logger.LogAttrs(ctx, slog.LevelWarn, "synonym lookup failed",
			slog.String("kind", string(kind)), slog.String("term", term), errors.SlogError(err))
		return set
	}
	for _, s := range found {
		set[strings.ToLower(s)] = struct{}{}
	}
	return set
}

// Match reports whether candidate is an accepted spelling of term.
func (i *Index) Match(ctx context.Context, kind Kind, term string, candidate string) bool {
	return i.Equivalents(ctx, kind, term).Contains(strings.TrimSpace(candidate))
}
