// Package mongostore reads case scripts and synonym tables from MongoDB, in the collections the case authoring tools
// write to.
package mongostore

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"slices"
	"strings"

	"github.com/myrjola/spbot/internal/errors"
	"github.com/myrjola/spbot/internal/models"
	"github.com/myrjola/spbot/internal/synonyms"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// casesCollection holds one document per case keyed by the case id.
const casesCollection = "ids"

type Store struct {
	client *mongo.Client
	db     *mongo.Database
	logger *slog.Logger
}

// Connect opens a client for uri and verifies the connection.
func Connect(ctx context.Context, uri string, dbName string, logger *slog.Logger) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "connect mongo")
	}
	if err = client.Ping(ctx, nil); err != nil {
		return nil, errors.Wrap(err, "ping mongo")
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "connected to mongo", slog.String("database", dbName))
	return &Store{
		client: client,
		db:     client.Database(dbName),
		logger: logger.With("source", "MongoStore"),
	}, nil
}

func (s *Store) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return errors.Wrap(err, "disconnect mongo")
	}
	return nil
}

func (s *Store) cases() *mongo.Collection {
	return s.db.Collection(casesCollection)
}

// FindCases returns every case document with the given id.
func (s *Store) FindCases(ctx context.Context, id string) ([]models.CaseRecord, error) {
	cursor, err := s.cases().Find(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, errors.Wrap(err, "find cases", slog.String("case_id", id))
	}
	var documents []bson.M
	if err = cursor.All(ctx, &documents); err != nil {
		return nil, errors.Wrap(err, "iterate cases", slog.String("case_id", id))
	}
	records := make([]models.CaseRecord, 0, len(documents))
	for _, document := range documents {
		rec, decodeErr := decodeCase(document)
		if decodeErr != nil {
			return nil, errors.Wrap(decodeErr, "decode case", slog.String("case_id", id))
		}
		records = append(records, rec)
	}
	return records, nil
}

// decodeCase converts a case document to a record through relaxed extended JSON.
//
// The mongo shell stores every number as a double, so integral doubles are converted to integers first. Relaxed
// extended JSON renders a double 7 as 7.0, which does not fit the integer fields of the record.
func decodeCase(document bson.M) (models.CaseRecord, error) {
	var rec models.CaseRecord
	id, ok := document["_id"].(string)
	if !ok {
		return rec, errors.New("case id is not a string")
	}
	delete(document, "_id")
	document["id"] = id
	data, err := bson.MarshalExtJSON(integralDoubles(document), false, false)
	if err != nil {
		return rec, errors.Wrap(err, "marshal extended json")
	}
	if err = json.Unmarshal(data, &rec); err != nil {
		return rec, errors.Wrap(err, "unmarshal case")
	}
	return rec, nil
}

// integralDoubles returns v with every integral double replaced by an int64.
func integralDoubles(v any) any {
	switch t := v.(type) {
	case float64:
		if t == math.Trunc(t) && math.Abs(t) <= math.MaxInt32 {
			return int64(t)
		}
		return t
	case bson.M:
		for k, e := range t {
			t[k] = integralDoubles(e)
		}
		return t
	case map[string]any:
		for k, e := range t {
			t[k] = integralDoubles(e)
		}
		return t
	case bson.D:
		for i := range t {
			t[i].Value = integralDoubles(t[i].Value)
		}
		return t
	case bson.A:
		for i := range t {
			t[i] = integralDoubles(t[i])
		}
		return t
	case []any:
		for i := range t {
			t[i] = integralDoubles(t[i])
		}
		return t
	}
	return v
}

// encodeCase is the inverse of decodeCase. Integral JSON numbers become BSON integers.
func encodeCase(rec models.CaseRecord) (bson.M, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, errors.Wrap(err, "marshal case")
	}
	var document bson.M
	if err = bson.UnmarshalExtJSON(data, false, &document); err != nil {
		return nil, errors.Wrap(err, "unmarshal extended json")
	}
	delete(document, "id")
	document["_id"] = rec.ID
	return document, nil
}

func (s *Store) Categories(ctx context.Context) ([]string, error) {
	values, err := s.cases().Distinct(ctx, "category", bson.D{})
	if err != nil {
		return nil, errors.Wrap(err, "distinct categories")
	}
	categories := make([]string, 0, len(values))
	for _, v := range values {
		if category, ok := v.(string); ok {
			categories = append(categories, category)
		}
	}
	slices.Sort(categories)
	return categories, nil
}

func (s *Store) ChiefComplaints(ctx context.Context, category string) ([]models.ChiefComplaintOption, error) {
	opts := options.Find().
		SetProjection(bson.M{"chief_complaint.label": 1}).
		SetSort(bson.D{{Key: "chief_complaint.label", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.cases().Find(ctx, bson.M{"category": category}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "find chief complaints", slog.String("category", category))
	}
	var documents []struct {
		ID             string `bson:"_id"`
		ChiefComplaint struct {
			Label string `bson:"label"`
		} `bson:"chief_complaint"`
	}
	if err = cursor.All(ctx, &documents); err != nil {
		return nil, errors.Wrap(err, "iterate chief complaints", slog.String("category", category))
	}
	complaints := make([]models.ChiefComplaintOption, 0, len(documents))
	for _, d := range documents {
		complaints = append(complaints, models.ChiefComplaintOption{ChiefComplaint: d.ChiefComplaint.Label, CaseID: d.ID})
	}
	return complaints, nil
}

func (s *Store) CaseIDs(ctx context.Context, category string) ([]string, error) {
	return s.caseIDs(ctx, bson.M{"category": category})
}

func (s *Store) AllCaseIDs(ctx context.Context) ([]string, error) {
	return s.caseIDs(ctx, bson.M{})
}

func (s *Store) caseIDs(ctx context.Context, filter bson.M) ([]string, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1}).SetSort(bson.M{"_id": 1})
	cursor, err := s.cases().Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrap(err, "find case ids")
	}
	var documents []struct {
		ID string `bson:"_id"`
	}
	if err = cursor.All(ctx, &documents); err != nil {
		return nil, errors.Wrap(err, "iterate case ids")
	}
	ids := make([]string, 0, len(documents))
	for _, d := range documents {
		ids = append(ids, d.ID)
	}
	return ids, nil
}

// Upsert stores rec, replacing any case with the same id.
func (s *Store) Upsert(ctx context.Context, rec models.CaseRecord) error {
	document, err := encodeCase(rec)
	if err != nil {
		return err
	}
	if _, err = s.cases().ReplaceOne(ctx, bson.M{"_id": rec.ID}, document, options.Replace().SetUpsert(true)); err != nil {
		return errors.Wrap(err, "replace case", slog.String("case_id", rec.ID))
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "stored case", slog.String("case_id", rec.ID))
	return nil
}

// FindSynonyms returns the lowercase terms of every synonym document listing term.
func (s *Store) FindSynonyms(ctx context.Context, kind synonyms.Kind, term string) ([]string, error) {
	field := kind.Field()
	opts := options.Find().SetProjection(bson.M{"_id": 0, field: 1})
	cursor, err := s.db.Collection(kind.Collection()).Find(ctx,
		bson.M{field: bson.M{"$in": bson.A{strings.ToLower(term)}}}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "find synonyms", slog.String("kind", string(kind)))
	}
	var documents []bson.M
	if err = cursor.All(ctx, &documents); err != nil {
		return nil, errors.Wrap(err, "iterate synonyms", slog.String("kind", string(kind)))
	}
	var terms []string
	for _, document := range documents {
		group, ok := document[field].(bson.A)
		if !ok {
			continue
		}
		for _, v := range group {
			if t, isString := v.(string); isString && !slices.Contains(terms, strings.ToLower(t)) {
				terms = append(terms, strings.ToLower(t))
			}
		}
	}
	return terms, nil
}

// Import replaces the synonym documents of kind with one document per group.
func (s *Store) Import(ctx context.Context, kind synonyms.Kind, groups [][]string) error {
	collection := s.db.Collection(kind.Collection())
	if _, err := collection.DeleteMany(ctx, bson.M{}); err != nil {
		return errors.Wrap(err, "delete synonyms", slog.String("kind", string(kind)))
	}
	if len(groups) == 0 {
		return nil
	}
	documents := make([]any, 0, len(groups))
	for _, group := range groups {
		terms := make(bson.A, 0, len(group))
		for _, term := range group {
			if term = strings.ToLower(strings.TrimSpace(term)); term != "" {
				terms = append(terms, term)
			}
		}
		documents = append(documents, bson.M{kind.Field(): terms})
	}
	if _, err := collection.InsertMany(ctx, documents); err != nil {
		return errors.Wrap(err, "insert synonyms", slog.String("kind", string(kind)))
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "imported synonyms",
		slog.String("kind", string(kind)), slog.Int("groups", len(groups)))
	return nil
}

// Drop deletes the database of the store.
func (s *Store) Drop(ctx context.Context) error {
	if err := s.db.Drop(ctx); err != nil {
		return errors.Wrap(err, "drop database")
	}
	return nil
}
