package main

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/myrjola/spbot/internal/encounter"
	"github.com/myrjola/spbot/internal/errors"
	"github.com/myrjola/spbot/internal/logging"
	"github.com/myrjola/spbot/internal/patient"
	"github.com/myrjola/spbot/internal/random"
)

var errNoCases = errors.NewSentinel("no cases to choose from")

type startEncounterRequest struct {
	// ConversationID is generated when empty.
	ConversationID string `json:"conversation_id"`
	// CaseID selects the case. Otherwise a random case of Category, or of all cases when Category is empty, is used.
	CaseID   string `json:"case_id"`
	Category string `json:"category"`
}

type messageRequest struct {
	ConversationID string `json:"conversation_id"`
	Text           string `json:"text"`
	// Value is the value of the selected card action.
	Value string `json:"value"`
}

type turnResponse struct {
	ConversationID string  `json:"conversation_id"`
	CaseID         string  `json:"case_id"`
	Stage          string  `json:"stage"`
	Replies        []reply `json:"replies"`
}

func (app *application) startEncounter(w http.ResponseWriter, r *http.Request) {
	var req startEncounterRequest
	if !app.readJSON(w, r, &req) {
		return
	}
	if req.ConversationID == "" {
		req.ConversationID = uuid.NewString()
	}
	ctx := logging.WithConversation(r.Context(), req.ConversationID)
	r = r.WithContext(ctx)

	caseID, err := app.pickCase(ctx, req)
	if errors.Is(err, errNoCases) {
		app.notFound(w, r, err)
		return
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	unblock, ok := app.block(w, r, req.ConversationID)
	if !ok {
		return
	}
	defer unblock()

	c, err := patient.Load(ctx, app.cases, caseID, app.index, app.logger)
	if errors.Is(err, patient.ErrCaseNotFound) {
		app.notFound(w, r, err)
		return
	}
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "load case"))
		return
	}
	if err = app.conversations.SetCase(ctx, req.ConversationID, caseID); err != nil {
		app.serverError(w, r, errors.Wrap(err, "record case"))
		return
	}

	sess := &encounter.Session{ConversationID: req.ConversationID, Case: c, Stage: encounter.StageInterview}
	var replies replyCollector
	if err = app.encounters.Start(ctx, sess, &replies); err != nil {
		app.serverError(w, r, errors.Wrap(err, "start encounter"))
		return
	}
	app.sessions.put(sess)

	app.writeJSON(w, r, http.StatusCreated, turnResponse{
		ConversationID: sess.ConversationID,
		CaseID:         caseID,
		Stage:          sess.Stage.String(),
		Replies:        replies.Replies(),
	})
}

func (app *application) pickCase(ctx context.Context, req startEncounterRequest) (string, error) {
	if req.CaseID != "" {
		return req.CaseID, nil
	}

	var (
		ids []string
		err error
	)
	if req.Category != "" {
		ids, err = app.cases.CaseIDs(ctx, req.Category)
	} else {
		ids, err = app.cases.AllCaseIDs(ctx)
	}
	if err != nil {
		return "", errors.Wrap(err, "list case ids", slog.String("category", req.Category))
	}
	if len(ids) == 0 {
		return "", errors.Wrap(errNoCases, "pick case", slog.String("category", req.Category))
	}
	return random.Pick(ids)
}

func (app *application) postMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if !app.readJSON(w, r, &req) {
		return
	}
	if req.ConversationID == "" {
		app.clientError(w, r, http.StatusBadRequest, errors.New("missing conversation_id"))
		return
	}
	ctx := logging.WithConversation(r.Context(), req.ConversationID)
	r = r.WithContext(ctx)

	if _, ok := app.sessions.get(req.ConversationID); !ok {
		app.notFound(w, r, errors.New("no encounter in progress"))
		return
	}

	unblock, ok := app.block(w, r, req.ConversationID)
	if !ok {
		return
	}
	defer unblock()

	// A concurrent start may have replaced the encounter before the block was held.
	sess, ok := app.sessions.get(req.ConversationID)
	if !ok {
		app.notFound(w, r, errors.New("no encounter in progress"))
		return
	}

	var replies replyCollector
	if err := app.encounters.Handle(ctx, sess, encounter.Message{Text: req.Text, Value: req.Value}, &replies); err != nil {
		app.serverError(w, r, errors.Wrap(err, "handle message"))
		return
	}

	app.writeJSON(w, r, http.StatusOK, turnResponse{
		ConversationID: sess.ConversationID,
		CaseID:         sess.Case.ID(),
		Stage:          sess.Stage.String(),
		Replies:        replies.Replies(),
	})
}

// block marks the conversation busy for the duration of a turn. A conversation that is already busy gets
// 409 Conflict.
func (app *application) block(w http.ResponseWriter, r *http.Request, conversationID string) (func(), bool) {
	ctx := r.Context()
	acquired, err := app.blocker.TryBlock(ctx, conversationID)
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "block conversation"))
		return nil, false
	}
	if !acquired {
		app.clientError(w, r, http.StatusConflict, errors.New("conversation is busy"))
		return nil, false
	}
	return func() {
		if unblockErr := app.blocker.Unblock(context.WithoutCancel(ctx), conversationID); unblockErr != nil {
			app.logger.LogAttrs(ctx, slog.LevelError, "unblock conversation", errors.SlogError(unblockErr))
		}
	}, true
}
