package main

import (
	"net/http"

	"github.com/myrjola/spbot/internal/errors"
	"github.com/myrjola/spbot/internal/repositories"
)

// report shows operators the feedback and issues of a conversation.
func (app *application) report(w http.ResponseWriter, r *http.Request) {
	conv, err := app.conversations.Get(r.Context(), r.PathValue("conversationID"))
	if errors.Is(err, repositories.ErrConversationNotFound) {
		app.notFound(w, r, err)
		return
	}
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "get conversation"))
		return
	}
	app.render(w, r, http.StatusOK, app.reportPage, conv)
}
