package main

import (
	"net/http"
	"time"

	"github.com/justinas/alice"
)

func (app *application) routes(defaultTimeout time.Duration) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/healthy", app.healthy)

	bot := alice.New(app.authenticate, app.requireAuthentication)

	mux.Handle("GET /api/categories", bot.ThenFunc(app.categories))
	mux.Handle("GET /api/categories/{category}/cases", bot.ThenFunc(app.categoryCases))
	mux.Handle("POST /api/encounters", bot.ThenFunc(app.startEncounter))
	mux.Handle("POST /api/messages", bot.ThenFunc(app.postMessage))
	mux.Handle("GET /reports/{conversationID}", bot.ThenFunc(app.report))

	common := alice.New(app.recoverPanic, app.logRequest, app.secureHeaders, noStore)
	return common.Then(timeoutHandler(mux, defaultTimeout))
}
