package main

import (
	"log/slog"
	"net/http"

	"github.com/myrjola/spbot/internal/errors"
	"github.com/myrjola/spbot/internal/models"
)

type categoriesResponse struct {
	Categories []string `json:"categories"`
}

type categoryCasesResponse struct {
	Category string                        `json:"category"`
	Cases    []models.ChiefComplaintOption `json:"cases"`
}

// categories lists the case categories the trainee can choose from.
func (app *application) categories(w http.ResponseWriter, r *http.Request) {
	categories, err := app.cases.Categories(r.Context())
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "list categories"))
		return
	}
	if categories == nil {
		categories = []string{}
	}
	app.writeJSON(w, r, http.StatusOK, categoriesResponse{Categories: categories})
}

// categoryCases lists the chief complaints of the cases in a category.
func (app *application) categoryCases(w http.ResponseWriter, r *http.Request) {
	category := r.PathValue("category")
	options, err := app.cases.ChiefComplaints(r.Context(), category)
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "list chief complaints", slog.String("category", category)))
		return
	}
	if len(options) == 0 {
		app.notFound(w, r, errors.New("empty category", slog.String("category", category)))
		return
	}
	app.writeJSON(w, r, http.StatusOK, categoryCasesResponse{Category: category, Cases: options})
}
