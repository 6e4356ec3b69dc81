package e2etest_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/myrjola/spbot/internal/e2etest"
	"github.com/stretchr/testify/require"
)

const secret = "smoke-secret"

// newBot fakes the bot API, checking the bearer token the way the service does.
func newBot(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/healthy", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	authenticated := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get("Authorization")[len("Bearer "):]
			token, err := jwt.Parse(raw, func(*jwt.Token) (any, error) { return []byte(secret), nil },
				jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !token.Valid {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next(w, r)
		}
	}
	mux.HandleFunc("GET /api/categories", authenticated(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"categories":["cardiology"]}`))
	}))
	mux.HandleFunc("POST /api/encounters", authenticated(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"conversation_id":"` + req["conversation_id"] + `","case_id":"chest-pain-01",` +
			`"stage":"interview","replies":[{"type":"text","text":"Your patient is John Smith"}]}`))
	}))
	mux.HandleFunc("POST /api/messages", authenticated(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req["value"] == "0" {
			http.Error(w, "Conflict", http.StatusConflict)
			return
		}
		_, _ = w.Write([]byte(`{"conversation_id":"c1","case_id":"chest-pain-01","stage":"interview",` +
			`"replies":[{"type":"text","text":"echo: ` + req["text"] + `"}]}`))
	}))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient(t *testing.T) {
	ctx := context.Background()
	srv := newBot(t)

	client, err := e2etest.NewClient(srv.URL, secret, "smoke")
	require.NoError(t, err)
	require.NoError(t, client.WaitForReady(ctx, "/api/healthy"))

	categories, err := client.Categories(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"cardiology"}, categories)

	turn, err := client.StartEncounter(ctx, "c1", "cardiology")
	require.NoError(t, err)
	require.Equal(t, "chest-pain-01", turn.CaseID)
	require.Equal(t, []string{"Your patient is John Smith"}, turn.Texts())

	turn, err = client.Say(ctx, "c1", "hello")
	require.NoError(t, err)
	require.Equal(t, []string{"echo: hello"}, turn.Texts())

	_, err = client.Select(ctx, "c1", "0")
	var statusErr *e2etest.StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusConflict, statusErr.Status)

	wrong, err := e2etest.NewClient(srv.URL, "wrong", "smoke")
	require.NoError(t, err)
	_, err = wrong.Categories(ctx)
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusUnauthorized, statusErr.Status)
}
