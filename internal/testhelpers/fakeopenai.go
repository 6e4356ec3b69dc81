package testhelpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
)

// NewFakeOpenAI serves chat completions whose content is respond(utterance), where utterance is the last message of
// the request. Point a client's BaseURL to the returned server's URL.
func NewFakeOpenAI(t testing.TB, respond func(utterance string) string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}
		var req openai.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Messages) == 0 {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		utterance := req.Messages[len(req.Messages)-1].Content
		resp := openai.ChatCompletionResponse{ //nolint:exhaustruct // only the fields the client reads.
			ID:    "chatcmpl-test",
			Model: req.Model,
			Choices: []openai.ChatCompletionChoice{{ //nolint:exhaustruct // only the fields the client reads.
				Index: 0,
				Message: openai.ChatCompletionMessage{ //nolint:exhaustruct // only the fields the client reads.
					Role:    openai.ChatMessageRoleAssistant,
					Content: respond(utterance),
				},
				FinishReason: openai.FinishReasonStop,
			}},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}
