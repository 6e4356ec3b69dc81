package main

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// respondByKeyword is a fake NLU model that understands a handful of interview questions.
func respondByKeyword(utterance string) string {
	u := strings.ToLower(utterance)
	switch {
	case strings.Contains(u, "when"):
		return `{"intent":"hpi.onset","confidence":0.93,"entities":[]}`
	case strings.Contains(u, "spread"):
		return `{"intent":"hpi.radiation","confidence":0.88,"entities":[]}`
	case strings.Contains(u, "name"):
		return `{"intent":"demographics.name","confidence":0.97,"entities":[]}`
	}
	return `{"intent":"none","confidence":0.2,"entities":[]}`
}

func Test_healthy(t *testing.T) {
	server := startTestServer(t, io.Discard, respondByKeyword)

	resp, err := server.client.Get(server.url + "/api/healthy")
	require.NoError(t, err)
	defer func() {
		require.NoError(t, resp.Body.Close())
	}()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.JSONEq(t, `{"status":"ok"}`, string(body))
}

func Test_authentication(t *testing.T) {
	server := startTestServer(t, io.Discard, respondByKeyword)

	tests := []struct {
		name  string
		token string
	}{
		{name: "missing token", token: ""},
		{name: "wrong secret", token: signToken(t, "not-the-secret", "intruder")},
		{name: "garbage", token: "not.a.jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, server.url+"/api/categories", nil)
			require.NoError(t, err)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			resp, err := server.client.Do(req)
			require.NoError(t, err)
			require.NoError(t, resp.Body.Close())
			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			require.Contains(t, resp.Header.Get("WWW-Authenticate"), "Bearer")
		})
	}
}

func Test_catalog(t *testing.T) {
	server := startTestServer(t, io.Discard, respondByKeyword)

	var categories struct {
		Categories []string `json:"categories"`
	}
	server.DoJSON(t, http.MethodGet, "/api/categories", nil, http.StatusOK, &categories)
	require.Contains(t, categories.Categories, "cardiology")

	var cases struct {
		Category string `json:"category"`
		Cases    []struct {
			ChiefComplaint string `json:"chief_complaint"`
			CaseID         string `json:"case_id"`
		} `json:"cases"`
	}
	server.DoJSON(t, http.MethodGet, "/api/categories/cardiology/cases", nil, http.StatusOK, &cases)
	require.Equal(t, "cardiology", cases.Category)
	require.NotEmpty(t, cases.Cases)
	found := false
	for _, c := range cases.Cases {
		if c.CaseID == "chest-pain-01" {
			require.Equal(t, "chest pain", c.ChiefComplaint)
			found = true
		}
	}
	require.True(t, found, "chest-pain-01 not listed")

	server.DoJSON(t, http.MethodGet, "/api/categories/dermatology-nonexistent/cases", nil, http.StatusNotFound, nil)
}

type testTurn struct {
	ConversationID string `json:"conversation_id"`
	CaseID         string `json:"case_id"`
	Stage          string `json:"stage"`
	Replies        []struct {
		Type    string   `json:"type"`
		Text    string   `json:"text"`
		Body    []string `json:"body"`
		Actions []struct {
			Title string   `json:"title"`
			Value string   `json:"value"`
			Body  []string `json:"body"`
		} `json:"actions"`
	} `json:"replies"`
}

func (turn testTurn) texts() []string {
	var texts []string
	for _, r := range turn.Replies {
		if r.Type == "text" {
			texts = append(texts, r.Text)
		}
	}
	return texts
}

func Test_encounter(t *testing.T) {
	server := startTestServer(t, io.Discard, respondByKeyword)
	const conversationID = "conv-http-1"

	say := func(text string, value string, wantStage string) testTurn {
		t.Helper()
		var turn testTurn
		server.DoJSON(t, http.MethodPost, "/api/messages", map[string]string{
			"conversation_id": conversationID,
			"text":            text,
			"value":           value,
		}, http.StatusOK, &turn)
		require.Equal(t, wantStage, turn.Stage)
		return turn
	}

	var start testTurn
	server.DoJSON(t, http.MethodPost, "/api/encounters", map[string]string{
		"conversation_id": conversationID,
		"case_id":         "chest-pain-01",
	}, http.StatusCreated, &start)
	require.Equal(t, conversationID, start.ConversationID)
	require.Equal(t, "chest-pain-01", start.CaseID)
	require.Equal(t, "interview", start.Stage)
	require.Len(t, start.Replies, 2)
	require.Contains(t, start.Replies[0].Text, "John Smith")
	require.Contains(t, start.Replies[1].Text, "END ENCOUNTER")

	require.Equal(t, []string{"My name is John Smith."}, say("What's your name?", "", "interview").texts())
	require.Equal(t, []string{"It started about two hours ago."}, say("When did the pain start?", "", "interview").texts())
	require.Equal(t, []string{"It spreads to my left arm."}, say("Does it spread anywhere?", "", "interview").texts())
	require.Equal(t, []string{"I didn't understand, could you rephrase?"},
		say("Do you like jazz?", "", "interview").texts())

	turn := say("end encounter", "", "differentials")
	require.Equal(t, "What is your **top** differential diagnosis for my presentation?", turn.texts()[1])
	say("ACS", "", "differentials")
	say("PE", "", "differentials")
	turn = say("pneumonia", "", "differential score")
	require.Len(t, turn.Replies, 1)
	require.Equal(t, "card", turn.Replies[0].Type)
	require.Contains(t, turn.Replies[0].Body, "Your score was **2/3**")
	require.Equal(t, "Got It!", turn.Replies[0].Actions[0].Title)

	turn = say("", "0", "interview score")
	require.Equal(t, "### Interview Feedback", turn.Replies[0].Body[0])
	require.Equal(t, "1", turn.Replies[0].Actions[0].Value)

	require.Len(t, say("", "1", "feedback").texts(), 2)
	require.Empty(t, say("Loved the patient.", "", "feedback").Replies)

	doc := server.GetDoc(t, "/reports/"+conversationID)
	require.Equal(t, "chest-pain-01", strings.TrimSpace(doc.Find("#case").Text()))
	require.Equal(t, "none", strings.TrimSpace(doc.Find("#scope").Text()))
	require.Equal(t, "Loved the patient.", strings.TrimSpace(doc.Find("#feedback li").First().Text()))
	require.Equal(t, 0, doc.Find("#issues").Length())
}

func Test_encounterRandomCase(t *testing.T) {
	server := startTestServer(t, io.Discard, respondByKeyword)

	var start testTurn
	server.DoJSON(t, http.MethodPost, "/api/encounters", map[string]string{"category": "cardiology"},
		http.StatusCreated, &start)
	require.NotEmpty(t, start.ConversationID)
	require.NotEmpty(t, start.CaseID)

	server.DoJSON(t, http.MethodPost, "/api/encounters", map[string]string{"category": "no-such-category"},
		http.StatusNotFound, nil)
	server.DoJSON(t, http.MethodPost, "/api/encounters", map[string]string{"case_id": "no-such-case"},
		http.StatusNotFound, nil)
}

func Test_messageErrors(t *testing.T) {
	server := startTestServer(t, io.Discard, respondByKeyword)

	tests := []struct {
		name       string
		body       map[string]string
		wantStatus int
	}{
		{name: "missing conversation", body: map[string]string{"text": "hello"}, wantStatus: http.StatusBadRequest},
		{
			name:       "unknown conversation",
			body:       map[string]string{"conversation_id": "never-started", "text": "hello"},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "unknown field",
			body:       map[string]string{"conversation_id": "x", "txt": "hello"},
			wantStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server.DoJSON(t, http.MethodPost, "/api/messages", tt.body, tt.wantStatus, nil)
		})
	}

	resp := server.Do(t, http.MethodGet, "/reports/never-started", nil)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
