// Package e2etest drives a running bot service over its HTTP API the way the messaging channel does.
package e2etest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/myrjola/spbot/internal/errors"
)

// Reply is a patient message as returned by the service.
type Reply struct {
	Type    string   `json:"type"`
	Text    string   `json:"text,omitempty"`
	Body    []string `json:"body,omitempty"`
	Actions []Action `json:"actions,omitempty"`
}

type Action struct {
	Title   string   `json:"title"`
	Value   string   `json:"value,omitempty"`
	Body    []string `json:"body,omitempty"`
	Actions []Action `json:"actions,omitempty"`
}

// Turn is the service's answer to one request.
type Turn struct {
	ConversationID string  `json:"conversation_id"`
	CaseID         string  `json:"case_id"`
	Stage          string  `json:"stage"`
	Replies        []Reply `json:"replies"`
}

// Texts returns the plain text replies of the turn.
func (t Turn) Texts() []string {
	var texts []string
	for _, r := range t.Replies {
		if r.Type == "text" {
			texts = append(texts, r.Text)
		}
	}
	return texts
}

// StatusError is returned when the service answers with an unexpected status code.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Status, e.Body)
}

type Client struct {
	client *http.Client
	url    string
	token  string
}

// NewClient creates a client that authenticates with a bearer token signed with secret, as the messaging channel
// does.
func NewClient(url string, secret string, subject string) (*Client, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{ //nolint:exhaustruct // only what the service verifies.
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return nil, errors.Wrap(err, "sign token")
	}
	return &Client{
		client: &http.Client{Timeout: 10 * time.Second}, //nolint:exhaustruct,mnd // 10 seconds
		url:    url,
		token:  signed,
	}, nil
}

// WaitForReady calls the specified endpoint until it gets a HTTP 200 Success
// response or until the context is cancelled or the 1-second timeout is reached.
func (c *Client) WaitForReady(ctx context.Context, urlPath string) error {
	timeout := 1 * time.Second
	startTime := time.Now()
	var (
		err  error
		req  *http.Request
		resp *http.Response
	)
	for {
		if req, err = http.NewRequestWithContext(
			ctx,
			http.MethodGet,
			c.url+urlPath,
			nil,
		); err != nil {
			return errors.Wrap(err, "create request")
		}

		if resp, err = c.client.Do(req); err == nil {
			if resp.StatusCode == http.StatusOK {
				if err = resp.Body.Close(); err != nil {
					return errors.Wrap(err, "close response body")
				}
				return nil
			}
			if err = resp.Body.Close(); err != nil {
				return errors.Wrap(err, "close response body")
			}
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "context cancelled")
		default:
			if time.Since(startTime) >= timeout {
				return errors.New("timeout waiting for endpoint to be ready")
			}
			time.Sleep(100 * time.Millisecond) //nolint:mnd // 100ms
		}
	}
}

// Categories lists the case categories.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var resp struct {
		Categories []string `json:"categories"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/categories", nil, http.StatusOK, &resp); err != nil {
		return nil, errors.Wrap(err, "get categories")
	}
	return resp.Categories, nil
}

// StartEncounter starts an encounter with a random case of category.
func (c *Client) StartEncounter(ctx context.Context, conversationID string, category string) (Turn, error) {
	var turn Turn
	body := map[string]string{"conversation_id": conversationID, "category": category}
	if err := c.do(ctx, http.MethodPost, "/api/encounters", body, http.StatusCreated, &turn); err != nil {
		return Turn{}, errors.Wrap(err, "start encounter", slog.String("category", category))
	}
	return turn, nil
}

// Say sends typed text.
func (c *Client) Say(ctx context.Context, conversationID string, text string) (Turn, error) {
	return c.send(ctx, conversationID, text, "")
}

// Select sends the value of a card action.
func (c *Client) Select(ctx context.Context, conversationID string, value string) (Turn, error) {
	return c.send(ctx, conversationID, "", value)
}

func (c *Client) send(ctx context.Context, conversationID string, text string, value string) (Turn, error) {
	var turn Turn
	body := map[string]string{"conversation_id": conversationID, "text": text, "value": value}
	if err := c.do(ctx, http.MethodPost, "/api/messages", body, http.StatusOK, &turn); err != nil {
		return Turn{}, errors.Wrap(err, "send message")
	}
	return turn, nil
}

func (c *Client) do(ctx context.Context, method string, urlPath string, body any, wantStatus int, dst any) error {
	var (
		reader io.Reader
		req    *http.Request
		resp   *http.Response
		err    error
	)
	if body != nil {
		var data []byte
		if data, err = json.Marshal(body); err != nil {
			return errors.Wrap(err, "marshal request")
		}
		reader = bytes.NewReader(data)
	}
	if req, err = http.NewRequestWithContext(ctx, method, c.url+urlPath, reader); err != nil {
		return errors.Wrap(err, "create request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if resp, err = c.client.Do(req); err != nil {
		return errors.Wrap(err, "do request")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != wantStatus {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024)) //nolint:mnd // 1 KiB is plenty for an error message.
		return &StatusError{Status: resp.StatusCode, Body: string(bytes.TrimSpace(data))}
	}
	if err = json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}
