package nlu

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/myrjola/spbot/internal/errors"
	"github.com/sashabaranov/go-openai"
)

const (
	defaultModel   = openai.GPT3Dot5Turbo1106
	requestTimeout = 10 * time.Second
	maxTokens      = 512
)

var ErrNoChoices = errors.NewSentinel("completion has no choices")

type Config struct {
	APIKey string `env:"OPENAI_API_KEY"`
	// BaseURL overrides the API endpoint, e.g. for an Azure or self-hosted gateway.
	BaseURL string `env:"OPENAI_BASE_URL"`
	Model   string `env:"SPBOT_NLU_MODEL" envDefault:"gpt-3.5-turbo-1106"`
}

// Client recognizes intents with a chat completion model answering in JSON.
type Client struct {
	client       *openai.Client
	model        string
	systemPrompt string
	logger       *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	return &Client{
		client:       openai.NewClientWithConfig(config),
		model:        model,
		systemPrompt: systemPrompt(),
		logger:       logger.With("source", "NLUClient"),
	}
}

func systemPrompt() string {
	return fmt.Sprintf(`You classify questions a medical student asks a standardized patient.
Answer with a JSON object {"intent": string, "confidence": number, "entities": [{"text": string, "kind": string, "confidence": number}]}.
intent is one of: %s.
kind is one of: %s.
An entity's text is copied verbatim from the question. Use intent "none" when nothing fits.`,
		strings.Join(Intents, ", "), strings.Join(EntityKinds, ", "))
}

type completionEntity struct {
	Text       string  `json:"text"`
	Kind       string  `json:"kind"`
	Confidence float64 `json:"confidence"`
}

type completionResult struct {
	Intent     string             `json:"intent"`
	Confidence float64            `json:"confidence"`
	Entities   []completionEntity `json:"entities"`
}

func (c *Client) Recognize(ctx context.Context, text string) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	start := time.Now()
	completion, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{ //nolint:exhaustruct // this is better for readability
			Model:     c.model,
			MaxTokens: maxTokens,
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: c.systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: text},
			},
		},
	)
	if err != nil {
		return Result{}, errors.Wrap(err, "create chat completion")
	}
	if len(completion.Choices) == 0 {
		return Result{}, ErrNoChoices
	}
	c.logger.LogAttrs(ctx, slog.LevelDebug, "recognized utterance",
		slog.Duration("duration", time.Since(start)),
		slog.Int("total_tokens", completion.Usage.TotalTokens))

	var parsed completionResult
	if err = json.Unmarshal([]byte(completion.Choices[0].Message.Content), &parsed); err != nil {
		return Result{}, errors.Wrap(err, "unmarshal completion", slog.String("content", completion.Choices[0].Message.Content))
	}
	return c.toResult(ctx, text, parsed), nil
}

// toResult normalizes the model output. Unknown intents become IntentNone and entities of unknown kinds are dropped.
func (c *Client) toResult(ctx context.Context, text string, parsed completionResult) Result {
	result := Result{
		Text:     text,
		Intent:   Intent{Label: parsed.Intent, Score: parsed.Confidence},
		Entities: make([]Entity, 0, len(parsed.Entities)),
	}
	if !slices.Contains(Intents, parsed.Intent) {
		c.logger.LogAttrs(ctx, slog.LevelWarn, "unknown intent", slog.String("intent", parsed.Intent))
		result.Intent = Intent{Label: IntentNone, Score: 0}
	}

	offset := 0
	for _, e := range parsed.Entities {
		if !slices.Contains(EntityKinds, e.Kind) {
			continue
		}
		label := strings.ToLower(strings.TrimSpace(e.Text))
		if label == "" {
			continue
		}
		entity := Entity{Label: label, Kind: e.Kind, StartIndex: -1, EndIndex: -1, Score: e.Confidence}
		if start, end := indexFold(text[offset:], label); start != -1 {
			entity.StartIndex = offset + start
			entity.EndIndex = offset + end
			offset = entity.EndIndex
		}
		result.Entities = append(result.Entities, entity)
	}
	return result
}

// indexFold returns the byte span of the first case-insensitive match of substr in s, or -1, -1.
// The span is measured in s, which may differ in length from substr when case folding changes the encoding.
func indexFold(s, substr string) (int, int) {
	for i := range s {
		if n, ok := prefixFold(s[i:], substr); ok {
			return i, i + n
		}
	}
	return -1, -1
}

func prefixFold(s, prefix string) (int, bool) {
	n := 0
	for _, want := range prefix {
		r, size := utf8.DecodeRuneInString(s[n:])
		if size == 0 || !strings.EqualFold(string(r), string(want)) {
			return 0, false
		}
		n += size
	}
	return n, true
}
