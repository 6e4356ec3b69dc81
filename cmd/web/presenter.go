package main

import (
	"context"

	"github.com/myrjola/spbot/internal/encounter"
)

const (
	replyText = "text"
	replyCard = "card"
)

// reply is a message of the patient as delivered to the messaging channel.
type reply struct {
	Type    string             `json:"type"`
	Text    string             `json:"text,omitempty"`
	Body    []string           `json:"body,omitempty"`
	Actions []encounter.Action `json:"actions,omitempty"`
}

// replyCollector buffers the replies of one turn so that they are returned in the HTTP response.
type replyCollector struct {
	replies []reply
}

func (c *replyCollector) SendText(_ context.Context, text string) error {
	c.replies = append(c.replies, reply{Type: replyText, Text: text, Body: nil, Actions: nil})
	return nil
}

func (c *replyCollector) SendChoiceCard(_ context.Context, body []string, actions []encounter.Action) error {
	c.replies = append(c.replies, reply{Type: replyCard, Text: "", Body: body, Actions: actions})
	return nil
}

// Replies never returns nil so that the JSON response always has a list.
func (c *replyCollector) Replies() []reply {
	if c.replies == nil {
		return []reply{}
	}
	return c.replies
}
