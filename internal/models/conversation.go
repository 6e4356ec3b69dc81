package models

import "time"

// FeedbackSeparator joins the feedback messages of a conversation into one stored text.
const FeedbackSeparator = " | "

// Issue is an error an encounter ran into, kept for operators.
type Issue struct {
	ID      string
	Text    string
	Created time.Time
}

// Conversation is the stored state of one encounter.
type Conversation struct {
	ID       string
	CaseID   string
	Scope    []string
	Feedback []string
	Issues   []Issue
	Created  time.Time
	Updated  time.Time
}
