// Package encounter runs the conversation between a trainee and a standardized patient, from the introduction to the
// closing feedback.
package encounter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/myrjola/spbot/internal/errors"
	"github.com/myrjola/spbot/internal/logging"
	"github.com/myrjola/spbot/internal/nlu"
	"github.com/myrjola/spbot/internal/patient"
	"github.com/myrjola/spbot/internal/scope"
)

// EndCommand closes the interview and starts the feedback.
const EndCommand = "END ENCOUNTER"

const (
	rephrasePrompt = "I didn't understand, could you rephrase?"
	failureNotice  = "Sorry, something went wrong on my side. Please try again."
)

// Action is a button of a choice card. Selecting it answers with Value. An action with a Body reveals the body and
// its own Actions instead.
type Action struct {
	Title   string   `json:"title"`
	Value   string   `json:"value,omitempty"`
	Body    []string `json:"body,omitempty"`
	Actions []Action `json:"actions,omitempty"`
}

// Presenter delivers replies to the trainee's messaging channel.
type Presenter interface {
	SendText(ctx context.Context, text string) error
	SendChoiceCard(ctx context.Context, body []string, actions []Action) error
}

// FeedbackLog keeps what operators review after an encounter.
type FeedbackLog interface {
	AppendFeedback(ctx context.Context, conversationID string, text string) error
	LogIssue(ctx context.Context, conversationID string, text string) error
}

// Stage is the position of a session in the encounter flow.
type Stage int

const (
	StageInterview Stage = iota
	StageFirstDifferential
	StageSecondDifferential
	StageThirdDifferential
	StageDifferentialScore
	StageInterviewScore
	StageFeedback
)

func (s Stage) String() string {
	switch s {
	case StageInterview:
		return "interview"
	case StageFirstDifferential, StageSecondDifferential, StageThirdDifferential:
		return "differentials"
	case StageDifferentialScore:
		return "differential score"
	case StageInterviewScore:
		return "interview score"
	case StageFeedback:
		return "feedback"
	}
	return "unknown"
}

// Session is one conversation with one case. A Session must not be used by concurrent turns.
type Session struct {
	ConversationID string
	Case           *patient.Case
	Stage          Stage
}

// Message is a turn of the trainee: typed text or the value of a selected card action.
type Message struct {
	Text  string `json:"text,omitempty"`
	Value string `json:"value,omitempty"`
}

type Service struct {
	tracker    *scope.Tracker
	recognizer nlu.Recognizer
	log        FeedbackLog
	logger     *slog.Logger
}

func NewService(tracker *scope.Tracker, recognizer nlu.Recognizer, log FeedbackLog, logger *slog.Logger) *Service {
	return &Service{
		tracker:    tracker,
		recognizer: recognizer,
		log:        log,
		logger:     logger.With("source", "EncounterService"),
	}
}

// Start introduces the patient of a new session.
func (s *Service) Start(ctx context.Context, sess *Session, p Presenter) error {
	ctx = logging.WithConversation(ctx, sess.ConversationID)
	if err := s.tracker.Close(ctx, sess.ConversationID); err != nil {
		return errors.Wrap(err, "reset scope")
	}
	if err := p.SendText(ctx, sess.Case.Introduction()); err != nil {
		return errors.Wrap(err, "send introduction")
	}
	if err := p.SendText(ctx, fmt.Sprintf("*You can now begin taking the history.*  "+
		"Type **%s** when you're ready to end the interview & get your score.", EndCommand)); err != nil {
		return errors.Wrap(err, "send instructions")
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "started encounter", slog.String("case_id", sess.Case.ID()))
	return nil
}

// Handle answers one turn of the trainee.
//
// Errors are logged as issues of the conversation and the trainee gets a generic failure notice. The returned error
// is non-nil only when even the failure notice could not be delivered.
func (s *Service) Handle(ctx context.Context, sess *Session, msg Message, p Presenter) error {
	ctx = logging.WithConversation(ctx, sess.ConversationID)
	var err error
	switch {
	case sess.Stage != StageInterview:
		err = s.feedback(ctx, sess, msg, p)
	case strings.EqualFold(strings.TrimSpace(msg.Text), EndCommand):
		err = s.close(ctx, sess, p)
	case strings.TrimSpace(msg.Text) == "":
		return nil
	default:
		err = s.interview(ctx, sess, msg.Text, p)
	}
	if err == nil {
		return nil
	}
	return s.fail(ctx, sess, err, p)
}

func (s *Service) interview(ctx context.Context, sess *Session, text string, p Presenter) error {
	result, err := s.recognizer.Recognize(ctx, text)
	if err != nil {
		return errors.Wrap(err, "recognize utterance")
	}
	before, err := s.tracker.Load(ctx, sess.ConversationID)
	if err != nil {
		return errors.Wrap(err, "load scope")
	}
	sc := scope.Scope{Level: before.Level, Elements: before.Elements}

	reply := answer(ctx, sess.Case, &sc, result)
	s.logger.LogAttrs(ctx, slog.LevelDebug, "answered question",
		slog.String("intent", result.Intent.Label),
		slog.Any("scope", sc.Path()),
		slog.Bool("understood", reply != ""))
	if reply == "" {
		reply = rephrasePrompt
	}
	if err = p.SendText(ctx, reply); err != nil {
		return errors.Wrap(err, "send answer")
	}
	if err = s.tracker.SaveIfChanged(ctx, sess.ConversationID, before, sc); err != nil {
		return errors.Wrap(err, "save scope")
	}
	return nil
}

func (s *Service) fail(ctx context.Context, sess *Session, cause error, p Presenter) error {
	s.logger.LogAttrs(ctx, slog.LevelError, "encounter turn failed", errors.SlogError(cause),
		slog.String("stage", sess.Stage.String()))
	if err := s.log.LogIssue(ctx, sess.ConversationID, cause.Error()); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, "failed to log issue", errors.SlogError(err))
	}
	if err := p.SendText(ctx, failureNotice); err != nil {
		return errors.Join(cause, errors.Wrap(err, "send failure notice"))
	}
	return nil
}
