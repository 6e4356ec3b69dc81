package encounter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/myrjola/spbot/internal/errors"
	"github.com/myrjola/spbot/internal/scoring"
)

// lineWidth is the widest text block the chat clients render without wrapping mid-word.
const lineWidth = 47

const (
	ackDifferentials = "0"
	ackInterview     = "1"
)

var differentialPrompts = []string{
	"What is your **top** differential diagnosis for my presentation?",
	"What is your **second** most likely differential diagnosis?",
	"What is your **third** most likely differential diagnosis?",
}

func (s *Service) close(ctx context.Context, sess *Session, p Presenter) error {
	if err := s.tracker.Close(ctx, sess.ConversationID); err != nil {
		return errors.Wrap(err, "close scope")
	}
	sess.Stage = StageFirstDifferential
	s.logger.LogAttrs(ctx, slog.LevelInfo, "closed encounter",
		slog.Int("questions", sess.Case.Ledger().Total()),
		slog.Int("unread", sess.Case.Ledger().Unread()))
	if err := p.SendText(ctx, "*Patient encounter is now **closed**.*"); err != nil {
		return errors.Wrap(err, "send closing notice")
	}
	if err := p.SendText(ctx, differentialPrompts[0]); err != nil {
		return errors.Wrap(err, "send differential prompt")
	}
	return nil
}

// feedback advances the end-of-encounter flow. Messages that do not answer the current step are ignored.
func (s *Service) feedback(ctx context.Context, sess *Session, msg Message, p Presenter) error {
	text := strings.TrimSpace(msg.Text)
	switch sess.Stage {
	case StageFirstDifferential, StageSecondDifferential, StageThirdDifferential:
		if text == "" {
			return nil
		}
		return s.recordDifferential(ctx, sess, text, p)
	case StageDifferentialScore:
		if msg.Value != ackDifferentials {
			return nil
		}
		return s.sendInterviewScore(ctx, sess, p)
	case StageInterviewScore:
		if msg.Value != ackInterview {
			return nil
		}
		sess.Stage = StageFeedback
		if err := p.SendText(ctx, "Great Job! Before you go, I'd really appreciate it if you would give me some "+
			"feedback on your experience today."); err != nil {
			return errors.Wrap(err, "send feedback request")
		}
		if err := p.SendText(ctx, "Just type in your thoughts below (as many as you want), and then close the "+
			"client when you're finished. Thanks!"); err != nil {
			return errors.Wrap(err, "send feedback instructions")
		}
		return nil
	case StageFeedback:
		if text == "" {
			return nil
		}
		if err := s.log.AppendFeedback(ctx, sess.ConversationID, text); err != nil {
			return errors.Wrap(err, "append feedback")
		}
		return nil
	case StageInterview:
	}
	return errors.New("unexpected stage", slog.String("stage", sess.Stage.String()))
}

func (s *Service) recordDifferential(ctx context.Context, sess *Session, answer string, p Presenter) error {
	i := int(sess.Stage - StageFirstDifferential)
	if err := sess.Case.SetDifferential(i, answer); err != nil {
		return errors.Wrap(err, "record differential", slog.Int("position", i))
	}
	sess.Stage++
	if i+1 < len(differentialPrompts) {
		if err := p.SendText(ctx, differentialPrompts[i+1]); err != nil {
			return errors.Wrap(err, "send differential prompt")
		}
		return nil
	}
	return s.sendDifferentialScore(ctx, sess, p)
}

func (s *Service) sendDifferentialScore(ctx context.Context, sess *Session, p Presenter) error {
	diffs := sess.Case.Differentials()
	score := scoring.Differentials(ctx, sess.Case.Index(), diffs)
	s.logger.LogAttrs(ctx, slog.LevelInfo, "scored differentials", slog.String("score", score.String()))

	body := []string{
		"### Differential Diagnosis Feedback",
		fmt.Sprintf("Your score was **%s**", score),
		fmt.Sprintf("My top %d differentials in order are: ", len(diffs)),
	}
	for i, d := range diffs {
		body = append(body, fmt.Sprintf("**(%d)** %s", i+1, d.Truth))
	}

	keyPoints := []string{"### Key Points"}
	for _, point := range sess.Case.PointsOfEmphasis() {
		keyPoints = append(keyPoints, bullet(point)...)
	}
	actions := []Action{{
		Title:   "OK",
		Value:   "",
		Body:    keyPoints,
		Actions: []Action{{Title: "Got It!", Value: ackDifferentials, Body: nil, Actions: nil}},
	}}
	if err := p.SendChoiceCard(ctx, body, actions); err != nil {
		return errors.Wrap(err, "send differential score")
	}
	sess.Stage = StageDifferentialScore
	return nil
}

func (s *Service) sendInterviewScore(ctx context.Context, sess *Session, p Presenter) error {
	percent, err := scoring.Interview(sess.Case.Ledger())
	if err != nil {
		return errors.Wrap(err, "score interview")
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "scored interview", slog.Int("percent", percent))

	body := []string{
		"### Interview Feedback",
		fmt.Sprintf("You asked **%d%%** of the important questions!", percent),
	}
	missed := scoring.MissedQuestions(sess.Case.Ledger())
	if len(missed) > 0 {
		body = append(body, "### Missed Questions ")
	}
	for _, question := range missed {
		body = append(body, bullet(question)...)
	}
	actions := []Action{{Title: "Sounds Good", Value: ackInterview, Body: nil, Actions: nil}}
	if err = p.SendChoiceCard(ctx, body, actions); err != nil {
		return errors.Wrap(err, "send interview score")
	}
	sess.Stage = StageInterviewScore
	return nil
}

// bullet wraps text into text blocks and marks the first one as a list item.
func bullet(text string) []string {
	lines := wrap(text, lineWidth)
	if len(lines) > 0 {
		lines[0] = "-- " + lines[0]
	}
	return lines
}

// wrap splits text into lines of at most width runes, breaking at spaces. Words longer than width are split.
func wrap(text string, width int) []string {
	var (
		lines []string
		rest  = []rune(text)
	)
	for len(rest) > 0 {
		cut := len(rest)
		if cut > width {
			cut = width
			for cut > 0 && rest[cut] != ' ' {
				cut--
			}
			if cut == 0 {
				cut = width
			}
		}
		if line := strings.TrimSpace(string(rest[:cut])); line != "" {
			lines = append(lines, line)
		}
		rest = rest[cut:]
	}
	return lines
}
