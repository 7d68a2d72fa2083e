// Package dialogue sequences the two-step collection of rows and extra bags.
package dialogue

import (
	"strings"
	"time"

	"github.com/example/sacsbot/internal/calc"
)

// State of a chat's dialogue.
type State string

const (
	AwaitingLines State = "awaiting_lines"
	AwaitingBags  State = "awaiting_bags"
	Done          State = "done"
	Cancelled     State = "cancelled"
)

// Terminal reports whether no further input is accepted.
func (s State) Terminal() bool { return s == Done || s == Cancelled }

// Session is the dialogue state of one chat. Lines is set only once the
// rows value has been accepted.
type Session struct {
	ChatID    int64     `json:"chat_id"`
	State     State     `json:"state"`
	Lines     int       `json:"lines,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Kind discriminates an Outcome.
type Kind int

const (
	KindIgnored Kind = iota
	KindPrompt
	KindRejected
	KindCompleted
	KindCancelled
)

func (k Kind) String() string {
	switch k {
	case KindPrompt:
		return "prompt"
	case KindRejected:
		return "rejected"
	case KindCompleted:
		return "completed"
	case KindCancelled:
		return "cancelled"
	default:
		return "ignored"
	}
}

// Outcome is what a transition produced. Field and Range are set for
// prompts and rejections; Result only for KindCompleted.
type Outcome struct {
	Kind   Kind
	Field  calc.Field
	Range  calc.Range
	Lines  int
	Result calc.Result
}

// Sequencer drives Session transitions. It keeps no per-chat state.
type Sequencer struct {
	calc *calc.Calculator
	now  func() time.Time
}

func NewSequencer(c *calc.Calculator) *Sequencer {
	return &Sequencer{calc: c, now: time.Now}
}

// Limits returns the ranges enforced on input.
func (q *Sequencer) Limits() calc.Limits { return q.calc.Limits() }

// Start opens a fresh dialogue for chatID.
func (q *Sequencer) Start(chatID int64) (Session, Outcome) {
	s := Session{ChatID: chatID, State: AwaitingLines, UpdatedAt: q.now()}
	return s, q.prompt(calc.FieldLines, 0)
}

// Input feeds one raw message into the session.
func (q *Sequencer) Input(s *Session, text string) Outcome {
	text = strings.TrimSpace(text)
	switch s.State {
	case AwaitingLines:
		n, ok := q.calc.Accept(calc.FieldLines, text)
		if !ok {
			return q.reject(calc.FieldLines)
		}
		s.Lines = n
		s.State = AwaitingBags
		s.UpdatedAt = q.now()
		return q.prompt(calc.FieldBags, n)
	case AwaitingBags:
		n, ok := q.calc.Accept(calc.FieldBags, text)
		if !ok {
			return q.reject(calc.FieldBags)
		}
		res, err := q.calc.Calculate(s.Lines, n)
		if err != nil {
			// stored lines no longer fit the limits; restart the dialogue
			s.Lines = 0
			s.State = AwaitingLines
			s.UpdatedAt = q.now()
			return q.reject(calc.FieldLines)
		}
		s.State = Done
		s.UpdatedAt = q.now()
		return Outcome{Kind: KindCompleted, Lines: s.Lines, Result: res}
	default:
		return Outcome{Kind: KindIgnored}
	}
}

// Cancel moves a running session to Cancelled and drops partial input.
func (q *Sequencer) Cancel(s *Session) Outcome {
	if s.State.Terminal() {
		return Outcome{Kind: KindIgnored}
	}
	s.State = Cancelled
	s.Lines = 0
	s.UpdatedAt = q.now()
	return Outcome{Kind: KindCancelled}
}

func (q *Sequencer) prompt(f calc.Field, lines int) Outcome {
	return Outcome{Kind: KindPrompt, Field: f, Range: q.calc.Limits().For(f), Lines: lines}
}

func (q *Sequencer) reject(f calc.Field) Outcome {
	return Outcome{Kind: KindRejected, Field: f, Range: q.calc.Limits().For(f)}
}
