package types

import (
	"time"

	"github.com/example/sacsbot/internal/calc"
	"github.com/example/sacsbot/internal/dialogue"
)

// CalculateRequest is the JSON body of POST /api/calculate.
type CalculateRequest struct {
	Lines int `json:"lines"`
	Bags  int `json:"bags"`
}

// CalculateResponse carries the total and every intermediate quantity.
type CalculateResponse struct {
	Lines        int `json:"lines"`
	Bags         int `json:"bags"`
	OddRows      int `json:"odd_rows"`
	EvenRows     int `json:"even_rows"`
	OddSubtotal  int `json:"odd_subtotal"`
	EvenSubtotal int `json:"even_subtotal"`
	Total        int `json:"total"`
}

// RangeErrorResponse is returned with 422 when a value is rejected.
type RangeErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field"`
	Min   int    `json:"min"`
	Max   int    `json:"max"`
}

// SessionResponse describes a chat's dialogue for the admin endpoint.
type SessionResponse struct {
	ChatID    int64  `json:"chat_id"`
	State     string `json:"state"`
	Lines     int    `json:"lines,omitempty"`
	UpdatedAt string `json:"updated_at"` // RFC3339
}

func NewCalculateResponse(r calc.Result) CalculateResponse {
	return CalculateResponse{
		Lines:        r.Lines,
		Bags:         r.Bags,
		OddRows:      r.OddRows,
		EvenRows:     r.EvenRows,
		OddSubtotal:  r.OddSubtotal,
		EvenSubtotal: r.EvenSubtotal,
		Total:        r.Total,
	}
}

func NewRangeErrorResponse(f calc.Field, r calc.Range) RangeErrorResponse {
	return RangeErrorResponse{Error: calc.ErrOutOfRange.Error(), Field: string(f), Min: r.Min, Max: r.Max}
}

func NewSessionResponse(s dialogue.Session) SessionResponse {
	return SessionResponse{
		ChatID:    s.ChatID,
		State:     string(s.State),
		Lines:     s.Lines,
		UpdatedAt: s.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
