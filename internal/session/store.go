// Package session keeps each chat's in-flight dialogue between messages.
package session

import (
	"context"
	"errors"

	"github.com/example/sacsbot/internal/dialogue"
)

// ErrUnknownBackend is returned by Open for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown session backend")

// Store loads and saves dialogue sessions keyed by chat ID.
type Store interface {
	Load(ctx context.Context, chatID int64) (dialogue.Session, bool, error)
	Save(ctx context.Context, s dialogue.Session) error
	Delete(ctx context.Context, chatID int64) error
	Pinger
}

// Pinger reports backend health.
type Pinger interface {
	Ping(ctx context.Context) error
}
