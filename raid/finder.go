package raid

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
)

// PostedMessage is the minimal view of a previously posted message the
// finder needs: who wrote it, its embed title and description, and when it
// was created.
type PostedMessage struct {
	AuthorID    string
	Title       string
	Description string
	CreatedAt   time.Time
}

// HistorySource enumerates text channels and fetches their recent posts.
// The bot package adapts the chat session to this interface.
type HistorySource interface {
	Channels(ctx context.Context) ([]string, error)
	Recent(ctx context.Context, channelID string, limit int) ([]PostedMessage, error)
}

// Finder scans recent self-authored posts across channels for a live raid at
// a queried location. This is an O(channels x lookback) linear scan over
// message history rather than a persisted raid-state table; acceptable for
// small deployments and the known scalability limit of this design.
type Finder struct {
	Source   HistorySource
	SelfID   string
	Lookback int
	Clock    clockwork.Clock
}

func (f *Finder) clock() clockwork.Clock {
	if f.Clock != nil {
		return f.Clock
	}
	return clockwork.NewRealClock()
}

// Find returns the first non-expired raid posted for query, matching the
// clean location name case-insensitively. Per-channel fetch failures are
// logged and the scan continues; a miss returns (nil, nil), not an error.
func (f *Finder) Find(ctx context.Context, query string) (*Posted, error) {
	channels, err := f.Source.Channels(ctx)
	if err != nil {
		return nil, err
	}
	now := f.clock().Now()
	for _, ch := range channels {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		msgs, err := f.Source.Recent(ctx, ch, f.Lookback)
		if err != nil {
			slog.Warn("raid find: history fetch failed", slog.String("channel", ch), slog.Any("err", err))
			continue
		}
		for _, m := range msgs {
			if m.AuthorID != f.SelfID {
				continue
			}
			p, err := ParsePosted(m.Title, m.Description, m.CreatedAt)
			if err != nil {
				continue
			}
			if !strings.EqualFold(p.CleanLocation, query) {
				continue
			}
			if Expired(p.Expiry, now) {
				continue
			}
			return p, nil
		}
	}
	return nil, nil
}
