package raid

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const selfID = "bot-123"

type fakeHistory struct {
	channels []string
	posts    map[string][]PostedMessage
	errs     map[string]error
}

func (f *fakeHistory) Channels(context.Context) ([]string, error) { return f.channels, nil }

func (f *fakeHistory) Recent(_ context.Context, ch string, _ int) ([]PostedMessage, error) {
	if err := f.errs[ch]; err != nil {
		return nil, err
	}
	return f.posts[ch], nil
}

func selfPost(loc string, created time.Time, remaining string) PostedMessage {
	return PostedMessage{
		AuthorID:    selfID,
		Title:       loc,
		Description: fmt.Sprintf("**Machamp**\nUntil **7:45pm** (%s)\n**[Open in Google Maps](https://example.com)**", remaining),
		CreatedAt:   created,
	}
}

func TestFinderSkipsExpiredAcrossChannels(t *testing.T) {
	clk := clockwork.NewFakeClockAt(time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC))
	now := clk.Now()

	src := &fakeHistory{
		channels: []string{"chan-a", "chan-b"},
		posts: map[string][]PostedMessage{
			// Expired: posted two hours ago with one hour remaining.
			"chan-a": {selfPost("Test Gym", now.Add(-2*time.Hour), "1 h 0 m remaining")},
			// Live: posted ten minutes ago with one hour remaining.
			"chan-b": {selfPost("Test Gym", now.Add(-10*time.Minute), "1 h 0 m remaining")},
		},
	}
	f := &Finder{Source: src, SelfID: selfID, Lookback: 50, Clock: clk}

	got, err := f.Find(context.Background(), "test gym")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Expiry.Equal(now.Add(50*time.Minute)))
}

func TestFinderIgnoresOtherAuthorsAndMiss(t *testing.T) {
	clk := clockwork.NewFakeClockAt(time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC))
	foreign := selfPost("Test Gym", clk.Now(), "1 h 0 m remaining")
	foreign.AuthorID = "someone-else"

	src := &fakeHistory{
		channels: []string{"chan-a"},
		posts:    map[string][]PostedMessage{"chan-a": {foreign}},
	}
	f := &Finder{Source: src, SelfID: selfID, Lookback: 50, Clock: clk}

	got, err := f.Find(context.Background(), "Test Gym")
	require.NoError(t, err)
	assert.Nil(t, got, "a miss is a nil result, not an error")
}

func TestFinderContinuesPastFetchErrors(t *testing.T) {
	clk := clockwork.NewFakeClockAt(time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC))
	src := &fakeHistory{
		channels: []string{"broken", "ok"},
		errs:     map[string]error{"broken": fmt.Errorf("history unavailable")},
		posts: map[string][]PostedMessage{
			"ok": {selfPost("Riverside Park", clk.Now(), "0 h 30 m remaining")},
		},
	}
	f := &Finder{Source: src, SelfID: selfID, Lookback: 50, Clock: clk}

	got, err := f.Find(context.Background(), "riverside park")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Riverside Park", got.CleanLocation)
}
