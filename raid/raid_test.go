package raid

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticLabeler string

func (s staticLabeler) LinkLabel(context.Context, string) string { return string(s) }

func TestFromAnnouncement(t *testing.T) {
	a := sampleAnnouncement()
	r, err := FromAnnouncement(context.Background(), a, staticLabeler("Map: 1 River Rd,Titusville"), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, "Machamp", r.Creature)
	assert.Equal(t, "champ", r.ShortCreature)
	assert.Equal(t, "Washington's Crossing", r.CleanLocation)
	assert.Equal(t, "washs-xing", r.ShortLocation)
	assert.Equal(t, "40.2956", r.Latitude)
	assert.Equal(t, "-74.8697", r.Longitude)

	// 18:00 announcement + 1h23m; the 45s are dropped.
	assert.Equal(t, time.Date(2024, 1, 1, 19, 23, 0, 0, time.UTC), r.Expiry)
	assert.Equal(t, "7-23pm", r.ClockCompact)
	assert.Equal(t, "7:23pm", r.ClockColon)
	assert.Equal(t, "1 h 23 m remaining", r.Remaining)

	assert.Equal(t, "Map: 1 River Rd,Titusville", r.MapLabel)
	assert.Equal(t, mapsURLBase+"40.2956,-74.8697", r.MapURL)
	assert.Equal(t, a.ThumbURL, r.ThumbURL)
}

func TestFromAnnouncementMalformed(t *testing.T) {
	a := sampleAnnouncement()
	a.Description = "not\nenough"
	_, err := FromAnnouncement(context.Background(), a, staticLabeler("x"), DefaultOptions())
	assert.True(t, errors.Is(err, ErrMalformedAnnouncement))
}

// A raid formatted into an outbound post must be recoverable by ParsePosted
// with the same clean location and expiry.
func TestPostedRoundTrip(t *testing.T) {
	r, err := FromAnnouncement(context.Background(), sampleAnnouncement(), staticLabeler("Open in Google Maps"), DefaultOptions())
	require.NoError(t, err)

	posted, err := ParsePosted(r.CleanLocation, r.Description(), sampleAnnouncement().CreatedAt)
	require.NoError(t, err)
	assert.Equal(t, r.CleanLocation, posted.CleanLocation)
	assert.Equal(t, r.Creature, posted.Creature)
	assert.True(t, posted.Expiry.Equal(r.Expiry))
	assert.Equal(t, r.Remaining, posted.Remaining)
}

func TestParsePostedRejectsForeignShapes(t *testing.T) {
	created := time.Now()
	_, err := ParsePosted("Some Gym", "a single line", created)
	assert.True(t, errors.Is(err, ErrMalformedAnnouncement))

	_, err = ParsePosted("Some Gym", "**Mon**\nno remaining label here", created)
	assert.True(t, errors.Is(err, ErrMalformedAnnouncement))
}
