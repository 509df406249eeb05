package raid

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// mapsURLBase is the deep-link target for the coordinates carried in the
// source announcement.
const mapsURLBase = "https://www.google.com/maps/search/?api=1&query="

// MapsURL returns the Google Maps deep link for a "lat,lng" pair.
func MapsURL(coords string) string {
	return mapsURLBase + coords
}

// MapLabeler resolves a short human place label for a "lat,lng" pair.
// Implementations degrade internally (fixed fallback label) and never fail.
type MapLabeler interface {
	LinkLabel(ctx context.Context, latlng string) string
}

// Options carry the rule tables and length bounds used when shortening names.
type Options struct {
	CreatureRules  []Rule
	LocationRules  []Rule
	MaxCreatureLen int
	MaxLocationLen int
}

// DefaultOptions returns the stock rule tables and length bounds.
func DefaultOptions() Options {
	return Options{
		CreatureRules:  DefaultCreatureRules,
		LocationRules:  DefaultLocationRules,
		MaxCreatureLen: 11,
		MaxLocationLen: 24,
	}
}

// Raid is the fully parsed and enriched form of one announcement.
type Raid struct {
	Creature      string
	ShortCreature string
	Location      string
	CleanLocation string
	ShortLocation string
	Latitude      string
	Longitude     string
	Coordinates   string
	Expiry        time.Time
	ClockCompact  string
	ClockColon    string
	Remaining     string
	MapLabel      string
	MapURL        string
	ThumbURL      string
}

// FromAnnouncement runs the full pipeline on one announcement: extraction,
// name normalization, time window computation, and map label enrichment via
// labeler. Extraction failures propagate (typed); the labeler never fails.
func FromAnnouncement(ctx context.Context, a Announcement, labeler MapLabeler, opts Options) (*Raid, error) {
	ex, err := Extract(a)
	if err != nil {
		return nil, err
	}
	hours, err := strconv.Atoi(ex.Hours)
	if err != nil {
		return nil, fmt.Errorf("%w: hours %q", ErrMalformedAnnouncement, ex.Hours)
	}
	minutes, err := strconv.Atoi(ex.Minutes)
	if err != nil {
		return nil, fmt.Errorf("%w: minutes %q", ErrMalformedAnnouncement, ex.Minutes)
	}

	expiry := Expiry(a.CreatedAt, hours, minutes)
	r := &Raid{
		Creature:      ex.Creature,
		ShortCreature: ShortenCreature(ex.Creature, opts.CreatureRules, opts.MaxCreatureLen),
		Location:      ex.Location,
		CleanLocation: ex.CleanLocation,
		ShortLocation: Normalize(ex.Location, opts.LocationRules, opts.MaxLocationLen),
		Latitude:      ex.Latitude,
		Longitude:     ex.Longitude,
		Coordinates:   ex.Coordinates,
		Expiry:        expiry,
		ClockCompact:  CompactClock(expiry),
		ClockColon:    ColonClock(expiry),
		Remaining:     RemainingLabel(hours, minutes),
		MapURL:        MapsURL(ex.Coordinates),
		ThumbURL:      a.ThumbURL,
	}
	if labeler != nil {
		r.MapLabel = labeler.LinkLabel(ctx, ex.Coordinates)
	}
	return r, nil
}

// Description renders the body of the outbound post. ParsePosted understands
// this exact shape, which is how the finder recovers raids from the bot's
// own history.
func (r *Raid) Description() string {
	return fmt.Sprintf("**%s**\nUntil **%s** (%s)\n**[%s](%s)**",
		r.Creature, r.ClockColon, r.Remaining, r.MapLabel, r.MapURL)
}
