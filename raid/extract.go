// Package raid implements the announcement parsing and enrichment pipeline:
// field extraction from raid announcement embeds, name normalization, raid
// time window arithmetic, and the active-raid history scan. Everything here
// is pure logic; chat-platform and storage wiring live in the bot and db
// packages.
package raid

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Announcement is one inbound raid embed as received from the chat platform.
type Announcement struct {
	Description string
	URL         string
	ThumbURL    string
	CreatedAt   time.Time
}

// Extraction holds the raw fields pulled out of an announcement. Values stay
// strings; numeric parsing is deferred to callers.
type Extraction struct {
	Location      string
	CleanLocation string
	Creature      string
	Hours         string
	Minutes       string
	Seconds       string
	Latitude      string
	Longitude     string
	Coordinates   string // "lat,lng" as embedded in the source url fragment
}

// endingRe matches the fourth description line of an upstream announcement,
// e.g. "*Raid Ending: 1 hours 23 min 45 sec*".
var endingRe = regexp.MustCompile(`\*Raid Ending: (\d+) hours (\d+) min (\d+) sec\*`)

// decorations strips the bold asterisks and trailing periods the upstream
// poster wraps location names in. Character-by-character removal, so the
// order of the two classes does not matter.
var decorations = strings.NewReplacer("*", "", ".", "")

// CleanLocation returns the location line with decoration characters removed.
func CleanLocation(s string) string {
	return decorations.Replace(s)
}

// Extract pulls the location, creature, remaining-time and coordinate fields
// out of an announcement. The description must carry at least four lines
// (location, creature, blank, ending sentence) and the URL a "#lat,lng"
// fragment; anything else fails with ErrMalformedAnnouncement or
// ErrMissingCoordinates and the caller is expected to drop the event.
func Extract(a Announcement) (Extraction, error) {
	lines := strings.Split(a.Description, "\n")
	if len(lines) < 4 {
		return Extraction{}, fmt.Errorf("%w: description has %d lines, want 4", ErrMalformedAnnouncement, len(lines))
	}
	m := endingRe.FindStringSubmatch(lines[3])
	if m == nil {
		return Extraction{}, fmt.Errorf("%w: no raid ending pattern in %q", ErrMalformedAnnouncement, lines[3])
	}

	hash := strings.Index(a.URL, "#")
	if hash < 0 || hash == len(a.URL)-1 {
		return Extraction{}, fmt.Errorf("%w: %q", ErrMissingCoordinates, a.URL)
	}
	coords := a.URL[hash+1:]
	lat, lng, ok := strings.Cut(coords, ",")
	if !ok {
		return Extraction{}, fmt.Errorf("%w: fragment %q is not lat,lng", ErrMissingCoordinates, coords)
	}

	loc := lines[0]
	return Extraction{
		Location:      loc,
		CleanLocation: CleanLocation(loc),
		Creature:      lines[1],
		Hours:         m[1],
		Minutes:       m[2],
		Seconds:       m[3],
		Latitude:      lat,
		Longitude:     lng,
		Coordinates:   coords,
	}, nil
}
