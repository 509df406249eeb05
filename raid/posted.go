package raid

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Posted is a raid recovered from one of the bot's own embeds. Only the
// fields the finder needs are kept.
type Posted struct {
	CleanLocation string
	Creature      string
	Expiry        time.Time
	ClockColon    string
	Remaining     string
}

// remainingRe matches the parenthesized remaining-time label in a posted
// description, e.g. "(1 h 30 m remaining)".
var remainingRe = regexp.MustCompile(`\((\d+) h (\d+) m remaining\)`)

// ParsePosted recovers a raid from an embed the bot itself posted: the title
// is the clean location name and the second description line carries the
// announced remaining time, so expiry is re-derived from the post's own
// creation instant. Posts in any other shape fail with
// ErrMalformedAnnouncement.
func ParsePosted(title, description string, createdAt time.Time) (*Posted, error) {
	lines := strings.Split(description, "\n")
	if len(lines) < 2 {
		return nil, fmt.Errorf("%w: posted description has %d lines, want 2", ErrMalformedAnnouncement, len(lines))
	}
	m := remainingRe.FindStringSubmatch(lines[1])
	if m == nil {
		return nil, fmt.Errorf("%w: no remaining-time label in %q", ErrMalformedAnnouncement, lines[1])
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	expiry := Expiry(createdAt, hours, minutes)
	return &Posted{
		CleanLocation: CleanLocation(title),
		Creature:      strings.Trim(lines[0], "*"),
		Expiry:        expiry,
		ClockColon:    ColonClock(expiry),
		Remaining:     RemainingLabel(hours, minutes),
	}, nil
}
