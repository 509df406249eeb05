package raid

import "errors"

var (
	// ErrMalformedAnnouncement indicates the announcement text did not match
	// the expected shape (line count or time pattern). The event should be
	// dropped and logged; never post partial output.
	ErrMalformedAnnouncement = errors.New("malformed announcement")

	// ErrMissingCoordinates indicates the announcement URL carried no
	// "#lat,lng" fragment.
	ErrMissingCoordinates = errors.New("announcement url missing coordinate fragment")
)
