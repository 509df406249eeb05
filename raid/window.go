package raid

import (
	"fmt"
	"time"
)

// Expiry computes the absolute end of a raid from the announcement creation
// time plus the announced hours and minutes. The seconds component of the
// announced remaining time is discarded, truncating toward the creation time
// rather than rounding up.
func Expiry(ref time.Time, hours, minutes int) time.Time {
	return ref.Add(time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute)
}

// CompactClock renders t like "7-45pm".
func CompactClock(t time.Time) string {
	return t.Format("3-04pm")
}

// ColonClock renders t like "7:45pm".
func ColonClock(t time.Time) string {
	return t.Format("3:04pm")
}

// RemainingLabel builds the "<H> h <M> m remaining" label from the announced
// integers, not from a recomputed delta, so a reposted raid shows the
// originally announced remaining time.
func RemainingLabel(hours, minutes int) string {
	return fmt.Sprintf("%d h %d m remaining", hours, minutes)
}

// Expired reports whether now is at or after the expiry instant.
func Expired(expiry, now time.Time) bool {
	return !now.Before(expiry)
}
