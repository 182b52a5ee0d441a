package feed

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var releaseDatePattern = regexp.MustCompile(
	`(January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},\s+\d{4}`)

// ExtractReleaseDate finds the first "Month Day, Year" substring in a title
// and parses it as a calendar date. The second return is false when no valid
// date is present; callers apply the configured fallback.
func ExtractReleaseDate(title string) (time.Time, bool) {
	match := releaseDatePattern.FindString(title)
	if match == "" {
		return time.Time{}, false
	}
	// Collapse any run of whitespace the pattern allowed.
	cleaned := strings.Join(strings.Fields(match), " ")
	parsed, err := time.Parse("January 2, 2006", cleaned)
	if err != nil {
		// Matched text named an impossible day, e.g. "February 30, 2024".
		return time.Time{}, false
	}
	return parsed, true
}

// MonthLabel renders the human-readable month bucket name, e.g. "October 2024".
func MonthLabel(t time.Time) string {
	return t.Month().String() + " " + strconv.Itoa(t.Year())
}

// monthDistance counts whole months from t back to now. Recent months yield
// smaller values, so ascending order puts the newest bucket first regardless
// of calendar rollovers.
func monthDistance(now, t time.Time) int {
	return (now.Year()-t.Year())*12 + int(now.Month()) - int(t.Month())
}
