// ABOUTME: Minimal ISO-8601 duration parsing for recipe time fields
// ABOUTME: Handles the P[nD][T[nH][nM][nS]] subset recipe markup uses

package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

var durationRe = regexp.MustCompile(`(?i)^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// DurationToMinutes parses an ISO-8601 duration of the form
// P[nD][T[nH][nM][nS]] (case-insensitive) into whole minutes. Seconds use
// integer division. A zero or unparseable duration reports absent.
func DurationToMinutes(duration string) (int, bool) {
	match := durationRe.FindStringSubmatch(strings.TrimSpace(duration))
	if match == nil {
		return 0, false
	}

	days := atoiOrZero(match[1])
	hours := atoiOrZero(match[2])
	minutes := atoiOrZero(match[3])
	seconds := atoiOrZero(match[4])

	total := days*24*60 + hours*60 + minutes + seconds/60
	if total <= 0 {
		return 0, false
	}
	return total, true
}

func atoiOrZero(value string) int {
	if value == "" {
		return 0
	}
	n, _ := strconv.Atoi(value)
	return n
}
