package service

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var relativeExpiryPattern = regexp.MustCompile(`^\+(\d+)\s*(day|days|week|weeks)$`)

// ResolveExpiry turns a relative expiry token into a concrete YYYY-MM-DD
// date. Resolution happens once, at creation time. Accepted tokens are
// "today", "tomorrow", "+N days" and "+N weeks"; anything else is treated as
// a literal date string and stored verbatim.
func ResolveExpiry(expiry string, now time.Time) string {
	token := strings.ToLower(strings.TrimSpace(expiry))

	switch token {
	case "today":
		return now.Format("2006-01-02")
	case "tomorrow":
		return now.AddDate(0, 0, 1).Format("2006-01-02")
	}

	if m := relativeExpiryPattern.FindStringSubmatch(token); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return expiry
		}
		days := n
		if strings.HasPrefix(m[2], "week") {
			days = n * 7
		}
		return now.AddDate(0, 0, days).Format("2006-01-02")
	}

	return expiry
}
