package ytapi

import (
	"regexp"
	"strconv"
)

var durationPattern = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// ParseDuration converts an ISO-8601 duration of the form PT#H#M#S into
// seconds. Day and week components aren't understood; anything without the PT
// form is zero.
func ParseDuration(s string) int {
	m := durationPattern.FindStringSubmatch(s)
	if m == nil {
		return 0
	}

	var total int
	for i, mul := range []int{3600, 60, 1} {
		if m[i+1] == "" {
			continue
		}

		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return 0
		}

		total += n * mul
	}

	return total
}
