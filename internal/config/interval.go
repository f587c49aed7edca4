package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Multipliers for the interval suffixes.
var intervalUnits = map[byte]int{
	's': 1,
	'm': 60,
	'h': 3600,
	'd': 86400,
}

// parseInterval converts a raw interval value to seconds. The value is
// either an integer or a string holding an integer with an optional unit
// suffix. A nil value means no periodic schedule and yields zero. Errors
// carry the jsonschema-style reason; the caller prefixes the document path.
func parseInterval(value any) (int, error) {
	if value == nil {
		return 0, nil
	}
	var seconds int64
	switch v := value.(type) {
	case string:
		multiplier := 1
		number := v
		if len(v) > 0 {
			if m, ok := intervalUnits[v[len(v)-1]]; ok {
				multiplier = m
				number = v[:len(v)-1]
			}
		}
		n, err := strconv.ParseInt(strings.TrimSpace(number), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%s is not of type 'integer'", pyRepr(v))
		}
		seconds = n * int64(multiplier)
	default:
		n, ok := asInt(value)
		if !ok {
			return 0, fmt.Errorf("%s is not of type 'integer'", pyRepr(value))
		}
		seconds = n
	}
	if seconds < 1 {
		return 0, fmt.Errorf("%d is less than the minimum of 1", seconds)
	}
	return int(seconds), nil
}
