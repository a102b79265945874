package common

import "strconv"

// ParseID parses a positive numeric identifier; anything else yields zero.
func ParseID(value string) int64 {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}
