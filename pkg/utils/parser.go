package utils

import (
	"regexp"
	"strconv"
	"strings"

	"rav/pkg/logger"
)

// sizeRegex matches a number followed optionally by a unit string.
var sizeRegex = regexp.MustCompile(`^(\d+)\s*([a-zA-Z]*)$`)

// unitMultipliers maps data size units to byte values using binary prefixes.
var unitMultipliers = map[string]int64{
	"":   1,
	"B":  1,
	"KB": 1 << 10,
	"MB": 1 << 20,
	"GB": 1 << 30,
}

// SizeToBytes parses a human-readable data size string ("5MB", "5 mb")
// into bytes. Returns defaultValue when parsing fails or the unit is
// unsupported.
func SizeToBytes(sizeStr string, defaultValue int64) int64 {
	rawStr := strings.TrimSpace(strings.ToUpper(sizeStr))
	if rawStr == "" {
		return defaultValue
	}

	matches := sizeRegex.FindStringSubmatch(rawStr)
	if len(matches) != 3 {
		logger.LogWarn("Invalid size format '%s', using default.", sizeStr)
		return defaultValue
	}

	value, err := strconv.ParseInt(matches[1], 10, 64)
	if err != nil || value <= 0 {
		logger.LogWarn("Invalid numeric value in '%s', using default.", sizeStr)
		return defaultValue
	}

	multiplier, exists := unitMultipliers[matches[2]]
	if !exists {
		logger.LogWarn("Unsupported unit in '%s', using default.", sizeStr)
		return defaultValue
	}

	return value * multiplier
}
