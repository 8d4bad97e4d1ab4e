package annotation

import (
	"regexp"
	"strconv"
	"strings"
)

// lengthPattern matches the "<number> <unit>" text printed beside the
// scale bar. OCR frequently reads the micro sign as a plain 'u'.
var lengthPattern = regexp.MustCompile(`(?i)([0-9]+(?:[.,][0-9]+)?)\s*(µm|um|nm|mm)`)

// ParseLength extracts a physical length from OCR text and normalizes
// it to micrometers. It returns false when no length is present.
func ParseLength(text string) (float64, bool) {
	m := lengthPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}

	number := m[1]
	if len(number) > 0 {
		// European decimal comma shows up in some vendor overlays.
		for i := 0; i < len(number); i++ {
			if number[i] == ',' {
				number = number[:i] + "." + number[i+1:]
				break
			}
		}
	}

	value, err := strconv.ParseFloat(number, 64)
	if err != nil || value <= 0 {
		return 0, false
	}

	switch normalizeUnit(m[2]) {
	case "nm":
		value /= 1000
	case "mm":
		value *= 1000
	}
	return value, true
}

func normalizeUnit(unit string) string {
	switch strings.ToLower(unit) {
	case "nm":
		return "nm"
	case "mm":
		return "mm"
	default:
		return "um"
	}
}
