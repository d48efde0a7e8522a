package number

import (
	"strconv"
	"strings"
)

// ParseInteger parses a decimal or 0x-prefixed hexadecimal integer,
// ignoring surrounding whitespace. Hexadecimal values wrap around.
func ParseInteger(str string) (int64, bool) {
	str = strings.TrimSpace(str)
	neg := false
	body := str
	if strings.HasPrefix(body, "-") {
		neg, body = true, body[1:]
	} else if strings.HasPrefix(body, "+") {
		body = body[1:]
	}
	if strings.HasPrefix(body, "0x") || strings.HasPrefix(body, "0X") {
		u, err := strconv.ParseUint(body[2:], 16, 64)
		if err != nil || body[2:] == "" {
			return 0, false
		}
		if neg {
			return -int64(u), true
		}
		return int64(u), true
	}
	i, err := strconv.ParseInt(str, 10, 64)
	return i, err == nil
}

// ParseFloat parses a Lua float literal, ignoring surrounding whitespace.
// Go-only spellings such as "Inf" or digit separators are rejected.
func ParseFloat(str string) (float64, bool) {
	str = strings.TrimSpace(str)
	if str == "" || strings.ContainsAny(str, "nN_iI") && !isHex(str) {
		return 0, false
	}
	if isHex(str) && !strings.ContainsAny(str, "pP") {
		if i, ok := ParseInteger(str); ok {
			return float64(i), true
		}
		return 0, false
	}
	f, err := strconv.ParseFloat(str, 64)
	return f, err == nil
}

func isHex(str string) bool {
	s := strings.TrimLeft(str, "+-")
	return strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")
}
