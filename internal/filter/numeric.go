package filter

import (
	"strings"
)

// IsNumeric reports whether s is a numeric string.
//
// Grammar, applied after trimming ASCII whitespace:
//
//	number   = [sign] ( decimal [exponent] | radix | "Infinity" )
//	decimal  = digits [ "." [digits] ] | "." digits
//	exponent = ( "e" | "E" ) [sign] digits
//	radix    = "0" ( "x" | "X" ) hexdigits | "0" ( "b" | "B" ) bindigits | "0" ( "o" | "O" ) octdigits
//
// Signs are not allowed in front of radix literals. Empty and
// whitespace-only strings are not numeric.
func IsNumeric(s string) bool {
	s = strings.Trim(s, " \t\n\r\v\f")
	if s == "" {
		return false
	}

	if isRadixLiteral(s) {
		return true
	}

	if s[0] == '+' || s[0] == '-' {
		s = s[1:]
	}
	if s == "Infinity" {
		return true
	}

	i, intDigits := scanDigits(s, 0, isDecimalDigit)
	fracDigits := 0
	if i < len(s) && s[i] == '.' {
		i, fracDigits = scanDigits(s, i+1, isDecimalDigit)
	}
	if intDigits == 0 && fracDigits == 0 {
		return false
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		var expDigits int
		i, expDigits = scanDigits(s, i, isDecimalDigit)
		if expDigits == 0 {
			return false
		}
	}

	return i == len(s)
}

func isRadixLiteral(s string) bool {
	if len(s) < 3 || s[0] != '0' {
		return false
	}
	var digit func(byte) bool
	switch s[1] {
	case 'x', 'X':
		digit = isHexDigit
	case 'b', 'B':
		digit = func(c byte) bool { return c == '0' || c == '1' }
	case 'o', 'O':
		digit = func(c byte) bool { return c >= '0' && c <= '7' }
	default:
		return false
	}
	end, n := scanDigits(s, 2, digit)
	return n > 0 && end == len(s)
}

// scanDigits advances from start while digit matches and returns the new
// index and the number of digits consumed
func scanDigits(s string, start int, digit func(byte) bool) (end, count int) {
	end = start
	for end < len(s) && digit(s[end]) {
		end++
	}
	return end, end - start
}

func isDecimalDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDecimalDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
