package utils

import "strings"

// NormalizeISBN reduces s to its 13-digit form. Hyphens and spaces are
// stripped; any other non-digit character (except a trailing X on an ISBN-10)
// makes the input invalid. Valid ISBN-10s are converted to their 978-prefixed
// ISBN-13 with a recomputed check digit.
func NormalizeISBN(s string) (string, bool) {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == 'x' || r == 'X':
			b.WriteByte('X')
		case r == '-' || r == ' ':
		default:
			return "", false
		}
	}
	cleaned := b.String()
	switch len(cleaned) {
	case 10:
		if !validISBN10(cleaned) {
			return "", false
		}
		return toISBN13(cleaned), true
	case 13:
		if !validISBN13(cleaned) {
			return "", false
		}
		return cleaned, true
	}
	return "", false
}

func validISBN10(s string) bool {
	sum := 0
	for i, r := range s {
		var d int
		switch {
		case r >= '0' && r <= '9':
			d = int(r - '0')
		case r == 'X' && i == 9:
			d = 10
		default:
			return false
		}
		sum += (10 - i) * d
	}
	return sum%11 == 0
}

func validISBN13(s string) bool {
	sum := 0
	for i, r := range s {
		if r < '0' || r > '9' {
			return false
		}
		d := int(r - '0')
		if i%2 == 1 {
			d *= 3
		}
		sum += d
	}
	return sum%10 == 0
}

// toISBN13 converts a valid ISBN-10 to its 978-prefixed 13-digit form.
func toISBN13(isbn10 string) string {
	core := "978" + isbn10[:9]
	sum := 0
	for i, r := range core {
		d := int(r - '0')
		if i%2 == 1 {
			d *= 3
		}
		sum += d
	}
	check := (10 - sum%10) % 10
	return core + string(rune('0'+check))
}
