package ical

import "unicode/utf8"

// Transform a writer into one that folds content lines longer than 75 octets,
// continuing on the next line after a single space. Every call writes one
// full content line, CRLF included. Multi-byte runes are never split.
//
//	writer := foldWriter(sb.WriteString)
//	writer("DESCRIPTION:Hello Nairobi!!!! ...")
func foldWriter(writer func(string) (int, error)) func(string) (int, error) {
	return func(line string) (int, error) {
		total := 0
		limit := 75
		for len(line) > limit {
			cut := limit
			for cut > 0 && !utf8.RuneStart(line[cut]) {
				cut--
			}
			n, err := writer(line[:cut] + "\r\n ")
			total += n
			if err != nil {
				return total, err
			}
			line = line[cut:]
			// the leading space of a continuation counts
			limit = 74
		}
		n, err := writer(line + "\r\n")
		return total + n, err
	}
}
