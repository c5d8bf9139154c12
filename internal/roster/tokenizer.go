// Copyright (c) 2026 ToeiRei
// Rostermaster - roster-driven account and SSH provisioning
// This source code is licensed under the MIT license found in the LICENSE file.

package roster

import "strings"

// quoteChar is the field quote character used by roster exports.
const quoteChar = '"'

// SplitFields splits one logical roster line into its ordered field values.
// A field may be wrapped in double quotes; inside a quoted field the
// delimiter is literal and a doubled quote yields one literal quote.
// An unterminated quote is tolerated: the rest of the line becomes part of
// the field. An empty line yields a single empty field.
func SplitFields(line string, delim rune) []string {
	var fields []string
	var cur strings.Builder
	inQuotes := false
	atFieldStart := true

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case inQuotes:
			if c == quoteChar {
				if i+1 < len(runes) && runes[i+1] == quoteChar {
					cur.WriteRune(quoteChar)
					i++
				} else {
					inQuotes = false
				}
			} else {
				cur.WriteRune(c)
			}
		case c == quoteChar && atFieldStart:
			inQuotes = true
			atFieldStart = false
		case c == delim:
			fields = append(fields, cur.String())
			cur.Reset()
			atFieldStart = true
		default:
			cur.WriteRune(c)
			atFieldStart = false
		}
	}
	fields = append(fields, cur.String())
	return fields
}
