// Package parser turns the text printed by battery diagnostic tools into
// a flat mapping of tool-native field names to raw values.
//
// None of the parsers fail. Malformed or missing input produces an
// emptier mapping, never an error or a panic.
package parser

import (
	"strconv"
	"strings"
)

// Fields maps platform-native field names to raw, trimmed values.
type Fields map[string]string

// Func parses the raw output of one diagnostic tool.
type Func func(raw string) Fields

// Nop ignores its input. It is used on platforms without a diagnostic
// command.
func Nop(_ string) Fields {
	return Fields{}
}

// KeyValue parses output with one "key: value" attribute per line.
// Lines without a colon are skipped. Only the first colon separates key
// from value, so values such as clock times survive. Later duplicate
// keys win.
func KeyValue(raw string) Fields {
	fields := Fields{}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		if key == "" {
			continue
		}
		fields[key] = strings.TrimSpace(parts[1])
	}

	return fields
}

// Delimited parses a single line of semicolon separated positional
// values, e.g. "73%; discharging; 2:14 remaining". Position i is stored
// under the key strconv.Itoa(i). Empty positions are left out.
func Delimited(raw string) Fields {
	fields := Fields{}

	line := firstNonBlankLine(raw)
	if line == "" {
		return fields
	}

	for i, v := range strings.Split(line, ";") {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		fields[strconv.Itoa(i)] = v
	}

	return fields
}

// Columns parses fixed-width tabular output: a header line of
// whitespace separated column names followed by one data line whose
// values are aligned under the headers.
//
// Each header token's offset is the first match at or after one past the
// previous token's offset, so a token that also occurs inside the
// previous header name resolves to that inner match. A column
// spans from its offset to the next column's offset; the last column runs
// to the end of the data line. Columns past the end of a short data line
// get empty values.
func Columns(raw string) Fields {
	fields := Fields{}

	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) < 2 {
		return fields
	}

	header, data := lines[0], lines[1]
	names := strings.Fields(header)

	offsets := make([]int, 0, len(names))
	last := -1
	for _, name := range names {
		idx := strings.Index(header[last+1:], name)
		if idx < 0 {
			break
		}
		last += 1 + idx
		offsets = append(offsets, last)
	}

	for i, start := range offsets {
		end := len(data)
		if i+1 < len(offsets) {
			end = offsets[i+1]
		}
		fields[names[i]] = strings.TrimSpace(slice(data, start, end))
	}

	return fields
}

// slice returns s[start:end] clamped to the bounds of s.
func slice(s string, start, end int) string {
	if start >= len(s) {
		return ""
	}
	if end > len(s) {
		end = len(s)
	}
	if end <= start {
		return ""
	}
	return s[start:end]
}

func firstNonBlankLine(raw string) string {
	for _, line := range strings.Split(raw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
