// Package quoting provides identifier quoting for rendered query text.
package quoting

import (
	"regexp"
	"strings"
)

var bareWord = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Backtick quotes an identifier using backticks. Internal backticks are
// escaped by doubling them.
func Backtick(s string) string {
	return "`" + strings.ReplaceAll(s, "`", "``") + "`"
}

// MaybeBacktick quotes an identifier only when it is not a bare word.
func MaybeBacktick(s string) string {
	if bareWord.MatchString(s) {
		return s
	}
	return Backtick(s)
}

// Path quotes each segment of a dotted path as needed and rejoins them.
func Path(path string) string {
	segments := strings.Split(path, ".")
	for i, seg := range segments {
		segments[i] = MaybeBacktick(seg)
	}
	return strings.Join(segments, ".")
}
