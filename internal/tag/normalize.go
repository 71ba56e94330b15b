package tag

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NameSeparator joins names in the text form of a Set.
const NameSeparator = ", "

// NormalizeName trims the name, collapses inner whitespace to single spaces and
// applies Unicode NFC so visually identical names compare equal. Case is kept.
// Bytes that are not valid UTF-8 are dropped.
func NormalizeName(name string) string {
	name = strings.Join(strings.Fields(strings.ToValidUTF8(name, "")), " ")
	if name == "" {
		return ""
	}
	return norm.NFC.String(name)
}

// SplitNames breaks tag text into normalized, de-duplicated names in
// first-occurrence order. Splitting happens on every comma, so "a,b", "a, b"
// and "a ,b," all yield [a b]; empty tokens are dropped.
func SplitNames(text string) []string {
	parts := strings.Split(text, ",")
	names := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		name := NormalizeName(p)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// JoinNames renders names the way Codec.Encode does.
func JoinNames(names []string) string {
	return strings.Join(names, NameSeparator)
}
