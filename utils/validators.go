// File: /utils/validators.go
package utils

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	hashtagPattern  = regexp.MustCompile(`#(\w+)`)
	mentionPattern  = regexp.MustCompile(`@(\w+)`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)
)

func IsValidUsername(username string) bool {
	return usernamePattern.MatchString(username)
}

// ExtractHashtags returns the distinct #tags in content without the '#', in
// order of first appearance.
func ExtractHashtags(content string) []string {
	return extract(hashtagPattern, content)
}

// ExtractMentions returns the distinct @handles in content without the '@'.
func ExtractMentions(content string) []string {
	return extract(mentionPattern, content)
}

func extract(re *regexp.Regexp, content string) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, m := range re.FindAllStringSubmatch(content, -1) {
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		out = append(out, m[1])
	}
	return out
}

// NormalizeTags trims client supplied tags, drops a leading marker such as
// '#' or '@' and removes blanks and duplicates.
func NormalizeTags(tags []string, marker string) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, t := range tags {
		t = strings.TrimPrefix(strings.TrimSpace(t), marker)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// StripWhitespace turns "Chicago Cubs" into "ChicagoCubs".
func StripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
