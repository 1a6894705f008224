package match

import (
	"regexp"
	"strings"
)

// pathSegmentPattern matches exactly one path segment.
const pathSegmentPattern = "([^/]+)"

// HasPlaceholders reports whether a path literal contains ":token" segments.
func HasPlaceholders(path string) bool {
	for _, seg := range strings.Split(path, "/") {
		if isPlaceholder(seg) {
			return true
		}
	}
	return false
}

func isPlaceholder(seg string) bool {
	return len(seg) > 1 && seg[0] == ':'
}

// PathLiteralPattern converts a path literal into an anchored regular
// expression source. Each ":token" segment becomes a capturing group
// matching one segment; every other segment is quoted.
func PathLiteralPattern(path string) string {
	segments := strings.Split(path, "/")

	var b strings.Builder
	b.WriteString("^")
	for i, seg := range segments {
		if i > 0 {
			b.WriteString("/")
		}
		if isPlaceholder(seg) {
			b.WriteString(pathSegmentPattern)
		} else {
			b.WriteString(regexp.QuoteMeta(seg))
		}
	}
	b.WriteString("$")
	return b.String()
}

// compilePathLiteral compiles a path literal through the cache. Quoted
// segments cannot produce an invalid pattern.
func compilePathLiteral(path string) *regexp.Regexp {
	re, _ := expressions.compile(kindPath, path, func(p string) (*regexp.Regexp, error) {
		return regexp.MustCompile(PathLiteralPattern(p)), nil
	})
	return re
}
