// Package tmpl expands placeholders in notification messages.
package tmpl

import (
	"strconv"
	"strings"
)

// Vars holds the values substituted into a message template.
type Vars struct {
	Count    int    // number of files written
	Dir      string // output directory
	Duration string // compact run duration, e.g. "84ms"
}

// Expand replaces template placeholders in s with runtime values.
// {count}, {dir} and {duration} are supported; {Dir} is the directory
// with its first letter upper-cased.
func Expand(s string, v Vars) string {
	r := strings.NewReplacer(
		"{count}", strconv.Itoa(v.Count),
		"{Dir}", TitleCase(v.Dir),
		"{dir}", v.Dir,
		"{duration}", v.Duration,
	)
	return r.Replace(s)
}

// TitleCase uppercases the first byte of s.
func TitleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
