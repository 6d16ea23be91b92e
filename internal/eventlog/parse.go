package eventlog

import (
	"strconv"
	"strings"
	"time"
)

// ParseRuns splits log content on blank lines and parses each block into a
// Run. Blocks without a valid summary line are skipped; malformed asset
// lines are ignored.
func ParseRuns(content string) []Run {
	var runs []Run
	for _, block := range SplitBlocks(content) {
		lines := strings.Split(block, "\n")
		run, ok := parseSummary(lines[0])
		if !ok {
			continue
		}
		for _, line := range lines[1:] {
			if rec, ok := parseAssetLine(line); ok {
				run.Assets = append(run.Assets, rec)
			}
		}
		runs = append(runs, run)
	}
	return runs
}

func parseSummary(line string) (Run, bool) {
	if strings.Contains(line, "asset[") {
		return Run{}, false
	}
	ts, ok := ExtractTimestamp(line)
	if !ok || !hasField(line, "assets") {
		return Run{}, false
	}
	d, _ := time.ParseDuration(extractField(line, "duration"))
	return Run{
		Time:      ts,
		OutputDir: extractQuotedField(line, "out"),
		Font:      extractQuotedField(line, "font"),
		Fallback:  extractField(line, "fallback") == "true",
		Duration:  d,
	}, true
}

// parseAssetLine parses a detail line like:
//
//	2026-01-01T00:00:00Z    asset[1] icon-72x72.png  kind=standard  size=72  bytes=1234
func parseAssetLine(line string) (Record, bool) {
	idx := strings.Index(line, "asset[")
	if idx < 0 {
		return Record{}, false
	}
	rest := line[idx:]
	bracket := strings.Index(rest, "] ")
	if bracket < 0 {
		return Record{}, false
	}
	fields := strings.Fields(rest[bracket+2:])
	if len(fields) == 0 {
		return Record{}, false
	}
	size, _ := strconv.Atoi(extractField(rest, "size"))
	n, _ := strconv.Atoi(extractField(rest, "bytes"))
	return Record{
		File:  fields[0],
		Kind:  extractField(rest, "kind"),
		Size:  size,
		Bytes: n,
	}, true
}

// SplitBlocks splits log content on blank lines, trims whitespace from
// each block, and returns only non-empty blocks.
func SplitBlocks(content string) []string {
	raw := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n\n")
	blocks := make([]string, 0, len(raw))
	for _, b := range raw {
		b = strings.TrimSpace(b)
		if b != "" {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

// DayCutoff returns midnight N days ago (inclusive) in the local timezone.
// For days=1 it returns today at midnight, for days=7 it returns 6 days ago, etc.
func DayCutoff(days int) time.Time {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return today.AddDate(0, 0, -(days - 1))
}

// FilterBlocksByDays returns only log blocks whose timestamp falls within
// the last N calendar days, and the number of blocks dropped.
func FilterBlocksByDays(content string, days int) (string, int) {
	cutoff := DayCutoff(days)

	var kept []string
	removed := 0
	for _, block := range SplitBlocks(content) {
		firstLine := block
		if idx := strings.Index(block, "\n"); idx > 0 {
			firstLine = block[:idx]
		}
		ts, ok := ExtractTimestamp(firstLine)
		if ok && !ts.In(cutoff.Location()).Before(cutoff) {
			kept = append(kept, block)
		} else {
			removed++
		}
	}
	return strings.Join(kept, "\n\n"), removed
}

// ExtractTimestamp parses the RFC3339 timestamp at the start of a log line
// (everything before the first "  " double-space separator). Returns the
// parsed time and true on success, or zero time and false on failure.
func ExtractTimestamp(line string) (time.Time, bool) {
	tsEnd := strings.Index(line, "  ")
	if tsEnd < 0 {
		return time.Time{}, false
	}
	ts, err := time.Parse(time.RFC3339, line[:tsEnd])
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// extractField returns the value after "key=" in a space-separated line.
// Returns "" if not found.
func extractField(line, key string) string {
	prefix := key + "="
	for _, field := range strings.Fields(line) {
		if strings.HasPrefix(field, prefix) {
			return field[len(prefix):]
		}
	}
	return ""
}

// hasField returns true if "key=" appears in the line with a value.
func hasField(line, key string) bool {
	return extractField(line, key) != ""
}

// extractQuotedField returns the %q-decoded value of key="..." in line.
func extractQuotedField(line, key string) string {
	marker := "  " + key + "=\""
	idx := strings.Index(line, marker)
	if idx < 0 {
		return ""
	}
	return extractQuoted(line[idx+len(marker)-1:])
}

// extractQuoted extracts a Go %q-encoded string from the start of s.
// It finds the matching closing quote (respecting backslash escapes),
// then uses strconv.Unquote to decode the value. Returns "" on failure.
func extractQuoted(s string) string {
	if len(s) == 0 || s[0] != '"' {
		return ""
	}
	// Find closing quote (skip escaped quotes).
	for i := 1; i < len(s); i++ {
		if s[i] == '\\' {
			i++ // skip escaped character
			continue
		}
		if s[i] == '"' {
			text, err := strconv.Unquote(s[:i+1])
			if err != nil {
				return ""
			}
			return text
		}
	}
	return ""
}
