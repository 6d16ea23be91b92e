// Package httputil holds the shared HTTP client and response helpers used
// by the webhook notifier.
package httputil

import (
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is a shared HTTP client with a 15-second timeout so an
// unresponsive endpoint cannot stall a generation run.
var Client = &http.Client{Timeout: 15 * time.Second}

// snippetLen bounds how much of an error body is quoted.
const snippetLen = 200

// CheckStatus returns an error if the response status code is not 2xx.
// The prefix is included in the error message for context.
func CheckStatus(resp *http.Response, prefix string) error {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s returned %d: %s", prefix, resp.StatusCode, ReadSnippet(resp.Body))
	}
	return nil
}

// ReadSnippet reads up to 200 bytes from r for inclusion in error messages.
func ReadSnippet(r io.Reader) string {
	buf := make([]byte, snippetLen)
	n, _ := io.ReadFull(r, buf)
	if n == 0 {
		return "(empty body)"
	}
	s := string(buf[:n])
	if n == snippetLen {
		s += "..."
	}
	return s
}
