package httputil

import (
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestReadSnippetEmpty(t *testing.T) {
	got := ReadSnippet(strings.NewReader(""))
	if got != "(empty body)" {
		t.Errorf("got %q, want %q", got, "(empty body)")
	}
}

func TestReadSnippetShort(t *testing.T) {
	got := ReadSnippet(strings.NewReader("hello"))
	if got != "hello" {
		t.Errorf("got %q, want %q", got, "hello")
	}
}

func TestReadSnippetTruncates(t *testing.T) {
	got := ReadSnippet(strings.NewReader(strings.Repeat("x", 300)))
	if !strings.HasSuffix(got, "...") {
		t.Error("expected trailing ellipsis for long input")
	}
	if len(got) != snippetLen+3 {
		t.Errorf("got length %d, want %d", len(got), snippetLen+3)
	}
}

func response(code int, body string) *http.Response {
	return &http.Response{StatusCode: code, Body: io.NopCloser(strings.NewReader(body))}
}

func TestCheckStatus(t *testing.T) {
	tests := []struct {
		code    int
		wantErr bool
	}{
		{200, false},
		{204, false},
		{299, false},
		{301, true},
		{404, true},
		{500, true},
	}
	for _, tt := range tests {
		err := CheckStatus(response(tt.code, "nope"), "webhook")
		if (err != nil) != tt.wantErr {
			t.Errorf("CheckStatus(%d) err = %v, wantErr %v", tt.code, err, tt.wantErr)
		}
	}
}

func TestCheckStatusMessage(t *testing.T) {
	err := CheckStatus(response(503, "down for maintenance"), "webhook")
	if err == nil {
		t.Fatal("expected error")
	}
	want := "webhook returned 503: down for maintenance"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}
