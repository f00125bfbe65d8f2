package failure

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("failed to post entry: %w", Authentication(403))

	if KindOf(err) != KindAuthentication {
		t.Errorf("Expected kind authentication, got: %s", KindOf(err))
	}
	if KindOf(errors.New("plain")) != KindUnknown {
		t.Error("Expected unknown kind for a plain error")
	}
}

func TestFeedErrorsEmbedURL(t *testing.T) {
	url := "http://example.blogspot.com/feeds/posts/default?max-results=1073741824"

	for _, err := range []*Error{FeedDownload(url, nil), FeedParse(url, errors.New("boom"))} {
		if !strings.Contains(err.Error(), url) {
			t.Errorf("Expected %s message to contain the URL, got: %s", err.Kind, err.Error())
		}
		if err.Safe {
			t.Errorf("Expected %s message to require escaping", err.Kind)
		}
		if !err.Fatal() {
			t.Errorf("Expected %s to be fatal", err.Kind)
		}
	}
}

func TestSummaryOnlyIsSafe(t *testing.T) {
	err := SummaryOnly()

	if !IsSafe(err) {
		t.Error("Expected summary-only message to be marked safe")
	}
	if !strings.Contains(err.Error(), `<a href="`) {
		t.Errorf("Expected remediation link in message, got: %s", err.Error())
	}
	if IsSafe(Client(400, "<b>bad</b>")) {
		t.Error("Expected client error message to require escaping")
	}
}

func TestRetryableAndFatal(t *testing.T) {
	tests := []struct {
		err       *Error
		retryable bool
		fatal     bool
	}{
		{InputMissing("Blogger Feed URL required."), false, false},
		{Authentication(403), false, true},
		{Client(404, "not found"), false, true},
		{Transient(503, "busy", nil), true, false},
	}

	for _, tt := range tests {
		if tt.err.Retryable != tt.retryable {
			t.Errorf("%s: expected retryable %v, got %v", tt.err.Kind, tt.retryable, tt.err.Retryable)
		}
		if tt.err.Fatal() != tt.fatal {
			t.Errorf("%s: expected fatal %v, got %v", tt.err.Kind, tt.fatal, tt.err.Fatal())
		}
	}
}

func TestClientMessage(t *testing.T) {
	err := Client(400, "Missing body")

	if err.Error() != "Error 400: Missing body\n" {
		t.Errorf("Unexpected message: %q", err.Error())
	}
}
