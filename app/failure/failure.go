// Package failure defines the error value shared by every stage of an import.
// Callers branch on Kind and on the explicit Retryable and Safe fields rather
// than on concrete error types.
package failure

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindInputMissing
	KindFeedDownload
	KindFeedParse
	KindSummaryOnly
	KindAuthentication
	KindClient
	KindTransient
)

func (k Kind) String() string {
	switch k {
	case KindInputMissing:
		return "input_missing"
	case KindFeedDownload:
		return "feed_download"
	case KindFeedParse:
		return "feed_parse"
	case KindSummaryOnly:
		return "summary_only"
	case KindAuthentication:
		return "authentication"
	case KindClient:
		return "client"
	case KindTransient:
		return "transient"
	default:
		return "unknown"
	}
}

// FeedSettingsURL is where Blogger explains how to switch the post feed to full content.
const FeedSettingsURL = "http://www.google.com/support/blogger/bin/answer.py?hl=en&amp;answer=42662"

type Error struct {
	Kind    Kind
	Message string
	URL     string // effective feed URL, set for download and parse failures
	Status  int    // HTTP status from the destination, 0 when none was received
	Body    string // destination response body

	// Safe marks Message as pre-sanitized markup that may be rendered unescaped.
	Safe bool
	// Retryable marks failures the poster recovers from by backing off.
	Retryable bool

	Err error
}

// Error returns the user-facing message; the cause is reachable through Unwrap.
func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Fatal reports whether the failure must abort the whole run.
func (e *Error) Fatal() bool {
	return !e.Retryable && e.Kind != KindInputMissing
}

func InputMissing(message string) *Error {
	return &Error{Kind: KindInputMissing, Message: message}
}

func FeedDownload(url string, cause error) *Error {
	return &Error{
		Kind:    KindFeedDownload,
		Message: "Unable to download feed contents; check that the URL of your feed is correct and publicly accessible.  You should be able to see your posts here: " + url,
		URL:     url,
		Err:     cause,
	}
}

func FeedParse(url string, cause error) *Error {
	return &Error{
		Kind:    KindFeedParse,
		Message: "XML parse error: could not find post entries; check your feed URL and make sure it is publicly accessible.  You should be able to see your posts here: " + url,
		URL:     url,
		Err:     cause,
	}
}

func SummaryOnly() *Error {
	return &Error{
		Kind: KindSummaryOnly,
		Message: "It looks like your blog's feed settings are only showing summaries, and this is preventing me from seeing your full posts.  " +
			"Change your <a href=\"" + FeedSettingsURL + "\" target=\"_blank\">blog posts feed settings</a> to \"Full\".",
		Safe: true,
	}
}

func Authentication(status int) *Error {
	return &Error{
		Kind:    KindAuthentication,
		Message: "Bad email or password",
		Status:  status,
	}
}

func Client(status int, body string) *Error {
	return &Error{
		Kind:    KindClient,
		Message: fmt.Sprintf("Error %d: %s\n", status, body),
		Status:  status,
		Body:    body,
	}
}

func Transient(status int, body string, cause error) *Error {
	return &Error{
		Kind:      KindTransient,
		Message:   fmt.Sprintf("Error %d: %s\n", status, body),
		Status:    status,
		Body:      body,
		Retryable: true,
		Err:       cause,
	}
}

// As returns the *Error in err's chain, if any.
func As(err error) (*Error, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

func KindOf(err error) Kind {
	if fe, ok := As(err); ok {
		return fe.Kind
	}
	return KindUnknown
}

// IsSafe reports whether err carries a message that is already valid markup.
func IsSafe(err error) bool {
	fe, ok := As(err)
	return ok && fe.Safe
}
