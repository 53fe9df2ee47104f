package event

import (
	"fmt"
	"net/http"
	"time"
)

// Kind classifies a dashboard event.
type Kind string

const (
	KindStatus     Kind = "status"     // HTTP response status once headers arrive
	KindDone       Kind = "done"       // one full file cycle completed
	KindRetry      Kind = "retry"      // reconnect attempt or backoff announcement
	KindError      Kind = "error"      // transient connection fault
	KindUnexpected Kind = "unexpected" // any other fault while streaming
)

// Event is one dashboard record. Events are produced by listener state
// machines and consumed with bounded retention; nothing reads them back.
type Event struct {
	ListenerID string
	Kind       Kind
	Detail     string
	StatusCode int // set only for KindStatus
	Timestamp  time.Time
}

// Status builds the event recorded when response headers arrive.
func Status(listenerID string, code int) Event {
	return Event{
		ListenerID: listenerID,
		Kind:       KindStatus,
		Detail:     StatusText(code),
		StatusCode: code,
		Timestamp:  time.Now(),
	}
}

// Done builds the event recorded after a full file cycle.
func Done(listenerID string) Event {
	return Event{ListenerID: listenerID, Kind: KindDone, Detail: "DONE", Timestamp: time.Now()}
}

// Retry builds the event recorded at the start of every connection attempt
// after the first.
func Retry(listenerID string, attempt int) Event {
	return Event{
		ListenerID: listenerID,
		Kind:       KindRetry,
		Detail:     fmt.Sprintf("RETRY #%d", attempt),
		Timestamp:  time.Now(),
	}
}

// RetryIn builds the event announcing the delay before the next attempt.
func RetryIn(listenerID string, delay time.Duration) Event {
	return Event{
		ListenerID: listenerID,
		Kind:       KindRetry,
		Detail:     fmt.Sprintf("Retry in %ds", int(delay.Seconds())),
		Timestamp:  time.Now(),
	}
}

// Error builds the event recorded for a transient connection fault.
func Error(listenerID string, cause error) Event {
	return Event{
		ListenerID: listenerID,
		Kind:       KindError,
		Detail:     fmt.Sprintf("ERROR: %v", cause),
		Timestamp:  time.Now(),
	}
}

// Unexpected builds the event recorded for a fault outside the transient
// taxonomy.
func Unexpected(listenerID string, cause error) Event {
	return Event{
		ListenerID: listenerID,
		Kind:       KindUnexpected,
		Detail:     fmt.Sprintf("UNEXPECTED: %v", cause),
		Timestamp:  time.Now(),
	}
}

// StatusText formats an HTTP status code with its registry phrase,
// e.g. "200 OK". Unknown codes render as the bare number.
func StatusText(code int) string {
	phrase := http.StatusText(code)
	if phrase == "" {
		return fmt.Sprintf("%d", code)
	}
	return fmt.Sprintf("%d %s", code, phrase)
}

// Class buckets an HTTP status code for presentation.
type Class int

const (
	ClassOther Class = iota
	ClassSuccess
	ClassRedirect
	ClassClientError
	ClassServerError
)

// StatusClass returns the presentation bucket for an HTTP status code.
func StatusClass(code int) Class {
	switch {
	case code >= 200 && code < 300:
		return ClassSuccess
	case code >= 300 && code < 400:
		return ClassRedirect
	case code >= 400 && code < 500:
		return ClassClientError
	case code >= 500 && code < 600:
		return ClassServerError
	default:
		return ClassOther
	}
}
