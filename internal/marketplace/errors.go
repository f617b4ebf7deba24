package marketplace

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// GenericErrorMessage is shown when the marketplace gives no reason of its own.
const GenericErrorMessage = "Something went wrong. Please try again."

// ErrAuthExpired is returned for any 401 answer. The caller must drop the
// stored token and send the user back to sign in.
var ErrAuthExpired = errors.New("marketplace session expired")

// TransportError is a network failure or a non-2xx answer from the marketplace.
type TransportError struct {
	Op      string
	Status  int    // zero when no response arrived
	Message string // server-provided, may be empty
	Err     error
}

func (e *TransportError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Message)
	default:
		return fmt.Sprintf("%s: status %d", e.Op, e.Status)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// UserMessage is the text to show in the error banner.
func (e *TransportError) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return GenericErrorMessage
}

// UserMessage extracts the banner text from any error returned by Client.
func UserMessage(err error) string {
	var terr *TransportError
	if errors.As(err, &terr) {
		return terr.UserMessage()
	}
	return GenericErrorMessage
}

// serverMessage pulls a human readable reason out of an error body. The API
// answers with {"message": ...}, ProblemDetails, or validation maps depending
// on the endpoint.
func serverMessage(body []byte) string {
	var payload struct {
		Message string              `json:"message"`
		Detail  string              `json:"detail"`
		Title   string              `json:"title"`
		Error   string              `json:"error"`
		Errors  map[string][]string `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		text := strings.TrimSpace(string(body))
		if text == "" || strings.HasPrefix(text, "<") {
			return ""
		}
		return text
	}
	for _, m := range []string{payload.Message, payload.Detail, payload.Error} {
		if m != "" {
			return m
		}
	}
	for _, msgs := range payload.Errors {
		if len(msgs) > 0 {
			return msgs[0]
		}
	}
	return payload.Title
}
