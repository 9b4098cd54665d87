package domain

import "strings"

// Request is the input of one activation. It is not modified after NewRequest.
type Request struct {
	OriginalURL string
	Extras      map[string]string
}

// NewRequest builds a Request, falling back to defaultURL when rawURL is blank.
// Extras are copied so the caller's map can be reused.
func NewRequest(rawURL string, extras map[string]string, defaultURL string) Request {
	u := strings.TrimSpace(rawURL)
	if u == "" {
		u = defaultURL
	}

	copied := make(map[string]string, len(extras))
	for k, v := range extras {
		copied[k] = v
	}

	return Request{
		OriginalURL: u,
		Extras:      copied,
	}
}

// Report summarizes how an activation ended.
type Report struct {
	ActivationID string
	Final        Outcome
	SharedURL    string
	Copied       bool
	Err          error
}

// Shared reports whether a URL reached the share collaborator.
func (r Report) Shared() bool {
	return r.SharedURL != ""
}
