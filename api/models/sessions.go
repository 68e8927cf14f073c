package models

import "github.com/jsaveker/fork-it-app/session"

type CreateSessionRequest struct {
	Name string `json:"name"`
}

// ResolveSessionRequest asks for an existing session by id, falling back to
// a fresh one. The id in the response is the authoritative one and may
// differ from SessionID.
type ResolveSessionRequest struct {
	SessionID string `json:"sessionId"`
	Name      string `json:"name"`
}

// UpdateSessionRequest merges at the field level: absent fields leave the
// stored value alone, present ones replace it wholesale.
type UpdateSessionRequest struct {
	Name        string               `json:"name"`
	Restaurants []session.Restaurant `json:"restaurants"`
	Votes       []*session.VoteTally `json:"votes"`
}

type DeleteSessionResponse struct {
	Success bool `json:"success"`
}
