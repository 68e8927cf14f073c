package models

import "github.com/jsaveker/fork-it-app/session"

// RegisterVoteRequest is one user's ballot. An absent isUpvote means a
// downvote, matching the boolean wire field.
type RegisterVoteRequest struct {
	SessionID    string `json:"sessionId"`
	RestaurantID string `json:"restaurantId"`
	UserID       string `json:"userId"`
	IsUpvote     bool   `json:"isUpvote"`
}

type AddRestaurantRequest struct {
	SessionID  string             `json:"sessionId"`
	Restaurant session.Restaurant `json:"restaurant"`
}

type OptionRequest struct {
	Name string `json:"name"`
}
