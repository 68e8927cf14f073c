// Package session holds the group voting session domain: the session record
// itself, its roster of candidate restaurants and the per-restaurant vote
// tallies. Everything in this package is pure in-memory logic; persistence
// lives in the storage package.
package session

import (
	"time"

	"github.com/google/uuid"
)

// DefaultName is used when a session is created without an explicit name.
const DefaultName = "Default Session"

// Session is the shared record a group votes on. Its JSON form is the
// canonical wire representation: clients store and compare the exact ids
// inside the vote arrays, so counts are always derived from membership and
// never stored as bare integers.
type Session struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Restaurants []Restaurant `json:"restaurants"`
	Votes       []*VoteTally `json:"votes"`
	CreatedAt   time.Time    `json:"createdAt"`
	// Expires is epoch milliseconds. The backing store also expires the
	// record physically; this field lets readers treat a stale record as
	// absent before the store sweeps it.
	Expires int64 `json:"expires"`
}

// New builds a fresh session with a random id, an empty roster and no votes.
func New(name string, ttl time.Duration) *Session {
	if name == "" {
		name = DefaultName
	}
	now := time.Now().UTC()
	return &Session{
		ID:          uuid.NewString(),
		Name:        name,
		Restaurants: []Restaurant{},
		Votes:       []*VoteTally{},
		CreatedAt:   now,
		Expires:     now.Add(ttl).UnixMilli(),
	}
}

// Touch pushes the expiry out to now + ttl.
func (s *Session) Touch(ttl time.Duration) {
	s.Expires = time.Now().UTC().Add(ttl).UnixMilli()
}

// Expired reports whether the session should be treated as absent.
func (s *Session) Expired(now time.Time) bool {
	return now.UnixMilli() > s.Expires
}

// Normalize brings a deserialized or client-supplied record back to the
// canonical shape: nil slices become empty arrays, duplicate roster entries
// and duplicate tallies collapse to their first occurrence, each ballot list
// names a user at most once, and a user found on both sides of a tally
// keeps the upvote. Records go through here before any other code touches
// them.
func (s *Session) Normalize() {
	if s.Restaurants == nil {
		s.Restaurants = []Restaurant{}
	}
	seenRestaurants := make(map[string]bool, len(s.Restaurants))
	roster := s.Restaurants[:0]
	for _, r := range s.Restaurants {
		if seenRestaurants[r.ID] {
			continue
		}
		seenRestaurants[r.ID] = true
		roster = append(roster, r)
	}
	s.Restaurants = roster

	if s.Votes == nil {
		s.Votes = []*VoteTally{}
	}
	seenTallies := make(map[string]bool, len(s.Votes))
	tallies := s.Votes[:0]
	for _, t := range s.Votes {
		if seenTallies[t.RestaurantID] {
			continue
		}
		seenTallies[t.RestaurantID] = true
		t.Upvotes = dedupeUsers(t.Upvotes)
		t.Downvotes = dedupeUsers(t.Downvotes)

		up := make(map[string]bool, len(t.Upvotes))
		for _, u := range t.Upvotes {
			up[u] = true
		}
		down := t.Downvotes[:0]
		for _, u := range t.Downvotes {
			if !up[u] {
				down = append(down, u)
			}
		}
		t.Downvotes = down
		tallies = append(tallies, t)
	}
	s.Votes = tallies
}

func dedupeUsers(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	seen := make(map[string]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// AddRestaurant appends r to the roster unless a restaurant with the same id
// is already present. Returns true when the roster changed. Participants may
// discover the same place independently and retry blindly, so duplicate
// insertion is a successful no-op, and insertion order is preserved.
func (s *Session) AddRestaurant(r Restaurant) bool {
	for _, existing := range s.Restaurants {
		if existing.ID == r.ID {
			return false
		}
	}
	s.Restaurants = append(s.Restaurants, r)
	return true
}

// HasRestaurant reports whether a restaurant with the given id is on the
// roster.
func (s *Session) HasRestaurant(id string) bool {
	for _, r := range s.Restaurants {
		if r.ID == id {
			return true
		}
	}
	return false
}
