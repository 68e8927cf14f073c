package session

import (
	"errors"
	"sort"
)

// ErrUnknownRestaurant is returned when a ballot names a restaurant that is
// not on the session roster. The session is left untouched in that case.
var ErrUnknownRestaurant = errors.New("restaurant is not on the session roster")

// Direction is the way a ballot points.
type Direction int

const (
	Up Direction = iota
	Down
)

// VoteTally tracks who currently votes which way on one restaurant. The two
// member lists are disjoint: a user appears in at most one of them at any
// time. Counts are always len(Upvotes)/len(Downvotes), never stored.
type VoteTally struct {
	RestaurantID string   `json:"restaurantId"`
	Upvotes      []string `json:"upvotes"`
	Downvotes    []string `json:"downvotes"`
}

func (t *VoteTally) retract(userID string) {
	t.Upvotes = removeID(t.Upvotes, userID)
	t.Downvotes = removeID(t.Downvotes, userID)
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// CastVote applies one user's ballot for one restaurant. The operation is a
// replace, not an increment: any prior vote by the user on that restaurant
// is retracted first, so repeating the same direction is a no-op and voting
// the opposite direction flips the ballot. The tally is created lazily on
// the first vote for a restaurant.
func (s *Session) CastVote(restaurantID, userID string, dir Direction) error {
	if !s.HasRestaurant(restaurantID) {
		return ErrUnknownRestaurant
	}
	t := s.tallyFor(restaurantID)
	t.retract(userID)
	if dir == Up {
		t.Upvotes = append(t.Upvotes, userID)
	} else {
		t.Downvotes = append(t.Downvotes, userID)
	}
	return nil
}

func (s *Session) tallyFor(restaurantID string) *VoteTally {
	for _, t := range s.Votes {
		if t.RestaurantID == restaurantID {
			return t
		}
	}
	t := &VoteTally{
		RestaurantID: restaurantID,
		Upvotes:      []string{},
		Downvotes:    []string{},
	}
	s.Votes = append(s.Votes, t)
	return t
}

// Tally derives the current counts for a restaurant. Restaurants nobody has
// voted on yet tally as 0/0. No I/O, no mutation.
func (s *Session) Tally(restaurantID string) (upvotes, downvotes int) {
	for _, t := range s.Votes {
		if t.RestaurantID == restaurantID {
			return len(t.Upvotes), len(t.Downvotes)
		}
	}
	return 0, 0
}

// Standing is one roster entry with its derived counts and net score.
type Standing struct {
	RestaurantID string `json:"restaurantId"`
	Upvotes      int    `json:"upvotes"`
	Downvotes    int    `json:"downvotes"`
	Score        int    `json:"score"`
}

func (st Standing) total() int { return st.Upvotes + st.Downvotes }

// Standings ranks the roster by net score descending. On equal score a
// restaurant somebody voted on outranks one nobody has touched, and the
// remaining ties keep roster insertion order, so repeated calls over the
// same record always produce the same order.
func (s *Session) Standings() []Standing {
	out := make([]Standing, 0, len(s.Restaurants))
	for _, r := range s.Restaurants {
		up, down := s.Tally(r.ID)
		out = append(out, Standing{
			RestaurantID: r.ID,
			Upvotes:      up,
			Downvotes:    down,
			Score:        up - down,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].total() > 0 && out[j].total() == 0
	})
	return out
}

// Winner returns the leading standing. A restaurant with zero total votes
// never leads, so there is no winner until at least one ballot exists.
func (s *Session) Winner() (Standing, bool) {
	for _, st := range s.Standings() {
		if st.total() > 0 {
			return st, true
		}
	}
	return Standing{}, false
}
