package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionWithRoster(ids ...string) *Session {
	s := New("Lunch", time.Hour)
	for _, id := range ids {
		s.AddRestaurant(Restaurant{ID: id})
	}
	return s
}

func TestCastVote(t *testing.T) {
	t.Run("rejects restaurant missing from roster", func(t *testing.T) {
		s := newSessionWithRoster("r1")

		err := s.CastVote("r9", "u1", Up)
		assert.ErrorIs(t, err, ErrUnknownRestaurant)
		// No tally may be created for the rejected ballot.
		assert.Empty(t, s.Votes)
	})

	t.Run("creates tally lazily on first ballot", func(t *testing.T) {
		s := newSessionWithRoster("r1", "r2")

		require.NoError(t, s.CastVote("r1", "u1", Up))
		require.Len(t, s.Votes, 1)
		assert.Equal(t, "r1", s.Votes[0].RestaurantID)
		assert.Equal(t, []string{"u1"}, s.Votes[0].Upvotes)
		assert.Empty(t, s.Votes[0].Downvotes)
	})

	t.Run("repeating the same direction is a no-op", func(t *testing.T) {
		s := newSessionWithRoster("r1")

		require.NoError(t, s.CastVote("r1", "u1", Up))
		require.NoError(t, s.CastVote("r1", "u1", Up))

		up, down := s.Tally("r1")
		assert.Equal(t, 1, up)
		assert.Equal(t, 0, down)
	})

	t.Run("opposite direction flips the ballot", func(t *testing.T) {
		s := newSessionWithRoster("r1")

		require.NoError(t, s.CastVote("r1", "u1", Up))
		require.NoError(t, s.CastVote("r1", "u1", Down))

		up, down := s.Tally("r1")
		assert.Equal(t, 0, up)
		assert.Equal(t, 1, down)

		require.NoError(t, s.CastVote("r1", "u1", Up))
		up, down = s.Tally("r1")
		assert.Equal(t, 1, up)
		assert.Equal(t, 0, down)
	})

	t.Run("a user is never in both member lists", func(t *testing.T) {
		s := newSessionWithRoster("r1", "r2")

		moves := []struct {
			restaurant string
			user       string
			dir        Direction
		}{
			{"r1", "u1", Up}, {"r1", "u2", Down}, {"r1", "u1", Down},
			{"r2", "u1", Up}, {"r1", "u1", Up}, {"r1", "u2", Up},
			{"r2", "u1", Down}, {"r1", "u1", Up},
		}
		for _, m := range moves {
			require.NoError(t, s.CastVote(m.restaurant, m.user, m.dir))
		}

		for _, tally := range s.Votes {
			seen := map[string]int{}
			for _, id := range tally.Upvotes {
				seen[id]++
			}
			for _, id := range tally.Downvotes {
				seen[id]++
			}
			for id, n := range seen {
				assert.Equal(t, 1, n, "user %s appears %d times in tally %s", id, n, tally.RestaurantID)
			}
		}
	})

	t.Run("votes on one restaurant leave others alone", func(t *testing.T) {
		s := newSessionWithRoster("r1", "r2")

		require.NoError(t, s.CastVote("r1", "u1", Up))
		require.NoError(t, s.CastVote("r2", "u1", Up))
		require.NoError(t, s.CastVote("r2", "u1", Down))

		up, down := s.Tally("r1")
		assert.Equal(t, 1, up)
		assert.Equal(t, 0, down)
	})
}

func TestTallyIsPure(t *testing.T) {
	s := newSessionWithRoster("r1")
	require.NoError(t, s.CastVote("r1", "u1", Up))
	require.NoError(t, s.CastVote("r1", "u2", Down))

	up1, down1 := s.Tally("r1")
	up2, down2 := s.Tally("r1")
	assert.Equal(t, up1, up2)
	assert.Equal(t, down1, down2)

	// Unknown restaurants tally as zero without creating anything.
	up, down := s.Tally("r9")
	assert.Zero(t, up)
	assert.Zero(t, down)
	assert.Len(t, s.Votes, 1)
}

func castMany(t *testing.T, s *Session, restaurantID string, ups, downs int) {
	t.Helper()
	for i := 0; i < ups; i++ {
		require.NoError(t, s.CastVote(restaurantID, restaurantID+"-up-"+string(rune('a'+i)), Up))
	}
	for i := 0; i < downs; i++ {
		require.NoError(t, s.CastVote(restaurantID, restaurantID+"-down-"+string(rune('a'+i)), Down))
	}
}

func TestStandings(t *testing.T) {
	t.Run("net score descending, ties keep insertion order", func(t *testing.T) {
		s := newSessionWithRoster("A", "B", "C")
		castMany(t, s, "A", 3, 1)
		castMany(t, s, "B", 2, 0)
		castMany(t, s, "C", 2, 0)

		standings := s.Standings()
		require.Len(t, standings, 3)
		assert.Equal(t, "A", standings[0].RestaurantID)
		assert.Equal(t, "B", standings[1].RestaurantID)
		assert.Equal(t, "C", standings[2].RestaurantID)
		assert.Equal(t, 2, standings[0].Score)
	})

	t.Run("zero-vote entry ranks below a voted entry at equal score", func(t *testing.T) {
		s := newSessionWithRoster("quiet", "split")
		castMany(t, s, "split", 1, 1) // score 0, same as the untouched entry

		standings := s.Standings()
		assert.Equal(t, "split", standings[0].RestaurantID)
		assert.Equal(t, "quiet", standings[1].RestaurantID)
	})

	t.Run("deterministic across repeated calls", func(t *testing.T) {
		s := newSessionWithRoster("A", "B", "C", "D")
		castMany(t, s, "B", 1, 0)
		castMany(t, s, "C", 1, 0)

		first := s.Standings()
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, s.Standings())
		}
	})
}

func TestWinner(t *testing.T) {
	t.Run("no ballots means no winner", func(t *testing.T) {
		s := newSessionWithRoster("A", "B")
		_, ok := s.Winner()
		assert.False(t, ok)
	})

	t.Run("zero-vote entry never wins even when negatives lead the score", func(t *testing.T) {
		s := newSessionWithRoster("quiet", "hated")
		castMany(t, s, "hated", 0, 2)

		winner, ok := s.Winner()
		require.True(t, ok)
		assert.Equal(t, "hated", winner.RestaurantID)
	})

	t.Run("highest net score wins", func(t *testing.T) {
		s := newSessionWithRoster("A", "B")
		castMany(t, s, "A", 1, 0)
		castMany(t, s, "B", 3, 1)

		winner, ok := s.Winner()
		require.True(t, ok)
		assert.Equal(t, "B", winner.RestaurantID)
		assert.Equal(t, 2, winner.Score)
	})
}
