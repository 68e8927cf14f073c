package session

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSession(t *testing.T) {
	t.Run("assigns id and expiry", func(t *testing.T) {
		before := time.Now().UTC()
		s := New("Lunch", 24*time.Hour)

		assert.NotEmpty(t, s.ID)
		assert.Equal(t, "Lunch", s.Name)
		assert.Empty(t, s.Restaurants)
		assert.Empty(t, s.Votes)
		assert.False(t, s.CreatedAt.Before(before))
		assert.GreaterOrEqual(t, s.Expires, before.Add(24*time.Hour).UnixMilli())
	})

	t.Run("falls back to default name", func(t *testing.T) {
		s := New("", time.Hour)
		assert.Equal(t, DefaultName, s.Name)
	})

	t.Run("two sessions never share an id", func(t *testing.T) {
		assert.NotEqual(t, New("a", time.Hour).ID, New("b", time.Hour).ID)
	})
}

func TestSessionWireShape(t *testing.T) {
	s := New("Lunch", time.Hour)

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &fields))
	for _, key := range []string{"id", "name", "restaurants", "votes", "createdAt", "expires"} {
		assert.Contains(t, fields, key)
	}
	// Empty collections go out as arrays, never null.
	assert.Equal(t, "[]", string(fields["restaurants"]))
	assert.Equal(t, "[]", string(fields["votes"]))
}

func TestAddRestaurant(t *testing.T) {
	t.Run("duplicate id is a no-op", func(t *testing.T) {
		s := New("Lunch", time.Hour)

		assert.True(t, s.AddRestaurant(Restaurant{ID: "r1"}))
		assert.False(t, s.AddRestaurant(Restaurant{ID: "r1"}))
		assert.Len(t, s.Restaurants, 1)
	})

	t.Run("insertion order is preserved", func(t *testing.T) {
		s := New("Lunch", time.Hour)
		for _, id := range []string{"r3", "r1", "r2"} {
			s.AddRestaurant(Restaurant{ID: id})
		}
		s.AddRestaurant(Restaurant{ID: "r1"})

		ids := make([]string, 0, len(s.Restaurants))
		for _, r := range s.Restaurants {
			ids = append(ids, r.ID)
		}
		assert.Equal(t, []string{"r3", "r1", "r2"}, ids)
	})
}

func TestRestaurantBlobRoundTrip(t *testing.T) {
	blob := `{"id":"r1","name":"Taqueria","address":"1 Main St","rating":4.5,` +
		`"priceLevel":2,"placeId":"gp-123","location":{"lat":37.77,"lng":-122.41}}`

	var r Restaurant
	require.NoError(t, json.Unmarshal([]byte(blob), &r))
	assert.Equal(t, "r1", r.ID)

	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, blob, string(out))
}

func TestSessionJSONRoundTrip(t *testing.T) {
	s := New("Lunch", time.Hour)
	var r Restaurant
	require.NoError(t, json.Unmarshal([]byte(`{"id":"r1","name":"Taqueria","rating":4.5}`), &r))
	s.AddRestaurant(r)
	require.NoError(t, s.CastVote("r1", "u1", Up))

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded Session
	require.NoError(t, json.Unmarshal(data, &decoded))
	decoded.Normalize()

	assert.Equal(t, s.ID, decoded.ID)
	require.Len(t, decoded.Restaurants, 1)
	assert.Equal(t, "r1", decoded.Restaurants[0].ID)
	up, down := decoded.Tally("r1")
	assert.Equal(t, 1, up)
	assert.Equal(t, 0, down)
}

func TestNormalize(t *testing.T) {
	var s Session
	require.NoError(t, json.Unmarshal([]byte(`{"id":"s1","name":"x","restaurants":null,"votes":[{"restaurantId":"r1","upvotes":null,"downvotes":null}]}`), &s))
	s.Normalize()

	assert.NotNil(t, s.Restaurants)
	require.Len(t, s.Votes, 1)
	assert.NotNil(t, s.Votes[0].Upvotes)
	assert.NotNil(t, s.Votes[0].Downvotes)
}

func TestNormalizeRepairsDirtyRecords(t *testing.T) {
	t.Run("duplicate roster entries collapse to the first", func(t *testing.T) {
		var s Session
		require.NoError(t, json.Unmarshal([]byte(`{"id":"s1","restaurants":[{"id":"r1","name":"first"},{"id":"r2"},{"id":"r1","name":"second"}],"votes":[]}`), &s))
		s.Normalize()

		require.Len(t, s.Restaurants, 2)
		assert.Equal(t, "r1", s.Restaurants[0].ID)
		assert.Equal(t, "r2", s.Restaurants[1].ID)
	})

	t.Run("duplicate tallies collapse to the first", func(t *testing.T) {
		var s Session
		require.NoError(t, json.Unmarshal([]byte(`{"id":"s1","restaurants":[],"votes":[{"restaurantId":"r1","upvotes":["u1"],"downvotes":[]},{"restaurantId":"r1","upvotes":["u2"],"downvotes":[]}]}`), &s))
		s.Normalize()

		require.Len(t, s.Votes, 1)
		assert.Equal(t, []string{"u1"}, s.Votes[0].Upvotes)
	})

	t.Run("ballot lists carry a user at most once", func(t *testing.T) {
		var s Session
		require.NoError(t, json.Unmarshal([]byte(`{"id":"s1","restaurants":[],"votes":[{"restaurantId":"r1","upvotes":["u1","u1","u2"],"downvotes":["u3","u3"]}]}`), &s))
		s.Normalize()

		assert.Equal(t, []string{"u1", "u2"}, s.Votes[0].Upvotes)
		assert.Equal(t, []string{"u3"}, s.Votes[0].Downvotes)
	})

	t.Run("a user on both sides keeps the upvote", func(t *testing.T) {
		var s Session
		require.NoError(t, json.Unmarshal([]byte(`{"id":"s1","restaurants":[],"votes":[{"restaurantId":"r1","upvotes":["u1"],"downvotes":["u1","u2"]}]}`), &s))
		s.Normalize()

		assert.Equal(t, []string{"u1"}, s.Votes[0].Upvotes)
		assert.Equal(t, []string{"u2"}, s.Votes[0].Downvotes)
	})
}

func TestExpired(t *testing.T) {
	s := New("Lunch", time.Hour)
	now := time.Now().UTC()

	assert.False(t, s.Expired(now))
	assert.True(t, s.Expired(now.Add(2*time.Hour)))

	s.Touch(3 * time.Hour)
	assert.False(t, s.Expired(now.Add(2*time.Hour)))
}
