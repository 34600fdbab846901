package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByUsernameCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	users := NewUsers(db)
	seedUser(t, db, "Alice")

	for _, name := range []string{"Alice", "alice", "ALICE"} {
		got, err := users.ByUsername(name)
		require.NoError(t, err, name)
		assert.Equal(t, "Alice", got.Username)
	}

	_, err := users.ByUsername("bob")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUsernameTakenIgnoresCase(t *testing.T) {
	db := newTestDB(t)
	users := NewUsers(db)
	seedUser(t, db, "Alice")

	taken, err := users.UsernameTaken("aLiCe")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = users.UsernameTaken("bob")
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestUpdateProfileOverwrites(t *testing.T) {
	db := newTestDB(t)
	users := NewUsers(db)
	alice := seedUser(t, db, "alice")

	require.NoError(t, users.UpdateProfile(alice.ID, "a@example.com", "hi there"))

	got, err := users.ByID(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", got.Email)
	assert.Equal(t, "hi there", got.Message)

	// A second update replaces, including with empty values.
	require.NoError(t, users.UpdateProfile(alice.ID, "", ""))
	got, err = users.ByID(alice.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Email)
	assert.Empty(t, got.Message)
}

func TestLeaderboardOrdersByCount(t *testing.T) {
	db := newTestDB(t)
	users := NewUsers(db)

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	seedUser(t, db, "carol") // no avatars, not listed

	for i := 0; i < 3; i++ {
		seedAvatar(t, db, alice.ID, hashN(i), i%2 == 0, 100, 100)
	}
	seedAvatar(t, db, bob.ID, hashN(10), false, 100, 100)

	rows, err := users.Leaderboard(LeaderboardLimit)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Counts include disabled avatars.
	assert.Equal(t, "alice", rows[0].Username)
	assert.EqualValues(t, 3, rows[0].Count)
	assert.Equal(t, "bob", rows[1].Username)
	assert.EqualValues(t, 1, rows[1].Count)
}
