package session

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

// memRepo is an in-memory Repository; failing toggles persistence errors.
type memRepo struct {
	sess    Session
	failing bool
}

func (r *memRepo) Load() (Session, error) {
	if r.failing {
		return Session{}, errors.New("storage unavailable")
	}
	return r.sess, nil
}

func (r *memRepo) Save(sess Session) error {
	if r.failing {
		return errors.New("storage unavailable")
	}
	r.sess = sess
	return nil
}

func (r *memRepo) Clear() error {
	if r.failing {
		return errors.New("storage unavailable")
	}
	r.sess = Session{}
	return nil
}

func TestStore_SetToken(t *testing.T) {
	repo := &memRepo{}
	store := NewStore(repo)

	assert.False(t, store.Authenticated())
	assert.NoError(t, store.SetToken("tok-1"))
	assert.True(t, store.Authenticated())
	assert.Equal(t, "tok-1", store.Token())

	// durable storage reflects the token before callers observe memory
	assert.Equal(t, "tok-1", repo.sess.Token)

	assert.Equal(t, ErrEmptyToken, store.SetToken(""))
	assert.Equal(t, "tok-1", store.Token())
}

func TestStore_ClearToken(t *testing.T) {
	repo := &memRepo{}
	store := NewStore(repo)

	assert.NoError(t, store.SetToken("tok-1"))
	store.ClearToken()
	assert.False(t, store.Authenticated())
	assert.Empty(t, store.Token())
	assert.Empty(t, repo.sess.Token)

	// clearing an empty session is a no-op, never an error
	store.ClearToken()
	assert.False(t, store.Authenticated())
}

func TestStore_restartRecoversToken(t *testing.T) {
	repo := &memRepo{}
	store := NewStore(repo)
	assert.NoError(t, store.SetToken("tok-42"))

	// simulated process restart: a fresh store over the same storage
	restarted := NewStore(repo)
	assert.Equal(t, "tok-42", restarted.Token())
	assert.True(t, restarted.Authenticated())
}

func TestStore_degradedStorage(t *testing.T) {
	repo := &memRepo{failing: true}
	store := NewStore(repo)
	assert.True(t, store.Degraded())

	// storage failures are silent; the in-memory value still works
	assert.NoError(t, store.SetToken("tok-1"))
	assert.True(t, store.Authenticated())
	assert.Equal(t, "tok-1", store.Token())

	store.ClearToken()
	assert.False(t, store.Authenticated())
}

func TestStore_Notify(t *testing.T) {
	store := NewStore(&memRepo{})

	var seen []string
	store.Notify(func(sess Session) { seen = append(seen, sess.Token) })

	assert.NoError(t, store.SetToken("a"))
	assert.NoError(t, store.SetToken("b"))
	store.ClearToken()
	store.ClearToken() // no-op, no notification

	assert.Equal(t, []string{"a", "b", ""}, seen)
}
