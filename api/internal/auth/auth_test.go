package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"promptify/api/internal/store"
)

type memUsers struct {
	mu    sync.Mutex
	next  int64
	users map[int64]*store.User
}

func newMemUsers() *memUsers { return &memUsers{users: map[int64]*store.User{}} }

func (m *memUsers) Create(_ context.Context, u *store.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.Email = store.NormalizeEmail(u.Email)
	for _, x := range m.users {
		if x.Email == u.Email || (u.GoogleID != "" && x.GoogleID == u.GoogleID) {
			return store.ErrDuplicate
		}
	}
	m.next++
	u.ID, u.CreatedAt = m.next, time.Now()
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memUsers) find(match func(*store.User) bool) (*store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*store.User, error) {
	email = store.NormalizeEmail(email)
	return m.find(func(u *store.User) bool { return u.Email == email })
}

func (m *memUsers) FindByID(_ context.Context, id int64) (*store.User, error) {
	return m.find(func(u *store.User) bool { return u.ID == id })
}

func (m *memUsers) FindByGoogleID(_ context.Context, gid string) (*store.User, error) {
	return m.find(func(u *store.User) bool { return u.GoogleID == gid })
}

func (m *memUsers) LinkGoogleID(_ context.Context, id int64, gid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.GoogleID = gid
	return nil
}

type fakeGoogle map[string]*GoogleIdentity

func (f fakeGoogle) Verify(_ context.Context, tok string) (*GoogleIdentity, error) {
	if id, ok := f[tok]; ok {
		return id, nil
	}
	return nil, errors.New("bad token")
}

func newService(users *memUsers, g GoogleVerifier) *Service {
	return NewService(users, NewTokens("secret", time.Hour), g, zap.NewNop())
}

func TestPassword(t *testing.T) {
	h, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.True(t, CheckPassword(h, "hunter22"))
	assert.False(t, CheckPassword(h, "hunter23"))
	assert.False(t, CheckPassword("", "hunter22"))
}

func TestTokens(t *testing.T) {
	tk := NewTokens("secret", time.Hour)
	raw, err := tk.Issue(42, "a@b.c")
	require.NoError(t, err)

	c, err := tk.Verify(raw)
	require.NoError(t, err)
	id, err := c.UserID()
	require.NoError(t, err)
	assert.EqualValues(t, 42, id)
	assert.Equal(t, "a@b.c", c.Email)
	assert.NotEmpty(t, c.ID)

	_, err = NewTokens("other", time.Hour).Verify(raw)
	require.ErrorIs(t, err, ErrInvalidToken)

	expired := NewTokens("secret", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	old, err := expired.Issue(1, "x@y.z")
	require.NoError(t, err)
	_, err = tk.Verify(old)
	require.ErrorIs(t, err, ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = tk.Verify(none)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestSignupLoginVerify(t *testing.T) {
	ctx := context.Background()
	svc := newService(newMemUsers(), nil)

	sess, err := svc.Signup(ctx, " New@Example.com ", "newbie", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", sess.User.Email)
	assert.NotEmpty(t, sess.Token)

	_, err = svc.Signup(ctx, "new@example.com", "", "secret123")
	require.ErrorIs(t, err, ErrEmailTaken)

	var ie *InputError
	_, err = svc.Signup(ctx, "not-an-email", "", "secret123")
	require.ErrorAs(t, err, &ie)
	_, err = svc.Signup(ctx, "short@example.com", "", "abc")
	require.ErrorAs(t, err, &ie)

	login, err := svc.Login(ctx, "NEW@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, login.User.ID)

	_, err = svc.Login(ctx, "new@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "ghost@example.com", "secret123")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	u, err := svc.Verify(ctx, login.Token)
	require.NoError(t, err)
	assert.Equal(t, "newbie", u.Username)

	_, err = svc.Verify(ctx, "garbage")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestGoogle(t *testing.T) {
	ctx := context.Background()
	users := newMemUsers()
	g := fakeGoogle{
		"tok-existing":   {Subject: "g-1", Email: "old@example.com", EmailVerified: true},
		"tok-new":        {Subject: "g-2", Email: "fresh@example.com", EmailVerified: true, Name: "Fresh"},
		"tok-unverified": {Subject: "g-3", Email: "victim@example.com"},
	}
	svc := newService(users, g)

	existing, err := svc.Signup(ctx, "old@example.com", "old", "secret123")
	require.NoError(t, err)

	linked, err := svc.Google(ctx, "tok-existing")
	require.NoError(t, err)
	assert.Equal(t, existing.User.ID, linked.User.ID)
	assert.Equal(t, "g-1", linked.User.GoogleID)

	again, err := svc.Google(ctx, "tok-existing")
	require.NoError(t, err)
	assert.Equal(t, existing.User.ID, again.User.ID)

	created, err := svc.Google(ctx, "tok-new")
	require.NoError(t, err)
	assert.Equal(t, "Fresh", created.User.Username)
	assert.NotEqual(t, existing.User.ID, created.User.ID)

	_, err = svc.Google(ctx, "forged")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	victim, err := svc.Signup(ctx, "victim@example.com", "", "secret123")
	require.NoError(t, err)
	_, err = svc.Google(ctx, "tok-unverified")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	u, err := users.FindByID(ctx, victim.User.ID)
	require.NoError(t, err)
	assert.Empty(t, u.GoogleID)

	var ie *InputError
	_, err = svc.Google(ctx, "")
	require.ErrorAs(t, err, &ie)
}

func TestClaimTrue(t *testing.T) {
	assert.True(t, claimTrue(true))
	assert.True(t, claimTrue("True"))
	assert.False(t, claimTrue(false))
	assert.False(t, claimTrue("no"))
	assert.False(t, claimTrue(nil))
}
