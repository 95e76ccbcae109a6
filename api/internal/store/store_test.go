package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
	assert.False(t, isUniqueViolation(nil))
}

func TestSafeDSNSummary(t *testing.T) {
	assert.Equal(t, "host=db port=5432 db=promptify user=app",
		SafeDSNSummary("postgres://app:secret@db:5432/promptify?sslmode=disable"))
	assert.Equal(t, "host=db db=promptify user=app", SafeDSNSummary("postgres://app:secret@db/promptify"))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "me@example.com", NormalizeEmail("  Me@Example.COM "))
}

// TestUserRepo runs against a real database when PROMPTIFY_TEST_DATABASE_URL is set.
func TestUserRepo(t *testing.T) {
	dsn := os.Getenv("PROMPTIFY_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("PROMPTIFY_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	db, err := Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := NewUserRepo(db)
	require.NoError(t, repo.EnsureSchema(ctx))

	email := fmt.Sprintf("user-%d@Example.com", time.Now().UnixNano())
	u := &User{Email: email, Username: "tester", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, u))
	assert.NotZero(t, u.ID)
	t.Cleanup(func() { _, _ = db.Exec(`delete from users where id=$1`, u.ID) })

	require.ErrorIs(t, repo.Create(ctx, &User{Email: email}), ErrDuplicate)

	got, err := repo.FindByEmail(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "hash", got.PasswordHash)
	assert.Empty(t, got.GoogleID)

	gid := fmt.Sprintf("g-%d", u.ID)
	require.NoError(t, repo.LinkGoogleID(ctx, u.ID, gid))
	got, err = repo.FindByGoogleID(ctx, gid)
	require.NoError(t, err)
	assert.Equal(t, NormalizeEmail(email), got.Email)

	_, err = repo.FindByID(ctx, -1)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, repo.LinkGoogleID(ctx, -1, "x"), ErrNotFound)
}
