package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound  = sql.ErrNoRows
	ErrDuplicate = errors.New("store: record already exists")
)

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username,omitempty"`
	PasswordHash string    `json:"-"`
	GoogleID     string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const schema = `
create table if not exists users (
	id            bigserial primary key,
	email         text not null unique,
	username      text not null default '',
	password_hash text,
	google_id     text unique,
	created_at    timestamptz not null default now()
)`

// EnsureSchema creates the users table when it is missing.
func (r *UserRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, schema)
	return err
}

// Create inserts u and fills its ID and CreatedAt. A taken email or Google ID
// yields ErrDuplicate.
func (r *UserRepo) Create(ctx context.Context, u *User) error {
	const q = `
insert into users(email, username, password_hash, google_id)
values ($1, $2, $3, $4)
returning id, created_at`
	u.Email = NormalizeEmail(u.Email)
	err := r.DB.QueryRowContext(ctx, q, u.Email, u.Username, nullable(u.PasswordHash), nullable(u.GoogleID)).
		Scan(&u.ID, &u.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

const selectUser = `select id, email, username, password_hash, google_id, created_at from users `

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, selectUser+`where email=$1`, NormalizeEmail(email))
}

func (r *UserRepo) FindByID(ctx context.Context, id int64) (*User, error) {
	return r.findOne(ctx, selectUser+`where id=$1`, id)
}

func (r *UserRepo) FindByGoogleID(ctx context.Context, googleID string) (*User, error) {
	return r.findOne(ctx, selectUser+`where google_id=$1`, googleID)
}

// LinkGoogleID attaches googleID to an existing user.
func (r *UserRepo) LinkGoogleID(ctx context.Context, id int64, googleID string) error {
	res, err := r.DB.ExecContext(ctx, `update users set google_id=$2 where id=$1`, id, googleID)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepo) findOne(ctx context.Context, q string, arg any) (*User, error) {
	var (
		u         User
		hash, gid sql.NullString
	)
	if err := r.DB.QueryRowContext(ctx, q, arg).Scan(&u.ID, &u.Email, &u.Username, &hash, &gid, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.PasswordHash, u.GoogleID = hash.String, gid.String
	return &u, nil
}

// NormalizeEmail lowercases and trims an address.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
