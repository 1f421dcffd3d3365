package store

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func userRows(id uint, username, passwordHash string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "username", "password_hash", "created_at"}).
		AddRow(int64(id), username, passwordHash, time.Now().UTC())
}

func TestRegisterCreatesUserWithHashedCredential(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewIdentityStore(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectCommit()

	user, err := s.Register("alice", "pw1")
	require.NoError(t, err)

	assert.Equal(t, uint(1), user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "pw1", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pw1")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterDuplicateUsername(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewIdentityStore(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	_, err := s.Register("alice", "pw2")
	assert.ErrorIs(t, err, ErrDuplicateUsername)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthenticateSuccess(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewIdentityStore(db)

	hash, err := bcrypt.GenerateFromPassword([]byte("pw1"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(userRows(1, "alice", string(hash)))

	user, err := s.Authenticate("alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, uint(1), user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Registration trims the username before storing it, so login has to trim
// the same way or a " alice" login could never match the "alice" row.
func TestAuthenticateTrimsUsername(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewIdentityStore(db)

	hash, err := bcrypt.GenerateFromPassword([]byte("pw1"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WithArgs("alice", 1).
		WillReturnRows(userRows(1, "alice", string(hash)))

	user, err := s.Authenticate("  alice  ", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthenticateWrongPassword(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewIdentityStore(db)

	hash, err := bcrypt.GenerateFromPassword([]byte("pw1"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(userRows(1, "alice", string(hash)))

	_, err = s.Authenticate("alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateUnknownUsername(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewIdentityStore(db)

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "created_at"}))

	_, err := s.Authenticate("nobody", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLookupNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewIdentityStore(db)

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "created_at"}))

	_, err := s.Lookup(99)
	assert.ErrorIs(t, err, ErrNotFound)
}
