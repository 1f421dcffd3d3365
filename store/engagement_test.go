package store

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emptyLikeRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "post_id", "created_at"})
}

func likeCountRows(likes int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"likes"}).AddRow(likes)
}

func TestToggleLikeInsertsAndIncrements(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewEngagementStore(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "likes"`).WillReturnRows(emptyLikeRows())
	mock.ExpectQuery(`INSERT INTO "likes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))
	mock.ExpectExec(`UPDATE "posts" SET "likes"=likes \+ \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT "likes" FROM "posts"`).WillReturnRows(likeCountRows(1))
	mock.ExpectCommit()

	res, err := s.ToggleLike(2, 1)
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.Equal(t, 1, res.LikeCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleLikeDeletesAndDecrements(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewEngagementStore(db)

	existing := sqlmock.NewRows([]string{"id", "user_id", "post_id", "created_at"}).
		AddRow(int64(5), int64(2), int64(1), time.Now().UTC())

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "likes"`).WillReturnRows(existing)
	mock.ExpectExec(`DELETE FROM "likes"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "posts" SET "likes"=likes - \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT "likes" FROM "posts"`).WillReturnRows(likeCountRows(0))
	mock.ExpectCommit()

	res, err := s.ToggleLike(2, 1)
	require.NoError(t, err)
	assert.False(t, res.Liked)
	assert.Equal(t, 0, res.LikeCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A concurrent toggle can win the insert between the read and the write; the
// unique key turns that into a conflict which must fold into "already liked",
// never surface as an error.
func TestToggleLikeFoldsUniqueConflictIntoLiked(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewEngagementStore(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "likes"`).WillReturnRows(emptyLikeRows())
	mock.ExpectQuery(`INSERT INTO "likes"`).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()
	mock.ExpectQuery(`SELECT "likes" FROM "posts"`).WillReturnRows(likeCountRows(1))

	res, err := s.ToggleLike(2, 1)
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.Equal(t, 1, res.LikeCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleLikeMissingPostRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewEngagementStore(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "likes"`).WillReturnRows(emptyLikeRows())
	mock.ExpectQuery(`INSERT INTO "likes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))
	mock.ExpectExec(`UPDATE "posts" SET "likes"=likes \+ \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT "likes" FROM "posts"`).
		WillReturnRows(sqlmock.NewRows([]string{"likes"}))
	mock.ExpectRollback()

	_, err := s.ToggleLike(2, 99)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddCommentRejectsBlankContent(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewEngagementStore(db)

	_, err := s.AddComment(1, 2, "   ")
	assert.ErrorIs(t, err, ErrEmptyComment)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddCommentMissingPost(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewEngagementStore(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id" FROM "posts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := s.AddComment(99, 2, "nice")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddCommentTrimsAndCreates(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewEngagementStore(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id" FROM "posts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectQuery(`INSERT INTO "comments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(9)))
	mock.ExpectCommit()

	comment, err := s.AddComment(1, 2, "  nice  ")
	require.NoError(t, err)
	assert.Equal(t, uint(9), comment.ID)
	assert.Equal(t, "nice", comment.Content)
	assert.Equal(t, uint(1), comment.PostID)
	assert.Equal(t, uint(2), comment.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListCommentsOldestFirst(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewEngagementStore(db)

	rows := sqlmock.NewRows([]string{"id", "post_id", "user_id", "content", "created_at"}).
		AddRow(int64(1), int64(1), int64(2), "first", time.Now().UTC().Add(-time.Hour)).
		AddRow(int64(2), int64(1), int64(2), "second", time.Now().UTC())

	mock.ExpectQuery(`SELECT \* FROM "comments"`).WillReturnRows(rows)
	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(userRows(2, "bob", "x"))

	comments, err := s.ListComments(1)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Content)
	assert.Equal(t, "second", comments[1].Content)
	require.NotNil(t, comments[0].User)
	assert.Equal(t, "bob", comments[0].User.Username)
}

func TestDeleteByPostIsIdempotent(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewEngagementStore(db)

	// Nothing references the post; both deletes affect zero rows and neither
	// fails.
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "likes"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "comments"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	assert.NoError(t, s.DeleteByPost(db, 42))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLikedPostIDs(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewEngagementStore(db)

	mock.ExpectQuery(`SELECT "post_id" FROM "likes"`).
		WillReturnRows(sqlmock.NewRows([]string{"post_id"}).AddRow(int64(1)).AddRow(int64(3)))

	liked, err := s.LikedPostIDs(2)
	require.NoError(t, err)
	assert.True(t, liked[1])
	assert.False(t, liked[2])
	assert.True(t, liked[3])
}
