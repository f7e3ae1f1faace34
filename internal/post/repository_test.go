package post

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func setupMock(t *testing.T) (*Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() {
		sqlxDB.Close()
	}

	return repo, mock, closer
}

func postColumns() []string {
	return []string{
		"id", "author_id", "content", "post_type", "media_url", "thumbnail_url",
		"is_exclusive", "price", "likes_count", "comments_count", "views_count",
		"shares_count", "created_at", "updated_at",
	}
}

func postRow(id, authorID int64, content string, exclusive bool, price interface{}) []driver.Value {
	now := time.Now()
	return []driver.Value{id, authorID, content, "text", nil, nil, exclusive, price, 0, 0, 0, 0, now, now}
}

func TestCreatePost(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery("INSERT INTO posts").
		WithArgs(int64(1), "hello", "text", nil, false, nil).
		WillReturnRows(sqlmock.NewRows(postColumns()).AddRow(postRow(1, 1, "hello", false, nil)...))

	p, err := repo.Create(context.Background(), 1, CreatePostRequest{Content: "hello", PostType: "text"})
	require.NoError(t, err)
	require.Equal(t, int64(1), p.ID)
	require.False(t, p.IsExclusive)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePost(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	content := "edited"
	mock.ExpectQuery("UPDATE posts").
		WithArgs(int64(1), &content, nil, nil, nil).
		WillReturnRows(sqlmock.NewRows(postColumns()).AddRow(postRow(1, 3, "edited", false, nil)...))

	p, err := repo.Update(context.Background(), 1, UpdatePostRequest{Content: &content})
	require.NoError(t, err)
	require.Equal(t, "edited", p.Content)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeletePost(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM posts WHERE id = $1")).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), 1))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeletePostNotFound(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM posts WHERE id = $1")).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 9)
	require.ErrorIs(t, err, ErrPostNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestShareBumpsCounter(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE posts SET shares_count = shares_count + 1, updated_at = NOW() WHERE id = $1 RETURNING shares_count")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"shares_count"}).AddRow(4))

	count, err := repo.Share(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 4, count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDNotFound(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM posts WHERE id = $1")).
		WithArgs(int64(9)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 9)
	require.ErrorIs(t, err, ErrPostNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetWithAuthor(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	cols := append(postColumns(), "author_username")
	row := append(postRow(1, 2, "exclusive pic", true, "9.99"), "creator")

	mock.ExpectQuery("JOIN users u ON u.id = p.author_id").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(row...))

	p, err := repo.GetWithAuthor(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, "creator", p.AuthorUsername)
	require.True(t, p.IsExclusive)
	require.NotNil(t, p.Price)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleLikeInsertsAndIncrements(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery("DELETE FROM likes").
		WithArgs(int64(3), int64(1)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO likes").
		WithArgs(int64(3), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE posts SET likes_count = likes_count + 1, updated_at = NOW() WHERE id = $1")).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	liked, err := repo.ToggleLike(context.Background(), 3, 1)
	require.NoError(t, err)
	require.True(t, liked)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleLikeDeletesAndDecrements(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery("DELETE FROM likes").
		WithArgs(int64(3), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE posts SET likes_count = GREATEST(likes_count - 1, 0), updated_at = NOW() WHERE id = $1")).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	liked, err := repo.ToggleLike(context.Background(), 3, 1)
	require.NoError(t, err)
	require.False(t, liked)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCommentBumpsCounter(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO comments").
		WithArgs(int64(3), int64(1), "nice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "post_id", "content", "created_at", "updated_at"}).
			AddRow(1, 3, 1, "nice", now, now))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE posts SET comments_count = comments_count + 1, updated_at = NOW() WHERE id = $1")).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	cm, err := repo.CreateComment(context.Background(), 3, 1, "nice")
	require.NoError(t, err)
	require.Equal(t, "nice", cm.Content)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedUsesDefaultLimit(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	cols := append(postColumns(), "author_username")

	mock.ExpectQuery("ORDER BY p.created_at DESC").
		WithArgs(int64(3), 20, 0).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(append(postRow(2, 3, "newer", false, nil), "me")...).
			AddRow(append(postRow(1, 4, "older", false, nil), "followed")...))

	posts, err := repo.Feed(context.Background(), 3, 0, 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	require.Equal(t, int64(2), posts[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
