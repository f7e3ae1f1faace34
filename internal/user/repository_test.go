package user

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

func userColumns() []string {
	return []string{
		"id", "username", "email", "password_hash", "bio", "is_creator",
		"followers_count", "following_count", "website", "twitter", "instagram",
		"created_at", "updated_at",
	}
}

func userRow(id int64, username string) []driverValue {
	now := time.Now()
	return []driverValue{id, username, username + "@example.com", "hash", "", false, 0, 0, "", "", "", now, now}
}

type driverValue = driver.Value

func TestCreateUser(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("reuben", "reuben@example.com", "hash").
		WillReturnRows(sqlmock.NewRows(userColumns()).AddRow(userRow(1, "reuben")...))

	u, err := repo.Create(context.Background(), "reuben", "reuben@example.com", "hash")
	require.NoError(t, err)
	require.Equal(t, int64(1), u.ID)
	require.Equal(t, "reuben", u.Username)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByUsernameNotFound(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM users WHERE username = $1")).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByUsername(context.Background(), "ghost")
	require.ErrorIs(t, err, ErrUserNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleFollowSelfRejected(t *testing.T) {
	repo, _, close := setupMock(t)
	defer close()

	_, err := repo.ToggleFollow(context.Background(), 1, 1)
	require.ErrorIs(t, err, ErrSelfFollow)
}

func TestToggleFollowInsertsAndIncrements(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery("DELETE FROM follows").
		WithArgs(int64(1), int64(2)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO follows").
		WithArgs(int64(1), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET followers_count = followers_count + 1, updated_at = NOW() WHERE id = $1")).
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET following_count = following_count + 1, updated_at = NOW() WHERE id = $1")).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	following, err := repo.ToggleFollow(context.Background(), 1, 2)
	require.NoError(t, err)
	require.True(t, following)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleFollowDeletesAndDecrements(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery("DELETE FROM follows").
		WithArgs(int64(1), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET followers_count = GREATEST(followers_count - 1, 0), updated_at = NOW() WHERE id = $1")).
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET following_count = GREATEST(following_count - 1, 0), updated_at = NOW() WHERE id = $1")).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	following, err := repo.ToggleFollow(context.Background(), 1, 2)
	require.NoError(t, err)
	require.False(t, following)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleFollowLostRace(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery("DELETE FROM follows").
		WithArgs(int64(1), int64(2)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO follows").
		WithArgs(int64(1), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	following, err := repo.ToggleFollow(context.Background(), 1, 2)
	require.NoError(t, err)
	require.True(t, following)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIsFollowing(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM follows WHERE follower_id = $1 AND following_id = $2)")).
		WithArgs(int64(1), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.IsFollowing(context.Background(), 1, 2)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchUsersExcludesSelf(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	rows := sqlmock.NewRows(userColumns()).AddRow(userRow(2, "reubenfan")...)

	mock.ExpectQuery("username ILIKE").
		WithArgs(int64(1), "%reuben%", 20).
		WillReturnRows(rows)

	users, err := repo.SearchUsers(context.Background(), "reuben", 1, 0)
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, "reubenfan", users[0].Username)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSuggestedUsersOrderedByFollowers(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	rows := sqlmock.NewRows(userColumns()).
		AddRow(userRow(2, "popular")...).
		AddRow(userRow(3, "upcoming")...)

	mock.ExpectQuery("ORDER BY followers_count DESC").
		WithArgs(int64(1), 10).
		WillReturnRows(rows)

	users, err := repo.SuggestedUsers(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, "popular", users[0].Username)
	require.NoError(t, mock.ExpectationsWereMet())
}
