package repository

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/project-calendar/api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newTestUser(email string) *models.User {
	return &models.User{
		Email:        email,
		PasswordHash: "hash",
		DisplayName:  "Alice",
	}
}

func newTestWindows() []models.WorkWindow {
	return []models.WorkWindow{
		{Weekday: 0, StartTime: "09:00", EndTime: "17:00"},
	}
}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 conn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	return db, mock
}

func TestFindByEmail_Query(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	rows := sqlmock.NewRows([]string{"id", "email", "password_hash", "display_name"}).
		AddRow("u-1", "alice@example.com", "hash", "Alice")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE email = $1`)).
		WillReturnRows(rows)

	user, err := repo.FindByEmail("alice@example.com")
	assert.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)
	assert.Equal(t, "Alice", user.DisplayName)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByEmail_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE email = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}))

	_, err := repo.FindByEmail("nobody@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearch_MatchesAcrossFields(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	rows := sqlmock.NewRows([]string{"id", "email", "display_name"}).
		AddRow("u-1", "alice@example.com", "Alice").
		AddRow("u-2", "bob@example.com", "Alicia")
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE LOWER\(email\) LIKE LOWER\(\$1\)`).
		WillReturnRows(rows)

	users, err := repo.Search("ali", 100)
	assert.NoError(t, err)
	assert.Len(t, users, 2)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListWorkWindows_Ordered(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	rows := sqlmock.NewRows([]string{"id", "user_id", "weekday", "start_time", "end_time"}).
		AddRow("w-1", "u-1", 0, "09:00", "13:00").
		AddRow("w-2", "u-1", 0, "14:00", "17:00")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "work_windows" WHERE user_id = $1 ORDER BY weekday, start_time`)).
		WillReturnRows(rows)

	windows, err := repo.ListWorkWindows("u-1")
	assert.NoError(t, err)
	assert.Len(t, windows, 2)
	assert.Equal(t, "09:00", windows[0].StartTime)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithWorkSchedule_RollsBackOnWindowFailure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "users"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "work_windows"`).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	user := newTestUser("alice@example.com")
	err := repo.CreateWithWorkSchedule(user, newTestWindows())
	assert.ErrorIs(t, err, ErrCreateWorkWindow)

	assert.NoError(t, mock.ExpectationsWereMet())
}
