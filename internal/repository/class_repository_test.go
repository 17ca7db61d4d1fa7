package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ebd-pro/console-api/internal/models"
)

func TestClassRepositoryFindByTeacherName(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "teacher", "category", "created_at", "updated_at"}).
		AddRow("c1", "Juniors", "Ana", "Kids", time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, teacher, category, created_at, updated_at FROM classes WHERE teacher = $1")).
		WithArgs("Ana").
		WillReturnRows(rows)

	classes, err := repo.FindByTeacherName(context.Background(), "Ana")
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, "c1", classes[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRepositoryFindByTeacherNameAmbiguous(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "teacher", "category", "created_at", "updated_at"}).
		AddRow("c1", "Juniors", "Ana", "Kids", time.Now(), time.Now()).
		AddRow("c2", "Seniors", "Ana", "Youth", time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, teacher, category, created_at, updated_at FROM classes WHERE teacher = $1")).
		WithArgs("Ana").
		WillReturnRows(rows)

	classes, err := repo.FindByTeacherName(context.Background(), "Ana")
	require.NoError(t, err)
	assert.Len(t, classes, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRepositoryCountByCategoryName(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM classes WHERE category = $1")).
		WithArgs("Kids").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountByCategoryName(context.Background(), "Kids")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	mock.ExpectExec("INSERT INTO classes").
		WillReturnResult(sqlmock.NewResult(0, 1))

	class := &models.Class{Name: "Juniors", Teacher: "Ana", Category: "Kids"}
	require.NoError(t, repo.Upsert(context.Background(), class))
	assert.NotEmpty(t, class.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
