package repository

import (
	"context"
	"regexp"
	"testing"

	"zephyr/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngagementRepository_Exists(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewEngagementRepository(db)
	ctx := context.Background()

	tests := []struct {
		name  string
		kind  models.EngagementKind
		table string
		count int64
		want  bool
	}{
		{name: "Like Present", kind: models.EngagementLike, table: "post_like", count: 1, want: true},
		{name: "Like Absent", kind: models.EngagementLike, table: "post_like", count: 0, want: false},
		{name: "Collect Present", kind: models.EngagementCollect, table: "post_collection", count: 1, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "`+tt.table+`" WHERE post_id = $1 AND user_id = $2`)).
				WithArgs(int64(3), int64(9)).
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(tt.count))

			got, err := repo.Exists(ctx, tt.kind, 3, 9)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEngagementRepository_Insert(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewEngagementRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "post_like"`).
		WithArgs(int64(3), int64(9), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	require.NoError(t, repo.Insert(ctx, models.EngagementLike, 3, 9))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEngagementRepository_Delete(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewEngagementRepository(db)
	ctx := context.Background()

	t.Run("Row Removed", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "post_collection" WHERE post_id = $1 AND user_id = $2`)).
			WithArgs(int64(3), int64(9)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		ok, err := repo.Delete(ctx, models.EngagementCollect, 3, 9)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("No Row", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "post_like" WHERE post_id = $1 AND user_id = $2`)).
			WithArgs(int64(3), int64(9)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		ok, err := repo.Delete(ctx, models.EngagementLike, 3, 9)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEngagementRepository_ListPostIDsCountsLiveRowsOnly(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewEngagementRepository(db)
	ctx := context.Background()

	// both the count and the page join out engagements whose post is
	// soft-deleted, so Total never exceeds what the page query can return
	mock.ExpectQuery(`SELECT count\(\*\) FROM "post_like" JOIN post ON post\.id = post_like\.post_id WHERE post_like\.user_id = \$1 AND post\.is_deleted = \$2`).
		WithArgs(int64(9), false).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`FROM "post_like" JOIN post ON post\.id = post_like\.post_id WHERE post_like\.user_id = \$1 AND post\.is_deleted = \$2 ORDER BY post_like\.created_at DESC LIMIT \$3 OFFSET \$4`).
		WithArgs(int64(9), false, 2, 1).
		WillReturnRows(sqlmock.NewRows([]string{"post_id"}).AddRow(7).AddRow(3))

	ids, total, err := repo.ListPostIDs(ctx, models.EngagementLike, 9, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 3}, ids)
	assert.Equal(t, int64(2), total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEngagementRepository_UnknownKind(t *testing.T) {
	db, _ := setupMockDB(t)
	repo := NewEngagementRepository(db)
	ctx := context.Background()

	_, err := repo.Exists(ctx, models.EngagementKind("share"), 1, 1)
	assert.Error(t, err)

	err = repo.Insert(ctx, models.EngagementKind("share"), 1, 1)
	assert.Error(t, err)
}
