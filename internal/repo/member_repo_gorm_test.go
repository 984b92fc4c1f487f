package repo

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// 这里用默认的正则匹配器：到期巡检必须带上软删过滤，
// 封禁（软删）的会员不许被翻成 expired
func newRepoMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestExpireLapsedSkipsSoftDeletedMembers(t *testing.T) {
	db, mock := newRepoMockDB(t)
	r := NewMemberRepo(db)

	mock.ExpectExec("UPDATE `members` SET .*`deleted_at` IS NULL").
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := r.ExpireLapsed(time.Now())
	require.NoError(t, err)
	require.Equal(t, int64(3), n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSoftDeleteMarksInsteadOfRemoving(t *testing.T) {
	db, mock := newRepoMockDB(t)
	r := NewMemberRepo(db)

	// gorm.DeletedAt 生效后软删是 UPDATE，不是 DELETE
	mock.ExpectExec("UPDATE `members` SET `deleted_at`").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, r.SoftDelete("m1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIDReturnsNilWhenMissing(t *testing.T) {
	db, mock := newRepoMockDB(t)
	r := NewMemberRepo(db)

	mock.ExpectQuery("SELECT .* FROM `members`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	m, err := r.FindByID("nope")
	require.NoError(t, err)
	require.Nil(t, m)
	require.NoError(t, mock.ExpectationsWereMet())
}
