package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.Exec("CREATE TABLE IF NOT EXISTS counters (name TEXT PRIMARY KEY, value INTEGER NOT NULL)").Error)
	return conn
}

func TestTransactionRollsBackOnError(t *testing.T) {
	base := NewBase(openTestDB(t))
	ctx := context.Background()

	err := base.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Exec("INSERT INTO counters (name, value) VALUES ('redemptions', 1)").Error; err != nil {
			return err
		}
		return errors.New("boom")
	})
	require.EqualError(t, err, "boom")

	var count int64
	require.NoError(t, base.DB(ctx).Raw("SELECT count(*) FROM counters").Scan(&count).Error)
	require.Zero(t, count)
}

func TestTransactionCommits(t *testing.T) {
	base := NewBase(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, base.Transaction(ctx, func(tx *gorm.DB) error {
		return tx.Exec("INSERT INTO counters (name, value) VALUES ('sales', 3)").Error
	}))

	var value int
	require.NoError(t, base.DB(ctx).Raw("SELECT value FROM counters WHERE name = 'sales'").Scan(&value).Error)
	require.Equal(t, 3, value)
}

func TestScopesFilterAndOrder(t *testing.T) {
	conn := openTestDB(t)
	require.NoError(t, conn.Exec(`CREATE TABLE rules (id TEXT PRIMARY KEY, active BOOLEAN NOT NULL, created_at DATETIME NOT NULL)`).Error)
	require.NoError(t, conn.Exec(`INSERT INTO rules (id, active, created_at) VALUES
		('b', 1, '2026-10-01 09:00:00'),
		('a', 1, '2026-10-01 09:00:00'),
		('c', 0, '2026-09-01 09:00:00'),
		('d', 1, '2026-08-01 09:00:00')`).Error)

	base := NewBase(conn)
	ctx := context.Background()

	var ids []string
	require.NoError(t, base.DB(ctx).Table("rules").Scopes(Active, Oldest).Pluck("id", &ids).Error)
	require.Equal(t, []string{"d", "a", "b"}, ids)

	var count int64
	require.NoError(t, base.DB(ctx).Table("rules").Scopes(ByID("c")).Count(&count).Error)
	require.EqualValues(t, 1, count)
}
