package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateSQLMigrationSanitizesName(t *testing.T) {
	dir := t.TempDir()

	paths, err := CreateSQLMigration(dir, "  Add Sale Index!! ")
	require.NoError(t, err)
	require.Len(t, paths, 2)
	require.Equal(t, filepath.Base(paths[0]), filepath.Base(paths[1]))
	require.Equal(t, filepath.Join(dir, "sqlite"), filepath.Dir(paths[1]))

	for _, path := range paths {
		require.True(t, strings.HasSuffix(path, "_add_sale_index.sql"))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		require.Contains(t, string(data), "-- +goose Up")
		require.Contains(t, string(data), "-- +goose Down")
	}
	require.NoError(t, ValidateDir(dir))
	require.NoError(t, ValidateDir(filepath.Join(dir, "sqlite")))
}

func TestCreateSQLMigrationRejectsEmptyName(t *testing.T) {
	_, err := CreateSQLMigration(t.TempDir(), "!!!")
	require.Error(t, err)

	_, err = CreateSQLMigration("", "name")
	require.Error(t, err)
}

func TestValidateDirRejectsBadFiles(t *testing.T) {
	cases := map[string]map[string]string{
		"bad filename": {
			"create_sales.sql": "-- +goose Up\n-- +goose Down\n",
		},
		"missing down": {
			"20261001090000_create_sales.sql": "-- +goose Up\nSELECT 1;\n",
		},
		"unbalanced statements": {
			"20261001090000_create_sales.sql": "-- +goose Up\n-- +goose StatementBegin\nSELECT 1;\n-- +goose Down\n",
		},
		"duplicate version": {
			"20261001090000_a.sql": "-- +goose Up\n-- +goose Down\n",
			"20261001090000_b.sql": "-- +goose Up\n-- +goose Down\n",
		},
	}

	for name, files := range cases {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			for file, body := range files {
				require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(body), 0o644))
			}
			require.Error(t, ValidateDir(dir))
		})
	}
}

func TestValidatePairedRequiresMatchingDialects(t *testing.T) {
	dir := t.TempDir()
	_, err := CreateSQLMigration(dir, "create sales")
	require.NoError(t, err)
	require.NoError(t, ValidatePaired(dir))

	orphan := "20991231235959_orphan.sql"
	require.NoError(t, os.WriteFile(filepath.Join(dir, orphan), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))

	err = ValidatePaired(dir)
	require.Error(t, err)
	require.Contains(t, err.Error(), orphan)
}

func TestListMigrationsSortsByVersion(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"20261002000000_b.sql", "20261001000000_a.sql", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))
	}

	files, err := listMigrations(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	require.Equal(t, "20261001000000", files[0].Version)
	require.Equal(t, "20261002000000_b.sql", files[1].Name)
}

func TestMigrationSlug(t *testing.T) {
	require.Equal(t, "add_sale_index", migrationSlug("  Add Sale Index!! "))
	require.Equal(t, "vouchers_v2", migrationSlug("vouchers--v2"))
	require.Empty(t, migrationSlug("__"))
}
