package migrate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var slugInvalidRe = regexp.MustCompile(`[^a-z0-9]+`)

const migrationTemplate = `-- +goose Up
-- +goose StatementBegin
-- %[1]s
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
-- rollback %[1]s
-- +goose StatementEnd
`

// CreateSQLMigration writes an empty migration for each dialect under the
// same version, so dir/<v>_<name>.sql and dir/sqlite/<v>_<name>.sql migrate
// in lockstep. It returns the postgres path first.
func CreateSQLMigration(dir string, name string) ([]string, error) {
	if dir == "" {
		return nil, errors.New("dir is required")
	}
	slug := migrationSlug(name)
	if slug == "" {
		return nil, fmt.Errorf("migration name %q has no usable characters", name)
	}

	filename := time.Now().UTC().Format("20060102150405") + "_" + slug + ".sql"
	paths := []string{
		filepath.Join(dir, filename),
		filepath.Join(dir, sqliteSubdir, filename),
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return nil, fmt.Errorf("migration already exists: %s", path)
		}
	}

	body := []byte(fmt.Sprintf(migrationTemplate, slug))
	for _, path := range paths {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %q: %w", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, body, 0o644); err != nil {
			return nil, fmt.Errorf("write migration %q: %w", path, err)
		}
	}
	return paths, nil
}

// migrationSlug lowercases name and collapses every run of other
// characters into one underscore.
func migrationSlug(name string) string {
	slug := slugInvalidRe.ReplaceAllString(strings.ToLower(name), "_")
	return strings.Trim(slug, "_")
}
