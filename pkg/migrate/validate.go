package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
)

var migrationNameRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

var requiredAnnotations = []string{"-- +goose Up", "-- +goose Down"}

type migrationFile struct {
	Version string
	Name    string
	Path    string
}

// listMigrations returns the .sql files directly under dir in version order.
func listMigrations(dir string) ([]migrationFile, error) {
	if dir == "" {
		return nil, fmt.Errorf("dir is required")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %q: %w", dir, err)
	}

	files := make([]migrationFile, 0, len(entries))
	byVersion := map[string]string{}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".sql" {
			continue
		}
		m := migrationNameRe.FindStringSubmatch(e.Name())
		if m == nil {
			return nil, fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", e.Name())
		}
		if prev, dup := byVersion[m[1]]; dup {
			return nil, fmt.Errorf("duplicate migration version %s in %q and %q", m[1], prev, e.Name())
		}
		byVersion[m[1]] = e.Name()
		files = append(files, migrationFile{Version: m[1], Name: e.Name(), Path: filepath.Join(dir, e.Name())})
	}
	slices.SortFunc(files, func(a, b migrationFile) int { return strings.Compare(a.Version, b.Version) })
	return files, nil
}

func checkAnnotations(file migrationFile) error {
	raw, err := os.ReadFile(file.Path)
	if err != nil {
		return fmt.Errorf("read file %q: %w", file.Path, err)
	}
	body := string(raw)
	for _, annotation := range requiredAnnotations {
		if !strings.Contains(body, annotation) {
			return fmt.Errorf("migration %q missing %q", file.Name, annotation)
		}
	}
	if strings.Count(body, "-- +goose StatementBegin") != strings.Count(body, "-- +goose StatementEnd") {
		return fmt.Errorf("migration %q has unbalanced StatementBegin/StatementEnd", file.Name)
	}
	return nil
}

// ValidateDir checks filenames, versions and goose annotations of the
// migrations directly under dir. Subdirectories are not visited.
func ValidateDir(dir string) error {
	files, err := listMigrations(dir)
	if err != nil {
		return err
	}
	for _, file := range files {
		if err := checkAnnotations(file); err != nil {
			return err
		}
	}
	return nil
}

// ValidatePaired validates dir and its sqlite/ twin and requires both to
// carry the same migration filenames.
func ValidatePaired(dir string) error {
	sqliteDir := filepath.Join(dir, sqliteSubdir)
	for _, d := range []string{dir, sqliteDir} {
		if err := ValidateDir(d); err != nil {
			return err
		}
	}

	pg, err := listMigrations(dir)
	if err != nil {
		return err
	}
	lite, err := listMigrations(sqliteDir)
	if err != nil {
		return err
	}
	if missing := missingNames(pg, lite); len(missing) > 0 {
		return fmt.Errorf("sqlite migrations missing: %s", strings.Join(missing, ", "))
	}
	if extra := missingNames(lite, pg); len(extra) > 0 {
		return fmt.Errorf("postgres migrations missing: %s", strings.Join(extra, ", "))
	}
	return nil
}

func missingNames(want, have []migrationFile) []string {
	present := make(map[string]struct{}, len(have))
	for _, f := range have {
		present[f.Name] = struct{}{}
	}
	var missing []string
	for _, f := range want {
		if _, ok := present[f.Name]; !ok {
			missing = append(missing, f.Name)
		}
	}
	return missing
}
