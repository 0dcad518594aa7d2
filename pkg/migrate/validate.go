package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/multierr"
)

var migrationFileRe = regexp.MustCompile(`^\d{14}_[a-z0-9_]+\.sql$`)

// ValidateDir checks that every SQL file in dir follows the goose naming
// convention and carries both Up and Down annotations.
func ValidateDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read migrations dir %q: %w", dir, err)
	}

	var result error
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		if !migrationFileRe.MatchString(entry.Name()) {
			result = multierr.Append(result, fmt.Errorf("%s: filename must match YYYYMMDDHHMMSS_name.sql", entry.Name()))
			continue
		}

		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			result = multierr.Append(result, fmt.Errorf("%s: %w", entry.Name(), err))
			continue
		}

		text := string(content)
		if !strings.Contains(text, "-- +goose Up") {
			result = multierr.Append(result, fmt.Errorf("%s: missing '-- +goose Up' annotation", entry.Name()))
		}
		if !strings.Contains(text, "-- +goose Down") {
			result = multierr.Append(result, fmt.Errorf("%s: missing '-- +goose Down' annotation", entry.Name()))
		}
	}

	return result
}
