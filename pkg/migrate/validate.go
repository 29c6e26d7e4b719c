package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/multierr"
)

const (
	upMarker             = "-- +goose Up"
	downMarker           = "-- +goose Down"
	statementBeginMarker = "-- +goose StatementBegin"
	statementEndMarker   = "-- +goose StatementEnd"
)

var migrationName = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

// ValidateDir checks every .sql file in dir and reports all problems
// together: bad names, duplicate versions, missing or misordered goose
// sections and unbalanced statement blocks.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read dir %q: %w", dir, err)
	}

	var problems error
	versions := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".sql" {
			continue
		}

		match := migrationName.FindStringSubmatch(name)
		if match == nil {
			problems = multierr.Append(problems, fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name))
			continue
		}
		if first, dup := versions[match[1]]; dup {
			problems = multierr.Append(problems, fmt.Errorf("duplicate migration version %s in %q and %q", match[1], first, name))
			continue
		}
		versions[match[1]] = name

		body, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			problems = multierr.Append(problems, fmt.Errorf("read migration %q: %w", name, err))
			continue
		}
		problems = multierr.Append(problems, checkSections(name, string(body)))
	}
	return problems
}

func checkSections(name, body string) error {
	up := strings.Index(body, upMarker)
	down := strings.Index(body, downMarker)

	var problems error
	if up < 0 {
		problems = multierr.Append(problems, fmt.Errorf("migration %q missing %q", name, upMarker))
	}
	if down < 0 {
		problems = multierr.Append(problems, fmt.Errorf("migration %q missing %q", name, downMarker))
	}
	if up >= 0 && down >= 0 && down < up {
		problems = multierr.Append(problems, fmt.Errorf("migration %q has its down section before its up section", name))
	}

	begins := strings.Count(body, statementBeginMarker)
	ends := strings.Count(body, statementEndMarker)
	if begins != ends {
		problems = multierr.Append(problems, fmt.Errorf("migration %q has %d StatementBegin and %d StatementEnd markers", name, begins, ends))
	}
	return problems
}
