package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/atlastrek/tour-backend/pkg/migrate"
)

func TestQuotesMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_quotes.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no quotes migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS quotes",
		"CREATE TABLE IF NOT EXISTS quote_days",
		"CREATE TABLE IF NOT EXISTS quote_sequences",
		"FOREIGN KEY (quote_id) REFERENCES quotes(id) ON DELETE CASCADE",
		"CHECK (day_number >= 1)",
		"DROP TABLE IF EXISTS quotes",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMigrationsDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations dir failed validation: %v", err)
	}
}
