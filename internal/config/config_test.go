package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseLocationLine(t *testing.T) {
	def := 15 * time.Minute

	tests := []struct {
		line     string
		location string
		interval time.Duration
		wantErr  bool
	}{
		{line: "Tempe,5", location: "Tempe", interval: 5 * time.Minute},
		{line: " Oslo , 10 ", location: "Oslo", interval: 10 * time.Minute},
		{line: "Oslo", location: "Oslo", interval: def},
		{line: "5,Tempe", wantErr: true},  // swapped fields
		{line: "Tempe,0", wantErr: true},  // non-positive interval
		{line: "Tempe,-3", wantErr: true}, // negative interval
		{line: ",5", wantErr: true},       // empty location
		{line: "a,b,c", wantErr: true},    // too many fields
	}

	for _, tc := range tests {
		entry, err := ParseLocationLine(tc.line, def)
		if tc.wantErr {
			if err == nil {
				t.Errorf("line %q: expected error, got %+v", tc.line, entry)
			}
			continue
		}
		if err != nil {
			t.Errorf("line %q: unexpected error: %v", tc.line, err)
			continue
		}
		if entry.Location != tc.location || entry.Interval != tc.interval {
			t.Errorf("line %q: expected (%s, %s), got (%s, %s)",
				tc.line, tc.location, tc.interval, entry.Location, entry.Interval)
		}
	}
}

func TestLoadLocationsFileSkipsInvalidLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locations.txt")
	content := "# tracked locations\n" +
		"Tempe,1\n" +
		"\n" +
		"5,Tempe\n" + // invalid, must not abort the rest
		"Oslo,5\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	entries, err := LoadLocationsFile(path, 15*time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d: %+v", len(entries), entries)
	}
	if entries[0].Location != "Tempe" || entries[0].Interval != time.Minute {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].Location != "Oslo" || entries[1].Interval != 5*time.Minute {
		t.Errorf("invalid line must not block the following valid line: %+v", entries[1])
	}
}

func TestLoadRequiresCredentials(t *testing.T) {
	t.Setenv("WEATHER_API_KEY", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("LOCATIONS", "Tempe")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when credentials are missing")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("WEATHER_API_KEY", "k")
	t.Setenv("DATABASE_URL", "postgres://localhost/weather")
	t.Setenv("LOCATIONS", "Tempe, Oslo")
	t.Setenv("DEFAULT_INTERVAL", "5m")
	t.Setenv("LOCATIONS_FILE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cfg.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %+v", cfg.Entries)
	}
	if cfg.Entries[1].Location != "Oslo" || cfg.Entries[1].Interval != 5*time.Minute {
		t.Errorf("unexpected entry: %+v", cfg.Entries[1])
	}
}
