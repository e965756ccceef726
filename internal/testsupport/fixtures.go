// Package testsupport loads room fixtures and seeds test databases.
package testsupport

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/vbonduro/roombook/internal/domain"
)

//go:embed testdata/rooms.yaml
var sampleRooms []byte

type roomFixture struct {
	Rooms []domain.Room `yaml:"rooms"`
}

// ParseRooms decodes a YAML room fixture. Rooms without an id get a random
// UUID so fixtures only spell out ids that tests refer to.
func ParseRooms(data []byte) ([]domain.Room, error) {
	var f roomFixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse room fixture: %w", err)
	}
	for i := range f.Rooms {
		if f.Rooms[i].ID == "" {
			f.Rooms[i].ID = uuid.NewString()
		}
	}
	return f.Rooms, nil
}

// LoadRooms reads a YAML room fixture from path, relative to the test
// package directory.
func LoadRooms(t *testing.T, path string) []domain.Room {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to load fixture from %s: %v", path, err)
	}
	rooms, err := ParseRooms(data)
	if err != nil {
		t.Fatalf("%s: %v", path, err)
	}
	return rooms
}

// SampleRooms returns the shared three-room fixture, ordered by id.
func SampleRooms(t *testing.T) []domain.Room {
	t.Helper()

	rooms, err := ParseRooms(sampleRooms)
	if err != nil {
		t.Fatalf("sample rooms: %v", err)
	}
	return rooms
}

// SeedRooms inserts rooms into a SQLite database created by db.OpenForTesting.
func SeedRooms(t *testing.T, database *sql.DB, rooms ...domain.Room) {
	t.Helper()

	ctx := context.Background()
	for _, r := range rooms {
		_, err := database.ExecContext(ctx, `
			INSERT INTO rooms (id, name, short_description, long_description, price, capacity, type)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, r.ID, r.Name, r.ShortDescription, r.LongDescription, r.Price, r.Capacity, r.Type)
		if err != nil {
			t.Fatalf("failed to seed room %q: %v", r.ID, err)
		}
	}
}
