package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vbonduro/roombook/internal/db"
	"github.com/vbonduro/roombook/internal/domain"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("room not found")

const roomColumns = `id, name, short_description, long_description, price, capacity, type, created_at, updated_at`

type RoomStore struct {
	db      *sql.DB
	dialect db.Dialect
}

func NewRoomStore(database *sql.DB, dialect db.Dialect) *RoomStore {
	return &RoomStore{db: database, dialect: dialect}
}

func (s *RoomStore) List(ctx context.Context) ([]*domain.Room, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+roomColumns+` FROM rooms ORDER BY name ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	rooms := make([]*domain.Room, 0)
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		rooms = append(rooms, room)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rooms: %w", err)
	}

	return rooms, nil
}

func (s *RoomStore) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	row := s.db.QueryRowContext(ctx, s.dialect.Rebind(`
		SELECT `+roomColumns+` FROM rooms WHERE id = ?
	`), id)

	room, err := scanRoom(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	return room, nil
}

// Ping verifies the database is reachable.
func (s *RoomStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRoom(sc scanner) (*domain.Room, error) {
	room := &domain.Room{}
	err := sc.Scan(
		&room.ID, &room.Name, &room.ShortDescription, &room.LongDescription,
		&room.Price, &room.Capacity, &room.Type, &room.CreatedAt, &room.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return room, nil
}
