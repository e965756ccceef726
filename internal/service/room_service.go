package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/vbonduro/roombook/internal/domain"
	"github.com/vbonduro/roombook/internal/store"
)

// maxRoomIDLen bounds ids accepted from the URL before they reach the store.
const maxRoomIDLen = 128

// roomRepository is the subset of store.RoomStore that RoomService requires.
type roomRepository interface {
	List(ctx context.Context) ([]*domain.Room, error)
	GetByID(ctx context.Context, id string) (*domain.Room, error)
	Ping(ctx context.Context) error
}

// RoomService is the read-only data access layer for rooms. Store failures
// never escape it raw: every error it returns is an *Error.
type RoomService struct {
	roomStore    roomRepository
	queryTimeout time.Duration
	logger       *slog.Logger
}

func NewRoomService(roomStore roomRepository, queryTimeout time.Duration, logger *slog.Logger) *RoomService {
	return &RoomService{
		roomStore:    roomStore,
		queryTimeout: queryTimeout,
		logger:       logger,
	}
}

// List returns every room. An empty store yields an empty slice.
func (s *RoomService) List(ctx context.Context) ([]*domain.Room, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rooms, err := s.roomStore.List(ctx)
	if err != nil {
		s.logger.Error("list rooms failed", "error", err)
		return nil, &Error{Kind: KindStoreUnavailable, Message: msgListFailed, Err: err}
	}
	if rooms == nil {
		rooms = []*domain.Room{}
	}
	return rooms, nil
}

// GetByID returns the room with the given id.
func (s *RoomService) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	if strings.TrimSpace(id) == "" || len(id) > maxRoomIDLen {
		return nil, &Error{Kind: KindNotFound, Message: msgNotFound, Err: store.ErrNotFound}
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	room, err := s.roomStore.GetByID(ctx, id)
	if err == nil && room == nil {
		err = store.ErrNotFound
	}
	if errors.Is(err, store.ErrNotFound) {
		s.logger.Debug("room not found", "room_id", id)
		return nil, &Error{Kind: KindNotFound, Message: msgNotFound, Err: err}
	}
	if err != nil {
		s.logger.Error("get room failed", "room_id", id, "error", err)
		return nil, &Error{Kind: KindStoreUnavailable, Message: msgGetFailed, Err: err}
	}
	return room, nil
}

// Healthy reports whether the store answers a ping.
func (s *RoomService) Healthy(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.roomStore.Ping(ctx); err != nil {
		s.logger.Warn("store ping failed", "error", err)
		return &Error{Kind: KindStoreUnavailable, Message: "Store unavailable", Err: err}
	}
	return nil
}

func (s *RoomService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.queryTimeout)
}
