package usecase

import (
	"context"
	"fmt"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/internal/data/repository"
	"cinema-ticketing/internal/dto/request"
	"cinema-ticketing/internal/dto/response"
	"cinema-ticketing/pkg/apperr"
	"cinema-ticketing/pkg/utils"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

type RoomService interface {
	GetRooms(ctx context.Context) ([]response.RoomResponse, error)
	GetRoomByID(ctx context.Context, roomID string) (*response.RoomResponse, error)
	GetRoomByNumber(ctx context.Context, number int) (*response.RoomResponse, error)
	CreateRoom(ctx context.Context, actor Actor, req *request.RoomRequest) (*response.RoomResponse, error)
	UpdateRoom(ctx context.Context, actor Actor, roomID string, req *request.RoomRequest) (*response.RoomResponse, error)
	DeleteRoom(ctx context.Context, actor Actor, roomID string) error
}

type roomService struct {
	repo  *repository.Repository
	clock clockwork.Clock
	log   *zap.Logger
}

func NewRoomService(repo *repository.Repository, clock clockwork.Clock, log *zap.Logger) RoomService {
	return &roomService{
		repo:  repo,
		clock: clock,
		log:   log.With(zap.String("service", "room")),
	}
}

func (s *roomService) GetRooms(ctx context.Context) ([]response.RoomResponse, error) {
	rooms, err := s.repo.Room.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("get rooms: %w", err)
	}

	responses := make([]response.RoomResponse, len(rooms))
	for i, room := range rooms {
		responses[i] = response.RoomToResponse(room)
	}
	return responses, nil
}

func (s *roomService) GetRoomByID(ctx context.Context, roomID string) (*response.RoomResponse, error) {
	id, err := uuid.Parse(roomID)
	if err != nil {
		return nil, apperr.InvalidArgument("invalid room ID format %s", roomID)
	}

	room, err := s.repo.Room.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get room %s: %w", roomID, err)
	}
	if room == nil {
		return nil, apperr.NotFound("room %s not found", roomID)
	}

	resp := response.RoomToResponse(room)
	return &resp, nil
}

func (s *roomService) GetRoomByNumber(ctx context.Context, number int) (*response.RoomResponse, error) {
	if number < 1 {
		return nil, apperr.InvalidArgument("invalid room number %d", number)
	}

	room, err := s.repo.Room.FindByNumber(ctx, number)
	if err != nil {
		return nil, fmt.Errorf("get room number %d: %w", number, err)
	}
	if room == nil {
		return nil, apperr.NotFound("room number %d not found", number)
	}

	resp := response.RoomToResponse(room)
	return &resp, nil
}

func (s *roomService) CreateRoom(ctx context.Context, actor Actor, req *request.RoomRequest) (*response.RoomResponse, error) {
	if !actor.IsAdmin() {
		return nil, apperr.PermissionDenied("only administrators can create rooms")
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.InvalidArgument("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	existing, err := s.repo.Room.FindByNumber(ctx, req.Number)
	if err != nil {
		return nil, fmt.Errorf("check room number %d: %w", req.Number, err)
	}
	if existing != nil {
		return nil, apperr.Conflict("room number %d is already in use", req.Number)
	}

	now := s.clock.Now()
	room := &entity.Room{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Number:  req.Number,
		Rows:    req.Rows,
		Columns: req.Columns,
	}

	if err := s.repo.Room.Create(ctx, room); err != nil {
		return nil, fmt.Errorf("create room %d: %w", req.Number, err)
	}

	s.log.Info("Room created",
		zap.String("room_id", room.ID.String()),
		zap.Int("number", room.Number),
		zap.Int("capacity", room.Capacity()),
	)

	resp := response.RoomToResponse(room)
	return &resp, nil
}

// UpdateRoom changes the number or grid of a room that has no sessions yet.
// Resizing a room under scheduled sessions would silently invalidate sold
// seat coordinates, so the whole edit is refused instead.
func (s *roomService) UpdateRoom(ctx context.Context, actor Actor, roomID string, req *request.RoomRequest) (*response.RoomResponse, error) {
	if !actor.IsAdmin() {
		return nil, apperr.PermissionDenied("only administrators can update rooms")
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.InvalidArgument("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	id, err := uuid.Parse(roomID)
	if err != nil {
		return nil, apperr.InvalidArgument("invalid room ID format %s", roomID)
	}

	room, err := s.repo.Room.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get room %s: %w", roomID, err)
	}
	if room == nil {
		return nil, apperr.NotFound("room %s not found", roomID)
	}

	sessions, err := s.repo.Session.CountByRoomID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count sessions of room %s: %w", roomID, err)
	}
	if sessions > 0 {
		return nil, apperr.StateConflict("cannot modify a room with scheduled sessions")
	}

	if req.Number != room.Number {
		existing, err := s.repo.Room.FindByNumber(ctx, req.Number)
		if err != nil {
			return nil, fmt.Errorf("check room number %d: %w", req.Number, err)
		}
		if existing != nil {
			return nil, apperr.Conflict("room number %d is already in use", req.Number)
		}
	}

	room.Number = req.Number
	room.Rows = req.Rows
	room.Columns = req.Columns
	room.UpdatedAt = s.clock.Now()

	if err := s.repo.Room.Update(ctx, room); err != nil {
		return nil, fmt.Errorf("update room %s: %w", roomID, err)
	}

	s.log.Info("Room updated",
		zap.String("room_id", roomID),
		zap.Int("number", room.Number),
	)

	resp := response.RoomToResponse(room)
	return &resp, nil
}

func (s *roomService) DeleteRoom(ctx context.Context, actor Actor, roomID string) error {
	if !actor.IsAdmin() {
		return apperr.PermissionDenied("only administrators can delete rooms")
	}

	id, err := uuid.Parse(roomID)
	if err != nil {
		return apperr.InvalidArgument("invalid room ID format %s", roomID)
	}

	room, err := s.repo.Room.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get room %s: %w", roomID, err)
	}
	if room == nil {
		return apperr.NotFound("room %s not found", roomID)
	}

	sessions, err := s.repo.Session.CountByRoomID(ctx, id)
	if err != nil {
		return fmt.Errorf("count sessions of room %s: %w", roomID, err)
	}
	if sessions > 0 {
		return apperr.StateConflict("cannot delete a room with scheduled sessions")
	}

	if err := s.repo.Room.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete room %s: %w", roomID, err)
	}

	s.log.Info("Room deleted", zap.String("room_id", roomID), zap.Int("number", room.Number))
	return nil
}
