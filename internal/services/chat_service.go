package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/gspp-platform/learning-service/internal/models"
	"github.com/gspp-platform/learning-service/internal/repositories"
	"github.com/gspp-platform/learning-service/internal/validator"
)

type chatService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewChatService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) ChatService {
	return &chatService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
	}
}

// RoomsForUser lists rooms where the user is a participant, regardless of
// which side of the pair they sit on.
func (s *chatService) RoomsForUser(ctx context.Context, userID uint) ([]*models.ChatRoom, error) {
	rooms, err := s.repo.Chat().ListRoomsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat rooms: %w", err)
	}
	return rooms, nil
}

func (s *chatService) SendMessage(ctx context.Context, req *ChatMessageRequest, senderID uint) (*models.ChatRoom, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	room, err := s.repo.Chat().GetRoomByID(ctx, req.RoomID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to load chat room: %w", err)
	}

	if !room.HasParticipant(senderID) {
		return nil, NewPermissionError(senderID, room.ID, "chat_room", "send", "not a participant")
	}

	msg := models.ChatMessage{
		SenderID: senderID,
		Text:     req.Text,
		SentAt:   time.Now().UTC(),
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		return txRepo.Chat().AppendMessage(ctx, room.ID, msg)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to append message: %w", err)
	}

	return s.repo.Chat().GetRoomByID(ctx, room.ID)
}
