package repositories

import (
	"context"

	"github.com/gspp-platform/learning-service/internal/models"
)

// ChatRepository interface for student-teacher chat rooms
type ChatRepository interface {
	// FindOrCreateRoom returns the single room for the pair, creating it on
	// first use. The bool reports whether a new room was created.
	FindOrCreateRoom(ctx context.Context, studentID, teacherID uint) (*models.ChatRoom, bool, error)

	GetRoomByID(ctx context.Context, id uint) (*models.ChatRoom, error)
	ListRoomsByUser(ctx context.Context, userID uint) ([]*models.ChatRoom, error)
	AppendMessage(ctx context.Context, roomID uint, msg models.ChatMessage) error
}
