package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gspp-platform/learning-service/internal/models"
	"github.com/gspp-platform/learning-service/internal/repositories"
)

type chatRepository struct {
	db *gorm.DB
}

func NewChatPostgreSQL(db *gorm.DB) repositories.ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) FindOrCreateRoom(ctx context.Context, studentID, teacherID uint) (*models.ChatRoom, bool, error) {
	var room models.ChatRoom
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND teacher_id = ?", studentID, teacherID).
		First(&room).Error
	if err == nil {
		return &room, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, handleDBError(err, "find chat room")
	}

	room = models.ChatRoom{
		StudentID: studentID,
		TeacherID: teacherID,
		Messages:  []byte("[]"),
	}
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&room).Error
	if err != nil {
		return nil, false, handleDBError(err, "create chat room")
	}

	// A concurrent request may have won the insert race; the conflict clause
	// leaves room.ID zero in that case, so re-read the winner.
	if room.ID == 0 {
		err = r.db.WithContext(ctx).
			Where("student_id = ? AND teacher_id = ?", studentID, teacherID).
			First(&room).Error
		if err != nil {
			return nil, false, handleDBError(err, "reload chat room")
		}
		return &room, false, nil
	}

	return &room, true, nil
}

func (r *chatRepository) GetRoomByID(ctx context.Context, id uint) (*models.ChatRoom, error) {
	var room models.ChatRoom
	if err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Teacher").
		First(&room, id).Error; err != nil {
		return nil, handleDBError(err, "get chat room by id")
	}
	return &room, nil
}

func (r *chatRepository) ListRoomsByUser(ctx context.Context, userID uint) ([]*models.ChatRoom, error) {
	var rooms []*models.ChatRoom
	err := r.db.WithContext(ctx).
		Where("student_id = ? OR teacher_id = ?", userID, userID).
		Preload("Student").
		Preload("Teacher").
		Order("updated_at DESC").
		Find(&rooms).Error
	if err != nil {
		return nil, handleDBError(err, "list chat rooms by user")
	}
	return rooms, nil
}

func (r *chatRepository) AppendMessage(ctx context.Context, roomID uint, msg models.ChatMessage) error {
	var room models.ChatRoom
	if err := lockForUpdate(r.db.WithContext(ctx)).First(&room, roomID).Error; err != nil {
		return handleDBError(err, "load chat room for append")
	}

	var messages []models.ChatMessage
	if len(room.Messages) > 0 {
		if err := json.Unmarshal(room.Messages, &messages); err != nil {
			return handleDBError(err, "decode chat messages")
		}
	}
	messages = append(messages, msg)

	raw, err := json.Marshal(messages)
	if err != nil {
		return handleDBError(err, "encode chat messages")
	}

	err = r.db.WithContext(ctx).
		Model(&models.ChatRoom{}).
		Where("id = ?", roomID).
		Update("messages", raw).Error
	if err != nil {
		return handleDBError(err, "append chat message")
	}
	return nil
}
