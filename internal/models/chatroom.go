package models

import (
	"time"

	"gorm.io/datatypes"
)

// ChatRoom links exactly one student/teacher pair; the unique pair index is
// what keeps concurrent transfer requests from creating a second room.
type ChatRoom struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	StudentID uint `json:"student_id" gorm:"not null;uniqueIndex:idx_chat_room_pair"`
	TeacherID uint `json:"teacher_id" gorm:"not null;uniqueIndex:idx_chat_room_pair"`

	// Append-only message log, stored as a JSON array of ChatMessage.
	Messages datatypes.JSON `json:"messages" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Student User `json:"-" gorm:"foreignKey:StudentID"`
	Teacher User `json:"-" gorm:"foreignKey:TeacherID"`
}

type ChatMessage struct {
	SenderID uint      `json:"sender"`
	Text     string    `json:"textMessage"`
	SentAt   time.Time `json:"created_at"`
}

func (ChatRoom) TableName() string {
	return "chat_rooms"
}

// HasParticipant reports whether the given user is one of the two room
// members.
func (r *ChatRoom) HasParticipant(userID uint) bool {
	return r.StudentID == userID || r.TeacherID == userID
}
