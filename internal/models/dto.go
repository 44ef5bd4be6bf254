package models

import "time"

// ===== AUTH DTOs =====

type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// ===== COURSE DTOs =====

type CourseDetailResponse struct {
	Course   *Course         `json:"course"`
	Owner    *PublicUser     `json:"owner"`
	Modules  []Module        `json:"modules"`
	Comments []CommentDetail `json:"comments"`
	Reviews  []ReviewDetail  `json:"reviews"`
}

type CommentDetail struct {
	Comment
	Author *PublicUser `json:"author"`
}

type ReviewDetail struct {
	Review
	Author *PublicUser `json:"author"`
}

// ===== PAYMENT DTOs =====

type TransferResult struct {
	Transaction *Transaction `json:"transaction"`
	Balance     int64        `json:"balance"`
	ChatRoomID  uint         `json:"chat_room_id,omitempty"`
	Replayed    bool         `json:"replayed"`
}

type TopUpResult struct {
	Transaction *Transaction `json:"transaction"`
	Balance     int64        `json:"balance"`
}

// ===== VALIDATION RESPONSES =====

type ValidationErrorResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   string `json:"value"`
	Code    string `json:"code"`
}

// ===== ERROR RESPONSES =====

type ErrorResponse struct {
	Error            string                    `json:"error"`
	Message          string                    `json:"message"`
	Code             string                    `json:"code"`
	Details          interface{}               `json:"details,omitempty"`
	Timestamp        time.Time                 `json:"timestamp"`
	Path             string                    `json:"path"`
	ValidationErrors []ValidationErrorResponse `json:"validation_errors,omitempty"`
}
