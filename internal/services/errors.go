package services

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by services and mapped to HTTP codes in handlers.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrCourseNotFound = errors.New("course not found")
	ErrModuleNotFound = errors.New("module not found")
	ErrRoomNotFound   = errors.New("chat room not found")

	ErrEmailTaken        = errors.New("email already registered")
	ErrInvalidCredential = errors.New("incorrect password")

	ErrPayerNotFound     = errors.New("payer account not found")
	ErrPayeeNotFound     = errors.New("payee account not found")
	ErrPinMismatch       = errors.New("pin does not match")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrDuplicateTransfer = errors.New("transfer already processed")

	ErrTransactionAborted = errors.New("transaction aborted")
)

// PermissionError reports an operation a user is not allowed to perform.
type PermissionError struct {
	UserID     uint
	ResourceID uint
	Resource   string
	Action     string
	Reason     string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %d cannot %s %s %d: %s", e.UserID, e.Action, e.Resource, e.ResourceID, e.Reason)
}

func NewPermissionError(userID, resourceID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

// BusinessRuleError reports a domain rule violation that is not a plain
// validation failure.
type BusinessRuleError struct {
	Rule    string
	Message string
}

func (e *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule %s violated: %s", e.Rule, e.Message)
}

func NewBusinessRuleError(rule, message string) *BusinessRuleError {
	return &BusinessRuleError{Rule: rule, Message: message}
}
