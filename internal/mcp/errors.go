package mcp

import (
	"errors"
	"fmt"

	"github.com/marknote/marknote/internal/domain/activity"
	"github.com/marknote/marknote/internal/domain/workspace"
	"github.com/marknote/marknote/internal/persistence"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func invalidInput(format string, args ...any) *APIError {
	return &APIError{Code: "INVALID_INPUT", Message: fmt.Sprintf(format, args...), RecoveryHint: "Check the tool's input schema"}
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	switch {
	case errors.Is(err, workspace.ErrNoteNotFound):
		return &APIError{Code: "NOTE_NOT_FOUND", Message: "note not found", RecoveryHint: "Call list_notes for valid ids"}
	case errors.Is(err, workspace.ErrFolderNotFound):
		return &APIError{Code: "FOLDER_NOT_FOUND", Message: "folder not found", RecoveryHint: "Call list_folders for valid ids"}
	case errors.Is(err, workspace.ErrFolderCycle):
		return &APIError{Code: "FOLDER_CYCLE", Message: "folder cannot be moved under itself or a descendant", RecoveryHint: "Pick a parent outside the folder's subtree"}
	case errors.Is(err, workspace.ErrImageTooLarge):
		return &APIError{Code: "IMAGE_TOO_LARGE", Message: fmt.Sprintf("image exceeds %d bytes", workspace.MaxImageSize), RecoveryHint: "Shrink the image"}
	case errors.Is(err, workspace.ErrInvalidInput),
		errors.Is(err, persistence.ErrInvalidPreference),
		errors.Is(err, activity.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error(), RecoveryHint: "Check the tool's input schema"}
	default:
		return nil
	}
}
