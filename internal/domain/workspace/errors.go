package workspace

import "errors"

var (
	// ErrNoteNotFound indicates the note doesn't exist.
	ErrNoteNotFound = errors.New("note not found")
	// ErrFolderNotFound indicates the folder doesn't exist.
	ErrFolderNotFound = errors.New("folder not found")
	// ErrInvalidInput indicates invalid workspace input.
	ErrInvalidInput = errors.New("invalid workspace input")
	// ErrFolderCycle indicates a folder would become its own ancestor.
	ErrFolderCycle = errors.New("folder cannot be moved under itself")
	// ErrImageTooLarge indicates an embedded image exceeds MaxImageSize.
	ErrImageTooLarge = errors.New("image too large")
)
