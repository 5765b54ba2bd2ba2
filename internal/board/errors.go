package board

import "errors"

// Error variables for board operations.
var (
	ErrValidation       = errors.New("validation failed")
	ErrRuleViolation    = errors.New("move not allowed")
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrCorruptState     = errors.New("corrupt persisted state")
	ErrTicketNotFound   = errors.New("ticket not found")
	ErrInvalidStage     = errors.New("invalid stage")
	ErrInvalidPriority  = errors.New("invalid priority")
	ErrTitleRequired    = errors.New("title is required")
	ErrIDsExhausted     = errors.New("ticket ids exhausted")

	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
	ErrConfigInvalid      = errors.New("invalid config file")
	ErrBoardDirEmpty      = errors.New("board_dir cannot be empty")
	ErrUnknownBackend     = errors.New("unknown backend")
	ErrInvalidWIPLimit    = errors.New("wip_limit must be at least 1")
	ErrInvalidLogLevel    = errors.New("invalid log_level")
)
