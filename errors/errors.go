package errors

import "fmt"

var (
	ErrWorkerPanic = fmt.Errorf("worker panic")

	ErrInvalidRequest       = fmt.Errorf("invalid request")
	ErrEmptyContent         = fmt.Errorf("content must not be empty")
	ErrContentTooLong       = fmt.Errorf("content exceeds maximum length")
	ErrEmptyQuery           = fmt.Errorf("search query must not be empty")
	ErrInvalidPassword      = fmt.Errorf("password does not satisfy requirements")
	ErrConversationNotFound = fmt.Errorf("conversation not found")
	ErrUserNotFound         = fmt.Errorf("user not found")
	ErrTaskNotFound         = fmt.Errorf("task not found")
	ErrNotParticipant       = fmt.Errorf("user is not a participant of this conversation")
	ErrUnauthorized         = fmt.Errorf("not authorized")
	ErrInvalidCredentials   = fmt.Errorf("invalid email or password")
	ErrUserAlreadyExists    = fmt.Errorf("user already exists")
	ErrTokenGeneration      = fmt.Errorf("token generation failed")

	ErrNotTaskCreator      = fmt.Errorf("only the task creator can do this")
	ErrTaskNotOpen         = fmt.Errorf("task is not open for applications")
	ErrOwnTask             = fmt.Errorf("cannot apply to your own task")
	ErrAlreadyApplied      = fmt.Errorf("already applied to this task")
	ErrTaskCompleted       = fmt.Errorf("task is already completed")
	ErrInsufficientCredits = fmt.Errorf("insufficient credits")
)
