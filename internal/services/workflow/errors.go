package workflow

// WorkflowError is a custom error type for workflow-related errors
type WorkflowError string

// Error implements the error interface
func (e WorkflowError) Error() string {
	return string(e)
}

// Define errors
const (
	// ErrSessionExpired means a step arrived with no matching session, or
	// with a session in the wrong state. Terminal and non-retryable: the
	// actor has to start the workflow over.
	ErrSessionExpired WorkflowError = "session expired, start the command again"

	ErrInvalidTimestamp WorkflowError = "timestamps must be unix seconds or a Discord <t:...> token"
	ErrNilConfig        WorkflowError = "config cannot be nil"
	ErrNilScheduler     WorkflowError = "scheduling service cannot be nil"
	ErrNilClock         WorkflowError = "clock cannot be nil"
)
