package viewref

import "context"

// Repository stores the message ID behind each named calendar view. The
// stored reference is the durable middle tier of the view repair chain:
// above it sits the process-local handle cache, below it the bounded
// channel search.
type Repository interface {
	// GetRef returns the stored message ID for a view, or ErrRefNotFound
	GetRef(ctx context.Context, input *GetRefInput) (string, error)

	// SetRef stores the message ID for a view
	SetRef(ctx context.Context, input *SetRefInput) error

	// ClearRef drops a stored reference that turned out to be stale
	ClearRef(ctx context.Context, input *ClearRefInput) error
}

type GetRefInput struct {
	View string
}

type SetRefInput struct {
	View      string
	MessageID string
}

type ClearRefInput struct {
	View string
}
