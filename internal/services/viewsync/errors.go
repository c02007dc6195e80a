package viewsync

// ViewSyncError is a custom error type for view synchronization errors
type ViewSyncError string

// Error implements the error interface
func (e ViewSyncError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrNilConfig      ViewSyncError = "config cannot be nil"
	ErrNilSurface     ViewSyncError = "surface cannot be nil"
	ErrNilFlightRepo  ViewSyncError = "flight repository cannot be nil"
	ErrNilViewRefRepo ViewSyncError = "view reference repository cannot be nil"
	ErrNilClock       ViewSyncError = "clock cannot be nil"
)
