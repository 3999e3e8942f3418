package rides

import "github.com/ahmetcoskunkizilkaya/groupride-backend/internal/apperr"

var (
	ErrRideNotFound       = apperr.New(apperr.ErrNotFound, "ride not found")
	ErrRideEnded          = apperr.New(apperr.ErrConflict, "ride has ended")
	ErrNotHost            = apperr.New(apperr.ErrPermissionDenied, "only the ride host can do this")
	ErrMembershipNotFound = apperr.New(apperr.ErrNotFound, "you are not a member of this ride")
	ErrMemberNotFound     = apperr.New(apperr.ErrNotFound, "member not found on this ride")
	ErrCodeTaken          = apperr.New(apperr.ErrConflict, "ride code is already in use")
	ErrInvalidVisibility  = apperr.New(apperr.ErrInvalid, "visibility must be one of OPEN, FRIENDS, PREVIOUS_RIDERS, REQUEST_TO_JOIN, PRIVATE")
)
