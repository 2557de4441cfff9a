package apperrors

var (
	// Domain errors returned by the messaging services.
	ErrSelfMessage     = InvalidArg("cannot send a message to yourself")
	ErrEmptyContent    = InvalidArg("message content cannot be empty")
	ErrInvalidUserID   = InvalidArg("user ids must be positive")
	ErrProfileNotFound = NotFound("profile not found")
	ErrInvalidProfile  = InvalidArg("profile requires a positive id and a name")
	ErrInvalidRoom     = InvalidArg("invalid room id")
	ErrNotParticipant  = Forbidden("you are not part of this conversation")
)

// StoreUnavailable reports a failed read or write against the backing key-value store.
func StoreUnavailable(cause error) error {
	return Unavailable("conversation store unavailable", cause)
}
