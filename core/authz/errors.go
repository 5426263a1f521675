package authz

import "errors"

var (
	// ErrUnknownIdentity is returned when no account exists for the Telegram
	// identity. Resolution never auto-provisions; account creation is an
	// explicit, separate operation.
	ErrUnknownIdentity = errors.New("no account for identity")
	// ErrNotAMember is returned when the account has no membership in the
	// organization.
	ErrNotAMember = errors.New("not a member of organization")
	// ErrInsufficientRole is returned when the resolved role does not satisfy
	// the required one.
	ErrInsufficientRole = errors.New("insufficient role")
	// ErrStoreFailure wraps unexpected account/organization store errors.
	ErrStoreFailure = errors.New("authorization store failure")
)
