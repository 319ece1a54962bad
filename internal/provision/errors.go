package provision

import "errors"

// Sentinel errors for the provisioning services. Store-level failures are
// wrapped and propagated as-is; no retries happen anywhere in this package.
var (
	// ErrAppNotInitialized is returned when an operation requires a global
	// config or template that has not been provisioned yet, or when a
	// resolved status flow has no nodes.
	ErrAppNotInitialized = errors.New("application not initialized")

	// ErrAppInitialized is returned when system init is attempted after the
	// init sentinel has already been written.
	ErrAppInitialized = errors.New("application already initialized")

	// ErrDataNotFound is returned when a template, role, or space lookup
	// misses.
	ErrDataNotFound = errors.New("data not found")

	// ErrIllegalArgument is returned for malformed provisioning parameters.
	ErrIllegalArgument = errors.New("illegal argument")

	// ErrInner is returned when a stored document's JSON cannot be decoded
	// back into its model. This is the provisioning core's own
	// data-integrity error, distinct from transport or database failures.
	ErrInner = errors.New("inner error")

	// ErrCallClient wraps a failure from a downstream collaborator such as
	// the role store.
	ErrCallClient = errors.New("client call error")
)
