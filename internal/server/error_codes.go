package server

const (
	// Validation (1xxx)
	ErrCodeInvalidArgument       = 1000
	ErrCodeRequestTooLarge       = 1002
	ErrCodeInvalidQuery          = 1003
	ErrCodeInvalidID             = 1004
	ErrCodeUnsupportedType       = 1006
	ErrCodeMissingRequired       = 1009
	ErrCodeTypeMismatch          = 1015
	ErrCodeUnsupportedExtension  = 1016
	ErrCodeUnsupportedConversion = 1017

	// Domain state (2xxx)
	ErrCodeFragmentNotFound = 2001
	ErrCodeDataNotFound     = 2002
	ErrCodeRouteNotFound    = 2003

	// Auth (3xxx)
	ErrCodeUnauthorized = 3001

	// Internal/system (4xxx)
	ErrCodeInternal     = 4001
	ErrCodeStoreFailure = 4002
)

func defaultErrorCodeByStatus(status int) int {
	switch status {
	case 400:
		return ErrCodeInvalidArgument
	case 401:
		return ErrCodeUnauthorized
	case 404:
		return ErrCodeFragmentNotFound
	case 415:
		return ErrCodeUnsupportedType
	case 500:
		return ErrCodeInternal
	default:
		return 0
	}
}
