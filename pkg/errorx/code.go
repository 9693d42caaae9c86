package errorx

import "net/http"

type Code int

var Unknown = Error{Code: 100000, Message: "Request failed"}

const (
	// Common codes
	BadRequest       Code = 100001
	BadResponse      Code = 100002
	PermissionDenied Code = 100003
	NotFound         Code = 100004
	Unauthenticated  Code = 100005
	AlreadyExists    Code = 100006
	Internal         Code = 100007
	Unavailable      Code = 100008
	NotImplemented   Code = 100009
	TooManyRequests  Code = 100010
	Conflict         Code = 100011

	// Social action codes
	SelfAction    Code = 200001
	Ownership     Code = 200002
	Unauthorized  Code = 200003
	Forbidden     Code = 200004
	Banned        Code = 200005
	NotSubscribed Code = 200006

	// Vote codes
	AlreadyVoted Code = 300001
	InvalidVote  Code = 300002

	// Auth codes
	TokenRevoked Code = 400001
)

// HTTPStatus returns the transport status the router writes for a code.
func (c Code) HTTPStatus() int {
	switch c {
	case BadRequest, InvalidVote, SelfAction:
		return http.StatusBadRequest
	case Unauthenticated, TokenRevoked:
		return http.StatusUnauthorized
	case PermissionDenied, Ownership, Unauthorized, Forbidden, Banned, NotSubscribed:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case AlreadyExists, AlreadyVoted, Conflict:
		return http.StatusConflict
	case TooManyRequests:
		return http.StatusTooManyRequests
	case Unavailable:
		return http.StatusServiceUnavailable
	case NotImplemented:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
