package attendance

// Stable rejection codes callers branch on. Each validation failure maps
// to exactly one code; codes never change meaning between releases.
const (
	CodeNotFound          = "not_found"
	CodeExpired           = "expired"
	CodeForbidden         = "forbidden"
	CodeLocationRequired  = "location_required"
	CodeTooFar            = "too_far"
	CodeAlreadyMarked     = "already_marked"
	CodeValidationFailure = "validation_failure"
)

// Rejection is an expected validation outcome, distinct from internal
// failures. Handlers surface the code and message verbatim.
type Rejection struct {
	Code    string
	Message string
}

func (r *Rejection) Error() string { return r.Message }

var (
	ErrSessionNotFound  = &Rejection{Code: CodeNotFound, Message: "session not found"}
	ErrExpired          = &Rejection{Code: CodeExpired, Message: "session has expired"}
	ErrNotEnrolled      = &Rejection{Code: CodeForbidden, Message: "student not enrolled in the class"}
	ErrLocationRequired = &Rejection{Code: CodeLocationRequired, Message: "location is required for this class"}
	ErrTooFar           = &Rejection{Code: CodeTooFar, Message: "too far from the class location"}
	ErrAlreadyMarked    = &Rejection{Code: CodeAlreadyMarked, Message: "attendance already marked for this session"}
)
