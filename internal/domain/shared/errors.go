package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound             = NewDomainError("NOT_FOUND", "Resource not found")
	ErrInvalidInput         = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrUnauthorized         = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden            = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState         = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrReadOnly             = NewDomainError("READ_ONLY", "Document is read-only for this user")
	ErrConfirmationRequired = NewDomainError("CONFIRMATION_REQUIRED", "Action requires explicit confirmation")
	ErrActionInFlight       = NewDomainError("ACTION_IN_FLIGHT", "The same action is already in progress")
	ErrNotEditing           = NewDomainError("NOT_EDITING", "Document is not in edit mode")
)
