package contextkeys

// contextKey is an unexported type to prevent collisions with context keys
// defined in other packages.
type contextKey string

// String makes contextKey satisfy the Stringer interface to assist with debugging.
func (c contextKey) String() string {
	return "sclhub-api context key " + string(c)
}

// UserIDKey is the key for the authenticated principal's UID in context.Context
const UserIDKey = contextKey("userID")

// UserEmailKey is the key for the principal's email in context.Context
const UserEmailKey = contextKey("userEmail")

// AdminKey marks a request authenticated through the admin Basic-auth realm
const AdminKey = contextKey("admin")

// RequestIDKey is the key for the request ID in context.Context
const RequestIDKey = contextKey("requestID")

// ComponentKey is the key for the logging component name in context.Context
const ComponentKey = contextKey("component")
