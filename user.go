package flexauth

import "context"

// TokenUser is the minimal user record the payload builder needs: a unique
// identifier and the staff/admin flag. Identity-record schemas vary by
// deployment, so everything else is expressed as optional capabilities
// below; the builder checks for each capability before reading it and
// degrades gracefully when one is absent.
type TokenUser interface {
	// PrimaryKey returns the unique identifier. A uuid.UUID value is
	// serialized to its canonical string form at claim time.
	PrimaryKey() any
	IsStaff() bool
}

// UsernameHolder exposes the user's username. The default username
// resolver uses it when present.
type UsernameHolder interface {
	Username() string
}

// EmailHolder exposes an email attribute. A present-but-empty value is
// still included in the claim set.
type EmailHolder interface {
	Email() string
}

// MobileHolder exposes a mobile number attribute.
type MobileHolder interface {
	Mobile() string
}

// NameHolder exposes a display name attribute.
type NameHolder interface {
	Name() string
}

// OrganizationHolder exposes an organization reference. The value is
// included verbatim.
type OrganizationHolder interface {
	Organization() any
}

// AssigneeHolder exposes a delegated-assignee reference. A nil return
// means "has no assignee" and yields an explicit null claim, which is
// distinct from the capability being absent entirely.
type AssigneeHolder interface {
	AssignedTo() *Assignee
}

// Assignee is the nested contact record embedded under the assigned_to claim.
type Assignee struct {
	Name   string
	Mobile string
	Email  string
}

// UserProvider is the identity-subsystem collaborator the engine uses to
// resolve the user referenced by a verified token.
type UserProvider interface {
	GetUserByID(ctx context.Context, userID string) (TokenUser, error)
}

// UsernameResolver resolves the value of the configured username claim.
// It stands in for deployments whose username lives outside the record
// returned by [UserProvider].
type UsernameResolver func(user TokenUser) string
