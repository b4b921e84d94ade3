package flexauth

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Claims is the claim-name to value mapping handed to the signing
// collaborator. It is built fresh per issuance and discarded after signing.
type Claims map[string]any

// DefaultUsernameResolver reads the [UsernameHolder] capability and falls
// back to the stringified primary key.
func DefaultUsernameResolver(user TokenUser) string {
	if h, ok := user.(UsernameHolder); ok {
		return h.Username()
	}
	return fmt.Sprint(user.PrimaryKey())
}

// BuildPayload constructs the claim set for a freshly issued token. It is a
// total function: absence of optional user attributes is normal, never an
// error. Every produced value is JSON-scalar-serializable or a flat nested
// mapping; UUID identifiers are serialized to their canonical string form.
//
// The claim set always contains user_id, is_admin, exp, and the configured
// username claim. email, mobile, name, organization, and assigned_to are
// included only when the user record exposes the matching capability;
// orig_iat, aud, and iss only when the config enables them.
func BuildPayload(user TokenUser, cfg TokenConfig, resolve UsernameResolver, now time.Time) Claims {
	now = now.UTC()

	claims := Claims{
		"user_id":  scalarID(user.PrimaryKey()),
		"is_admin": user.IsStaff(),
		"exp":      now.Add(cfg.ExpirationDelta).Unix(),
	}

	if h, ok := user.(EmailHolder); ok {
		claims["email"] = h.Email()
	}
	if h, ok := user.(MobileHolder); ok {
		claims["mobile"] = h.Mobile()
	}
	if h, ok := user.(NameHolder); ok {
		claims["name"] = h.Name()
	}

	if resolve == nil {
		resolve = DefaultUsernameResolver
	}
	claims[cfg.UsernameClaim] = resolve(user)

	if h, ok := user.(OrganizationHolder); ok {
		claims["organization"] = h.Organization()
	}

	if h, ok := user.(AssigneeHolder); ok {
		if assignee := h.AssignedTo(); assignee != nil {
			claims["assigned_to"] = map[string]any{
				"name":   assignee.Name,
				"mobile": assignee.Mobile,
				"email":  assignee.Email,
			}
		} else {
			// Explicit null: "has no assignee" is distinct from
			// "assignment not applicable".
			claims["assigned_to"] = nil
		}
	}

	if cfg.AllowRefresh {
		claims["orig_iat"] = now.Unix()
	}
	if cfg.Audience != "" {
		claims["aud"] = cfg.Audience
	}
	if cfg.Issuer != "" {
		claims["iss"] = cfg.Issuer
	}

	return claims
}

// scalarID normalizes the identifier to a value the signing collaborator
// can serialize.
func scalarID(pk any) any {
	switch id := pk.(type) {
	case uuid.UUID:
		return id.String()
	case *uuid.UUID:
		if id == nil {
			return nil
		}
		return id.String()
	default:
		return pk
	}
}
