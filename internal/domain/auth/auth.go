// Package auth defines the authorization context the core consumes.
// Authentication itself (token issuing, signature verification transport)
// is an external collaborator; the core only sees the resolved issuer.
package auth

import (
	"github.com/google/uuid"

	"github.com/Haleralex/ledgerhub/internal/domain/entities"
)

// Authorization is the opaque caller identity handed to every operation.
// Issuer kind gates which operations are permitted:
//   - User: read wallets/transactions, annotate transactions
//   - Business: full tenant management
//   - App: same as Business, acting programmatically
type Authorization struct {
	Issuer   entities.Issuer
	UserID   uuid.UUID
	Business *entities.Business
	AppID    string
	Scopes   []string
}

// BusinessName returns the tenant key, or "" when no business is resolved.
func (a *Authorization) BusinessName() string {
	if a.Business == nil {
		return ""
	}
	return a.Business.Name()
}

// IsUser reports whether the caller is an end user.
func (a *Authorization) IsUser() bool {
	return a.Issuer == entities.IssuerUser
}

// CanManage reports whether the caller may create and mutate tenant
// resources (wallets, holds, proposals). End users cannot.
func (a *Authorization) CanManage() bool {
	return a.Issuer == entities.IssuerBusiness || a.Issuer == entities.IssuerApp
}
