// Package authz is the single policy gate for administrative operations.
// Every admin route consults it once per request instead of re-querying the
// role column ad hoc.
package authz

import (
	"github.com/google/uuid"
	"github.com/sirawit/examportal/internal/model"
	"github.com/sirawit/examportal/internal/repository"
)

// Reason codes attached to every decision.
const (
	ReasonAllowed         = "allowed"
	ReasonUnauthenticated = "unauthenticated"
	ReasonProfileNotFound = "profile_not_found"
	ReasonRoleMismatch    = "role_mismatch"
)

// Decision is an allow/deny verdict with the reason it was reached.
type Decision struct {
	Allow  bool
	Reason string
}

// Policy evaluates whether a user may perform administrative operations.
type Policy interface {
	EvaluateAdmin(userID uuid.UUID) Decision
}

type rolePolicy struct {
	profileRepo repository.ProfileRepository
}

func NewRolePolicy(profileRepo repository.ProfileRepository) Policy {
	return &rolePolicy{profileRepo: profileRepo}
}

func (p *rolePolicy) EvaluateAdmin(userID uuid.UUID) Decision {
	if userID == uuid.Nil {
		return Decision{Allow: false, Reason: ReasonUnauthenticated}
	}
	profile, err := p.profileRepo.FindByID(userID)
	if err != nil {
		return Decision{Allow: false, Reason: ReasonProfileNotFound}
	}
	if profile.Role != model.RoleAdmin {
		return Decision{Allow: false, Reason: ReasonRoleMismatch}
	}
	return Decision{Allow: true, Reason: ReasonAllowed}
}
