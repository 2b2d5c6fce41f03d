package authz

import (
	"testing"

	"github.com/google/uuid"
	"github.com/sirawit/examportal/internal/model"
	"gorm.io/gorm"
)

type fakeProfileRepo struct {
	profiles map[uuid.UUID]*model.Profile
}

func (r *fakeProfileRepo) Create(profile *model.Profile) error { return nil }
func (r *fakeProfileRepo) FindByID(id uuid.UUID) (*model.Profile, error) {
	if p, ok := r.profiles[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (r *fakeProfileRepo) FindByEmail(email string) (*model.Profile, error) {
	return nil, gorm.ErrRecordNotFound
}

func TestEvaluateAdmin(t *testing.T) {
	adminID := uuid.New()
	studentID := uuid.New()
	unknownID := uuid.New()

	policy := NewRolePolicy(&fakeProfileRepo{profiles: map[uuid.UUID]*model.Profile{
		adminID:   {ID: adminID, Role: model.RoleAdmin},
		studentID: {ID: studentID, Role: model.RoleStudent},
	}})

	tests := []struct {
		name       string
		userID     uuid.UUID
		wantAllow  bool
		wantReason string
	}{
		{"admin allowed", adminID, true, ReasonAllowed},
		{"student denied", studentID, false, ReasonRoleMismatch},
		{"missing profile denied", unknownID, false, ReasonProfileNotFound},
		{"nil user denied", uuid.Nil, false, ReasonUnauthenticated},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			decision := policy.EvaluateAdmin(tc.userID)
			if decision.Allow != tc.wantAllow {
				t.Errorf("expected Allow=%v, got %v", tc.wantAllow, decision.Allow)
			}
			if decision.Reason != tc.wantReason {
				t.Errorf("expected reason %q, got %q", tc.wantReason, decision.Reason)
			}
		})
	}
}
