package workflow

import "github.com/rahaf-dev/sanad_backend/models"

type Role string

const (
	RoleAdmin      Role = models.RoleAdmin
	RoleParent     Role = models.RoleParent
	RoleSpecialist Role = models.RoleSpecialist
	RoleManager    Role = models.RoleManager
)

// Actor is the authenticated identity invoking an operation. Services check
// it uniformly before touching anything.
type Actor struct {
	UserID uint
	Role   Role
}

func (a Actor) require(role Role) error {
	if a.Role != role {
		return Unauthorized(string(role) + " role required")
	}
	return nil
}
