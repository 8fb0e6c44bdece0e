package user

type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleHR       Role = "hr"
	RoleAdmin    Role = "admin"
)

// roleHierarchy ranks roles for role assignment checks. Higher outranks lower.
var roleHierarchy = map[Role]int{
	RoleEmployee: 1,
	RoleManager:  2,
	RoleHR:       3,
	RoleAdmin:    4,
}

// Rank returns the hierarchy level of r, or 0 for an unknown role.
func (r Role) Rank() int {
	return roleHierarchy[r]
}

func (r Role) IsValid() bool {
	_, ok := roleHierarchy[r]
	return ok
}

// CanActOnRole reports whether an actor holding actor may grant or manage an
// account holding target. Unknown roles on either side are never allowed.
//
// This governs role assignment only. Whether an actor may perform an action at
// all is answered by HasPermission.
func CanActOnRole(actor, target Role) bool {
	actorRank, targetRank := actor.Rank(), target.Rank()
	if actorRank == 0 || targetRank == 0 {
		return false
	}
	return targetRank <= actorRank
}

// Roles lists every valid role from lowest to highest rank.
func Roles() []Role {
	return []Role{RoleEmployee, RoleManager, RoleHR, RoleAdmin}
}
