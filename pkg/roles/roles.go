package roles

// Role is the permission level carried in a user's JWT claims.
type Role string

const (
	Operator Role = "operator"
	Manager  Role = "manager"
	Admin    Role = "admin"
)

type HierarchyLevel int

const (
	OperatorLevel HierarchyLevel = 1
	ManagerLevel  HierarchyLevel = 2
	AdminLevel    HierarchyLevel = 3
)

func (r Role) GetHierarchyLevel() HierarchyLevel {
	switch r {
	case Operator:
		return OperatorLevel
	case Manager:
		return ManagerLevel
	case Admin:
		return AdminLevel
	default:
		return OperatorLevel
	}
}

// HasPermission reports whether the role satisfies the required role.
func (r Role) HasPermission(requiredRole Role) bool {
	return r.GetHierarchyLevel() >= requiredRole.GetHierarchyLevel()
}

func (r Role) IsValid() bool {
	switch r {
	case Operator, Manager, Admin:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}
