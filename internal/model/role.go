package model

// Role is the single role a user holds. Only RoleAdmin is checked by the
// authorization policy.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleCashier Role = "CASHIER"
	RoleGuest   Role = "GUEST"
)

// Roles lists the selectable roles in display order
var Roles = []Role{RoleAdmin, RoleManager, RoleCashier, RoleGuest}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// Label returns the human readable role name.
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Admin"
	case RoleManager:
		return "Manager"
	case RoleCashier:
		return "Cashier"
	case RoleGuest:
		return "Guest"
	}
	return string(r)
}
