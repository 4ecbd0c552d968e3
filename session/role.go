package session

import "fmt"

// Role is the account role carried by the token.
type Role string

const (
	Staff Role = "staff"
	Admin Role = "admin"
)

// ParseRole returns the Role named s.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case Staff, Admin:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Requirement is the role a view needs.
type Requirement int

const (
	RequireAny Requirement = iota
	RequireStaff
	RequireAdmin
)

func (req Requirement) String() string {
	switch req {
	case RequireStaff:
		return "staff"
	case RequireAdmin:
		return "admin"
	}
	return "any"
}

// Allows reports whether role r may open a view with requirement req.
// Admins can open staff views.
func (r Role) Allows(req Requirement) bool {
	switch req {
	case RequireAdmin:
		return r == Admin
	case RequireStaff, RequireAny:
		return r == Staff || r == Admin
	}
	return false
}

// Views lists the dashboards available to r, in navigation order.
func (r Role) Views() []string {
	var views []string
	if r.Allows(RequireStaff) {
		views = append(views, "staff")
	}
	if r.Allows(RequireAdmin) {
		views = append(views, "admin")
	}
	return views
}
