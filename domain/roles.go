package domain

// RoleName is the closed set of roles known to the system
type RoleName string

const (
	RoleAdmin RoleName = "ADMIN"
	RoleUser  RoleName = "USER"
)

// Valid reports whether the name belongs to the closed role set.
func (r RoleName) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser:
		return true
	}
	return false
}

// RoleAllowed decides whether a subject role satisfies a route's required
// role set. An empty required set means no restriction.
func RoleAllowed(subject RoleName, required ...RoleName) bool {
	if len(required) == 0 {
		return true
	}
	for _, r := range required {
		if subject == r {
			return true
		}
	}
	return false
}
