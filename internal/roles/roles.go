package roles

// Role names mirrored from the auth gateway groups.
const (
	Admin      = "ADMIN"
	Technician = "TECHNICIAN"
	Viewer     = "VIEWER"
)

// Caller is the identity attached to a request. Authentication itself is
// terminated upstream; this only carries the verdict.
type Caller struct {
	UserID        int64
	Authenticated bool
	Superuser     bool
	Roles         []string
}

func (c Caller) Has(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the caller may use privileged surfaces, including
// reading sensitive asset values.
func IsAdmin(c Caller) bool {
	return c.Authenticated && (c.Superuser || c.Has(Admin))
}

// CanManageAssets reports whether the caller may create or mutate records.
func CanManageAssets(c Caller) bool {
	return c.Authenticated && (c.Superuser || c.Has(Admin) || c.Has(Technician))
}
