package domain

// Account roles. A token always carries the role it was issued with;
// the role is never re-derived during the token's lifetime.
const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
)

// Identity is the resolved caller attached to a request after token
// verification: the subset of a User or Seller record that authorization
// decisions need.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ValidRole reports whether role is one of the known account roles.
func ValidRole(role string) bool {
	return role == RoleBuyer || role == RoleSeller
}
