package entity

// Role is the closed set of account roles. Authorization checks compare
// against these constants only; there are no free-form role strings.
type Role string

const (
	RoleCustomer  Role = "customer"
	RoleAdmin     Role = "admin"
	RoleWarehouse Role = "warehouse"
	RoleLogistics Role = "logistics"
	RoleDispatch  Role = "dispatch"
	RoleDelivery  Role = "delivery"
)

// StaffRoles are the roles an admin may assign when creating staff accounts.
var StaffRoles = []Role{RoleWarehouse, RoleLogistics, RoleDispatch, RoleDelivery, RoleAdmin}

func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleAdmin, RoleWarehouse, RoleLogistics, RoleDispatch, RoleDelivery:
		return true
	}
	return false
}

type User struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"-"` // bcrypt hash
	Role     Role   `json:"role"`
	Active   bool   `json:"active"`
}

// Principal is the request-scoped identity attached by the auth middleware.
// Handlers and services receive it explicitly; there is no ambient session state.
type Principal struct {
	UserID int  `json:"user_id"`
	Role   Role `json:"role"`
	Active bool `json:"active"`
}
