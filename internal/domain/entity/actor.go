package entity

// Role separates partner-company users from internal staff
type Role string

const (
	RolePartner  Role = "partner"
	RoleInternal Role = "internal"
)

// Position is an internal user's organizational position. Partner users
// carry no position.
type Position string

const (
	PositionSiteSupervisor Position = "site_supervisor"
	PositionManager        Position = "manager"
	PositionDepartmentHead Position = "department_head"
	PositionAccountant     Position = "accountant"
	PositionAdmin          Position = "admin"
	PositionDirector       Position = "director"
	PositionExecutive      Position = "executive"
)

// Actor identifies the user performing an engine operation. The identity
// collaborator supplies and authenticates these fields; the engine
// trusts them as-is.
type Actor struct {
	ID        string   `json:"id"`
	CompanyID string   `json:"company_id,omitempty"` // set for partner users
	Role      Role     `json:"role"`
	Position  Position `json:"position,omitempty"` // position at the invoice's site
}

// IsPartner returns true for partner-company users
func (a Actor) IsPartner() bool {
	return a.Role == RolePartner
}
