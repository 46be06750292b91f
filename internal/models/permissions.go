package models

// Category names a guarded area of the application. The set is closed: there is
// no way to grant a permission outside of it, and lookups against values not in
// this set always deny.
type Category string

const (
	CategoryCases        Category = "cases"
	CategoryClients      Category = "clients"
	CategoryAppointments Category = "appointments"
	CategoryDocuments    Category = "documents"
	CategoryFinancial    Category = "financial"
	CategoryEmployees    Category = "employees"
	CategoryReports      Category = "reports"
	CategoryFirmSettings Category = "firmSettings"
)

type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

// Grants holds the four action booleans for one category. A zero Grants value
// allows nothing, so an employee missing a category fails closed.
type Grants struct {
	View   bool `json:"view"`
	Create bool `json:"create"`
	Edit   bool `json:"edit"`
	Delete bool `json:"delete"`
}

// PermissionSet is the full permission matrix attached to an employee account.
// Owners never consult it. Stored as a typed JSONB column on the user row.
type PermissionSet struct {
	Cases        Grants `json:"cases"`
	Clients      Grants `json:"clients"`
	Appointments Grants `json:"appointments"`
	Documents    Grants `json:"documents"`
	Financial    Grants `json:"financial"`
	Employees    Grants `json:"employees"`
	Reports      Grants `json:"reports"`
	FirmSettings Grants `json:"firmSettings"`
}

// Category returns the grants for one category. Unknown categories return the
// zero Grants value, which denies every action.
func (p PermissionSet) Category(c Category) Grants {
	switch c {
	case CategoryCases:
		return p.Cases
	case CategoryClients:
		return p.Clients
	case CategoryAppointments:
		return p.Appointments
	case CategoryDocuments:
		return p.Documents
	case CategoryFinancial:
		return p.Financial
	case CategoryEmployees:
		return p.Employees
	case CategoryReports:
		return p.Reports
	case CategoryFirmSettings:
		return p.FirmSettings
	default:
		return Grants{}
	}
}

// Allows reports whether the matrix explicitly grants (category, action).
// Anything not explicitly true is a denial.
func (p PermissionSet) Allows(c Category, a Action) bool {
	g := p.Category(c)
	switch a {
	case ActionView:
		return g.View
	case ActionCreate:
		return g.Create
	case ActionEdit:
		return g.Edit
	case ActionDelete:
		return g.Delete
	default:
		return false
	}
}

func allActions() Grants {
	return Grants{View: true, Create: true, Edit: true, Delete: true}
}

func readOnly() Grants {
	return Grants{View: true}
}

func readWrite() Grants {
	return Grants{View: true, Create: true, Edit: true}
}

// DefaultPermissions returns the starting matrix an owner gets when adding an
// employee with the given role. The owner can tighten or widen any category
// afterwards; this is only the initial grant.
func DefaultPermissions(role UserRole) PermissionSet {
	switch role {
	case UserRolePartner:
		return PermissionSet{
			Cases:        allActions(),
			Clients:      allActions(),
			Appointments: allActions(),
			Documents:    allActions(),
			Financial:    allActions(),
			Employees:    readWrite(),
			Reports:      readOnly(),
			FirmSettings: readOnly(),
		}
	case UserRoleSeniorLawyer:
		return PermissionSet{
			Cases:        allActions(),
			Clients:      readWrite(),
			Appointments: readWrite(),
			Documents:    allActions(),
			Reports:      readOnly(),
		}
	case UserRoleLawyer:
		return PermissionSet{
			Cases:        readWrite(),
			Clients:      readWrite(),
			Appointments: readWrite(),
			Documents:    readWrite(),
		}
	case UserRoleJuniorLawyer:
		return PermissionSet{
			Cases:        readOnly(),
			Clients:      readOnly(),
			Appointments: readWrite(),
			Documents:    readWrite(),
		}
	case UserRoleLegalAssistant:
		return PermissionSet{
			Cases:        readOnly(),
			Clients:      readWrite(),
			Appointments: readWrite(),
			Documents:    readWrite(),
		}
	case UserRoleSecretary:
		return PermissionSet{
			Clients:      readWrite(),
			Appointments: allActions(),
			Documents:    readOnly(),
		}
	case UserRoleAccountant:
		return PermissionSet{
			Clients:   readOnly(),
			Financial: allActions(),
			Reports:   readOnly(),
		}
	case UserRoleIntern:
		return PermissionSet{
			Cases:        readOnly(),
			Documents:    readOnly(),
			Appointments: readOnly(),
		}
	default:
		// Unknown roles start with nothing.
		return PermissionSet{}
	}
}
