package users

import "time"

// RoleType represents the marketplace role a signed-in user acts under.
type RoleType string

const (
	RoleRetailer RoleType = "retailer" // Pharmacy buying stock through the storefront
	RoleSupplier RoleType = "supplier" // Wholesaler selling through the dashboard
	RoleAdmin    RoleType = "admin"    // Marketplace operations staff
)

// LicenseStatus is the approval state of the pharmacy/wholesale license the
// user registered with. Access to the marketplace is gated on approval.
type LicenseStatus string

const (
	LicensePending  LicenseStatus = "pending"
	LicenseApproved LicenseStatus = "approved"
	LicenseRejected LicenseStatus = "rejected"
)

// Profile is the signed-in user's account record as returned by the API.
type Profile struct {
	ID            string        `json:"id,omitempty"`
	Email         string        `json:"email,omitempty"`
	Phone         string        `json:"phone,omitempty"`
	FirstName     string        `json:"first_name,omitempty"`
	LastName      string        `json:"last_name,omitempty"`
	BusinessName  string        `json:"business_name,omitempty"`
	Role          RoleType      `json:"role,omitempty"`
	LicenseStatus LicenseStatus `json:"license_status,omitempty"`
	EmailVerified bool          `json:"email_verified,omitempty"`
	DateJoined    time.Time     `json:"date_joined,omitempty"`
	LastLogin     time.Time     `json:"last_login,omitempty"`
}

// SectionPath returns the storefront section the role belongs on.
func (r RoleType) SectionPath() string {
	switch r {
	case RoleSupplier:
		return "/supplier"
	case RoleAdmin:
		return "/admin"
	default:
		return "/retailer"
	}
}
