package domain

import "time"

// Tenant is an isolated marketplace scope controlled by one owner.
type Tenant struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TenantDetail carries the descriptive fields of a tenant.
type TenantDetail struct {
	ID       string `json:"id"`
	TenantID string `json:"tenant_id"`
	Name     string `json:"name"`
}

// TenantOwnership is the tenant lookup result used for ownership checks.
type TenantOwnership struct {
	Tenant Tenant       `json:"tenants"`
	Detail TenantDetail `json:"tenantDetails"`
}

// OwnedBy reports whether userID controls the tenant.
func (t *TenantOwnership) OwnedBy(userID string) bool {
	return t != nil && userID != "" && t.Tenant.OwnerID == userID
}
