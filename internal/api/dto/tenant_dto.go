package dto

// CreateTenantRequest payload. The owner is always the caller.
type CreateTenantRequest struct {
	Name string `json:"name"`
}

// EditTenantRequest replaces a tenant, possibly under a new id.
type EditTenantRequest struct {
	TenantID string `json:"tenant_id"`
	OwnerID  string `json:"owner_id"`
	Name     string `json:"name"`
}

// DeleteTenantRequest names the tenant to remove.
type DeleteTenantRequest struct {
	TenantID string `json:"tenant_id"`
}
