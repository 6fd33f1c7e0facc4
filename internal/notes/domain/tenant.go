package domain

import "time"

// Plan is a tenant's subscription plan.
type Plan string

const (
	PlanFree Plan = "FREE"
	PlanPro  Plan = "PRO"
)

// FreePlanNoteLimit caps notes for FREE tenants. PRO is unlimited.
const FreePlanNoteLimit = 3

type Tenant struct {
	ID        string
	Name      string
	Slug      string // unique, URL-safe
	Plan      Plan
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TenantStats are aggregate counts shown on the tenant info endpoint.
type TenantStats struct {
	TotalUsers int64
	TotalNotes int64
}
