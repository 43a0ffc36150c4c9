package domain

import "time"

// Family representa el hogar: presupuesto mensual y ubicacion.
type Family struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
	// BudgetMonthly se expresa en unidades enteras de moneda (no centavos).
	BudgetMonthly *int      `json:"budget_monthly,omitempty"`
	Address       string    `json:"address,omitempty"`
	City          string    `json:"city,omitempty"`
	State         string    `json:"state,omitempty"`
	ZipCode       string    `json:"zip_code,omitempty"`
	Timezone      string    `json:"timezone"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// HasBudget indica si el hogar declaro un presupuesto utilizable.
func (f Family) HasBudget() bool {
	return f.BudgetMonthly != nil && *f.BudgetMonthly > 0
}
