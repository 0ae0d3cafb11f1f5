package model

import "gorm.io/gorm"

// BudgetSettings is one row per user. MonthlyBudget of zero means "not set";
// the spend views must never report over-budget in that case.
type BudgetSettings struct {
	gorm.Model
	UserID           uint    `gorm:"uniqueIndex" json:"user_id"`
	MonthlyBudget    float64 `json:"monthly_budget"`
	WarningThreshold int     `gorm:"default:80" json:"warning_threshold"`
}
