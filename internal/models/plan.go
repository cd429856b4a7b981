package models

import "time"

// Plan caches a recurring billing plan created on the payment gateway.
// At most one row exists per (name, interval) pair so repeated
// ensure-plan calls never create duplicate remote plans.
type Plan struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"not null;uniqueIndex:idx_plans_name_interval" json:"name"`
	Interval  string    `gorm:"not null;uniqueIndex:idx_plans_name_interval" json:"interval"`
	Amount    float64   `gorm:"not null" json:"amount"`
	PlanCode  string    `gorm:"not null" json:"plan_code"`
	CreatedAt time.Time `json:"created_at"`
}
