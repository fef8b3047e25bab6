package models

import "time"

type ServiceTicket struct {
	ID            int64      `json:"id"`
	CustomerID    int64      `json:"customer_id"`
	VehicleYear   *int64     `json:"vehicle_year,omitempty"`
	VehicleMake   string     `json:"vehicle_make,omitempty"`
	VehicleModel  string     `json:"vehicle_model,omitempty"`
	VehicleVIN    string     `json:"vehicle_vin,omitempty"`
	Description   string     `json:"description"`
	EstimatedCost *float64   `json:"estimated_cost,omitempty"`
	ActualCost    *float64   `json:"actual_cost,omitempty"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}
