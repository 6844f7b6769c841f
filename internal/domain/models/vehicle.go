package models

import "onnrides/internal/payment"

// Vehicle is a rentable unit in the fleet.
type Vehicle struct {
	ID              int64
	VehicleCode     string
	Name            string
	PlateNumber     string
	Category        string
	PricePerDay     payment.Paise
	SecurityDeposit payment.Paise
	Available       bool
}

// VehicleUpdate supports PATCH-style updates via key presence.
type VehicleUpdate struct {
	Name            *string
	PlateNumber     *string
	Category        *string
	PricePerDay     *payment.Paise
	SecurityDeposit *payment.Paise
	Available       *bool
}
