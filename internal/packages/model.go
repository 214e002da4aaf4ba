package packages

import "time"

// Status is a package's position in the delivery lifecycle. Transitions are made by the external
// fulfilment process; the portal only reads them.
type Status string

const (
	StatusPending    Status = "pending"
	StatusAssigned   Status = "assigned"
	StatusInDelivery Status = "in_delivery"
	StatusDelivered  Status = "delivered"
)

// Package is a trackable unit of aid assigned to a beneficiary.
type Package struct {
	ID                    string     `json:"id"`
	BeneficiaryID         string     `json:"beneficiary_id"`
	Name                  string     `json:"name"`
	Type                  string     `json:"type"`
	Description           string     `json:"description"`
	Status                Status     `json:"status"`
	ScheduledDeliveryDate *time.Time `json:"scheduled_delivery_date,omitempty"`
	DeliveredAt           *time.Time `json:"delivered_at,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
}
