package dataupdate

import "time"

// Status of an update request. Only pending is ever written here; review happens elsewhere.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Request is a beneficiary's proposal to change one field of their record.
type Request struct {
	ID              string    `json:"id"`
	BeneficiaryID   string    `json:"beneficiary_id"`
	UpdateType      string    `json:"update_type"`
	FieldName       string    `json:"field_name"`
	OldValue        string    `json:"old_value"`
	NewValue        string    `json:"new_value"`
	Status          Status    `json:"status"`
	RejectionReason *string   `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Field describes one displayed field of the beneficiary record on the profile tab.
type Field struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Value    string `json:"value"`
	Editable bool   `json:"editable"`
	Locked   bool   `json:"locked"`
}
