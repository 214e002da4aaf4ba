package credential

import "time"

// Credential is a beneficiary's portal PIN, one per beneficiary.
type Credential struct {
	ID            string    `json:"id"`
	BeneficiaryID string    `json:"beneficiary_id"`
	NationalID    string    `json:"national_id"`
	PINHash       string    `json:"password_hash"`
	CreatedAt     time.Time `json:"created_at"`
}
