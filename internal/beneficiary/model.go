package beneficiary

import (
	"strings"
	"time"
)

// Beneficiary is a registered recipient of aid packages. Rows are created by the external
// registration process and only ever read here, apart from the portal access stamp.
type Beneficiary struct {
	ID                   string     `json:"id"`
	NationalID           string     `json:"national_id"`
	Name                 string     `json:"name"`
	FullName             string     `json:"full_name"`
	Gender               string     `json:"gender"`
	Phone                string     `json:"phone"`
	PhoneLocked          bool       `json:"phone_locked"`
	WhatsAppNumber       string     `json:"whatsapp_number"`
	WhatsAppFamilyMember string     `json:"whatsapp_family_member"`
	Address              string     `json:"address"`
	PersonalPhotoURL     string     `json:"personal_photo_url"`
	Status               string     `json:"status"`
	EligibilityStatus    string     `json:"eligibility_status"`
	Notes                string     `json:"notes"`
	LastPortalAccess     *time.Time `json:"last_portal_access,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// PhoneIsLocked reports whether the phone number can no longer be changed from the portal: once a
// number is on file, only an administrator may replace it.
func (b Beneficiary) PhoneIsLocked() bool {
	return b.PhoneLocked || strings.TrimSpace(b.Phone) != ""
}
