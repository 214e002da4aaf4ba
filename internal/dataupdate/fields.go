package dataupdate

import "github.com/aid-portal/beneficiary_portal/internal/beneficiary"

const (
	FieldName                 = "name"
	FieldFullName             = "full_name"
	FieldNationalID           = "national_id"
	FieldGender               = "gender"
	FieldPhone                = "phone"
	FieldWhatsAppNumber       = "whatsapp_number"
	FieldWhatsAppFamilyMember = "whatsapp_family_member"
	FieldAddress              = "address"
)

var labels = map[string]string{
	FieldName:                 "الاسم",
	FieldFullName:             "الاسم الكامل",
	FieldNationalID:           "رقم الهوية",
	FieldGender:               "الجنس",
	FieldPhone:                "رقم الهاتف",
	FieldWhatsAppNumber:       "رقم الواتساب",
	FieldWhatsAppFamilyMember: "صاحب رقم الواتساب",
	FieldAddress:              "العنوان",
}

var readOnly = map[string]bool{
	FieldName:       true,
	FieldFullName:   true,
	FieldNationalID: true,
	FieldGender:     true,
}

var displayOrder = []string{
	FieldName, FieldFullName, FieldNationalID, FieldGender,
	FieldPhone, FieldWhatsAppNumber, FieldWhatsAppFamilyMember, FieldAddress,
}

// Label returns the display name of a field, or the field name itself when unknown.
func Label(field string) string {
	if l, ok := labels[field]; ok {
		return l
	}
	return field
}

func currentValue(b beneficiary.Beneficiary, field string) (string, bool) {
	switch field {
	case FieldName:
		return b.Name, true
	case FieldFullName:
		return b.FullName, true
	case FieldNationalID:
		return b.NationalID, true
	case FieldGender:
		return b.Gender, true
	case FieldPhone:
		return b.Phone, true
	case FieldWhatsAppNumber:
		return b.WhatsAppNumber, true
	case FieldWhatsAppFamilyMember:
		return b.WhatsAppFamilyMember, true
	case FieldAddress:
		return b.Address, true
	default:
		return "", false
	}
}

// Fields lists the profile fields of b in display order with their edit state.
func Fields(b beneficiary.Beneficiary) []Field {
	out := make([]Field, 0, len(displayOrder))
	for _, name := range displayOrder {
		value, _ := currentValue(b, name)
		locked := name == FieldPhone && b.PhoneIsLocked()
		out = append(out, Field{
			Name:     name,
			Label:    labels[name],
			Value:    value,
			Editable: !readOnly[name] && !locked,
			Locked:   locked,
		})
	}
	return out
}
