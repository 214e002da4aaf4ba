// Package validation holds the input format checks shared by the portal and staff screens.
package validation

const (
	identityNumberLength = 9
	pinLength            = 6
	codeLength           = 6
)

// IsValidIdentityNumber reports whether s is a national identity number: exactly nine decimal digits.
// No checksum is applied.
func IsValidIdentityNumber(s string) bool {
	return digitsOfLength(s, identityNumberLength)
}

// IsValidPIN reports whether s is a portal PIN: exactly six decimal digits.
func IsValidPIN(s string) bool {
	return digitsOfLength(s, pinLength)
}

// IsValidCode reports whether s is a well-formed one-time code.
func IsValidCode(s string) bool {
	return digitsOfLength(s, codeLength)
}

func digitsOfLength(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
