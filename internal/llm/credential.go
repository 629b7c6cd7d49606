package llm

import "strings"

// Credential is one API key. It is never logged in full.
type Credential string

// Suffix returns the last four characters of the key for log correlation.
// Short keys are fully masked.
func (c Credential) Suffix() string {
	if len(c) <= 8 {
		return "****"
	}
	return string(c[len(c)-4:])
}

// String masks the key so it is safe to print with %v.
func (c Credential) String() string {
	return "..." + c.Suffix()
}

// ParseCredentials splits raw values on commas, newlines and whitespace and
// drops empty entries, keeping the configured order.
func ParseCredentials(values ...string) []Credential {
	var creds []Credential
	for _, v := range values {
		for _, field := range strings.FieldsFunc(v, func(r rune) bool {
			return r == ',' || r == '\n' || r == '\r' || r == ' ' || r == '\t'
		}) {
			creds = append(creds, Credential(field))
		}
	}
	return creds
}
