// Package pincode resolves 6-digit Indian postal codes to a locality, with a
// TTL cache in front of the public postal API.
package pincode

import "regexp"

var codePattern = regexp.MustCompile(`^\d{6}$`)

// Locality is the first post office the postal API lists for a code.
type Locality struct {
	Pincode  string `json:"pincode"`
	Name     string `json:"name"`
	District string `json:"district"`
	State    string `json:"state"`
	Region   string `json:"region,omitempty"`
	Country  string `json:"country,omitempty"`
}

// ValidCode reports whether code is exactly six ASCII digits.
func ValidCode(code string) bool {
	return codePattern.MatchString(code)
}
