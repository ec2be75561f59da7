package types

import "strings"

// CustomerInfo captures the shipping details a shopper supplies at checkout.
type CustomerInfo struct {
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email"`
	FullAddress string `json:"full_address"`
}

// Validate reports the first missing required field, or "" when complete.
func (c CustomerInfo) Validate() string {
	if strings.TrimSpace(c.FullName) == "" {
		return "full_name"
	}
	if strings.TrimSpace(c.PhoneNumber) == "" {
		return "phone_number"
	}
	if strings.TrimSpace(c.Email) == "" {
		return "email"
	}
	if strings.TrimSpace(c.FullAddress) == "" {
		return "full_address"
	}
	return ""
}
