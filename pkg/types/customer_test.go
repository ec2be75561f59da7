package types

import "testing"

func TestCustomerInfoValidate(t *testing.T) {
	complete := CustomerInfo{
		FullName:    "Dana Reyes",
		PhoneNumber: "555-0147",
		Email:       "dana@example.com",
		FullAddress: "12 Harbor Way",
	}
	if missing := complete.Validate(); missing != "" {
		t.Fatalf("expected complete customer to validate, got missing %q", missing)
	}

	cases := []struct {
		name    string
		mutate  func(*CustomerInfo)
		missing string
	}{
		{"full name", func(c *CustomerInfo) { c.FullName = "" }, "full_name"},
		{"phone", func(c *CustomerInfo) { c.PhoneNumber = "  " }, "phone_number"},
		{"email", func(c *CustomerInfo) { c.Email = "" }, "email"},
		{"address", func(c *CustomerInfo) { c.FullAddress = "" }, "full_address"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			customer := complete
			tc.mutate(&customer)
			if got := customer.Validate(); got != tc.missing {
				t.Fatalf("expected missing %q, got %q", tc.missing, got)
			}
		})
	}
}
