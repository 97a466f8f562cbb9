package customer

import "github.com/shopspring/decimal"

// Customer is a single customer entry, either created through the API or
// imported from a CSV object. ID stays zero until the record is persisted.
type Customer struct {
	ID                 int64               `json:"id"`
	FirstName          string              `json:"firstName"`
	LastName           string              `json:"lastName"`
	EmailID            string              `json:"emailId"`
	Address            string              `json:"address"`
	MaxCreditLimit     decimal.NullDecimal `json:"maxCreditLimit"`
	CurrentCreditLimit decimal.NullDecimal `json:"currentCreditLimit"`
	Status             *bool               `json:"status"`
}

// Activate marks the customer as active. Imported records never call this,
// so their status stays unset.
func (c *Customer) Activate() {
	active := true
	c.Status = &active
}

func (c *Customer) IsActive() bool {
	return c.Status != nil && *c.Status
}
