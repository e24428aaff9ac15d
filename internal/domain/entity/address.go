// Package entity contains the core business objects of the project.
package entity

// Address is a shipping address owned by exactly one user.
// At most one address per user has IsDefault set.
type Address struct {
	ID         int64  `json:"id"`
	UserID     int64  `json:"userId"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	IsDefault  bool   `json:"isDefault"`
}

// AddressPatch holds the optional fields of an address update.
type AddressPatch struct {
	Street     *string
	City       *string
	State      *string
	PostalCode *string
	Country    *string
	IsDefault  *bool
}

// Apply copies every non-nil field of the patch onto the address.
func (p AddressPatch) Apply(a *Address) {
	if p.Street != nil {
		a.Street = *p.Street
	}
	if p.City != nil {
		a.City = *p.City
	}
	if p.State != nil {
		a.State = *p.State
	}
	if p.PostalCode != nil {
		a.PostalCode = *p.PostalCode
	}
	if p.Country != nil {
		a.Country = *p.Country
	}
	if p.IsDefault != nil {
		a.IsDefault = *p.IsDefault
	}
}
