package domain

import "time"

// CustomerKind distinguishes individual and company customers.
type CustomerKind string

const (
	CustomerPerson  CustomerKind = "person"
	CustomerCompany CustomerKind = "company"
)

const (
	CustomerActive   = "active"
	CustomerInactive = "inactive"
)

// Customer is the contracting party registry record. Exactly one of Person or
// Company is set according to Kind.
type Customer struct {
	ID        string       `json:"id"`
	Kind      CustomerKind `json:"kind"`
	Status    string       `json:"status"`
	Email     string       `json:"email,omitempty"`
	Phone     string       `json:"phone,omitempty"`
	Person    *Person      `json:"person,omitempty"`
	Company   *Company     `json:"company,omitempty"`
	Addresses []Address    `json:"addresses,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func (c *Customer) IsActive() bool {
	return c != nil && c.Status == CustomerActive
}

// Person holds individual identity data.
type Person struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	TaxID         string     `json:"tax_id,omitempty"`
	IDNumber      string     `json:"id_number,omitempty"`
	Nationality   string     `json:"nationality,omitempty"`
	MaritalStatus string     `json:"marital_status,omitempty"`
	Profession    string     `json:"profession,omitempty"`
	BirthDate     *time.Time `json:"birth_date,omitempty"`
	Email         string     `json:"email,omitempty"`
	Phone         string     `json:"phone,omitempty"`
}

// Company holds legal entity data and its linked people.
type Company struct {
	ID                string         `json:"id"`
	LegalName         string         `json:"legal_name"`
	TradeName         string         `json:"trade_name,omitempty"`
	TaxID             string         `json:"tax_id,omitempty"`
	StateRegistration string         `json:"state_registration,omitempty"`
	LinkedPeople      []LinkedPerson `json:"linked_people,omitempty"`
}

// LinkedPerson ties a person customer record to a company.
type LinkedPerson struct {
	CustomerID            string    `json:"customer_id"`
	Role                  string    `json:"role,omitempty"`
	IsLegalRepresentative bool      `json:"is_legal_representative"`
	IsPrimary             bool      `json:"is_primary"`
	Person                *Person   `json:"person,omitempty"`
	Addresses             []Address `json:"addresses,omitempty"`
}

// Representative picks the legal representative, else the primary contact,
// else the first linked person with data.
func (c *Company) Representative() *LinkedPerson {
	if c == nil {
		return nil
	}
	var primary, first *LinkedPerson
	for i := range c.LinkedPeople {
		lp := &c.LinkedPeople[i]
		if lp.Person == nil {
			continue
		}
		if lp.IsLegalRepresentative {
			return lp
		}
		if lp.IsPrimary && primary == nil {
			primary = lp
		}
		if first == nil {
			first = lp
		}
	}
	if primary != nil {
		return primary
	}
	return first
}

// Address is a postal address attached to a customer.
type Address struct {
	Street     string `json:"street,omitempty"`
	Number     string `json:"number,omitempty"`
	Complement string `json:"complement,omitempty"`
	District   string `json:"district,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	IsPrimary  bool   `json:"is_primary"`
}

// PrimaryAddress returns the address flagged primary, else the first one.
func PrimaryAddress(addresses []Address) *Address {
	if len(addresses) == 0 {
		return nil
	}
	for i := range addresses {
		if addresses[i].IsPrimary {
			return &addresses[i]
		}
	}
	return &addresses[0]
}
