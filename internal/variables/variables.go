// Package variables flattens the entities around a contract into the
// placeholder map consumed by the renderer.
//
// Each entity has a curated registry of formatted keys. A reflection pass then
// exposes the remaining primitive fields as PREFIX_FIELD_NAME without
// overwriting curated values.
package variables

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/fastygo/contracts/domain"
	"github.com/fastygo/contracts/internal/placeholder"
	"github.com/fastygo/contracts/internal/schedule"
	"github.com/fastygo/contracts/pkg/format"
)

// Key prefixes.
const (
	CustomerPrefix     = "CUSTOMER"
	PersonPrefix       = "PERSON"
	ProjectPrefix      = "PROJECT"
	ScopePrefix        = "SCOPE"
	ContractPrefix     = "CONTRACT"
	CollaboratorPrefix = "COLLABORATOR"
)

// Payment term and date keys. They are always present in the output.
const (
	KeyCollaboratorValue    = "COLLABORATOR_VALUE"
	KeyCollaboratorValueExt = "COLLABORATOR_VALUE_EXT"
	KeyContractValidity     = "CONTRACT_VALIDITY"
	KeyContractValidityExt  = "CONTRACT_VALIDITY_EXT"
	KeyFirstPaymentDay      = "FIRST_PAYMENT_DAY"
	KeyFirstPaymentDayExt   = "FIRST_PAYMENT_DAY_EXT"
	KeyDateExt              = "DATE_EXT"
)

// Input gathers everything the builder can read. Every field is optional.
type Input struct {
	Customer     *domain.Customer
	Project      *domain.Project
	Scope        *domain.Scope
	Collaborator *domain.User
	Contract     *domain.Contract

	MonthlyValue    *float64
	MonthsCount     *int
	FirstPaymentDay *string

	// Today anchors DATE_EXT and bare first-payment days. Zero means now.
	Today time.Time
}

// Build returns the flat key/value map for in.
func Build(in Input) placeholder.Variables {
	today := in.Today
	if today.IsZero() {
		today = time.Now()
	}

	vars := make(placeholder.Variables, 128)

	if c := in.Customer; c != nil {
		curated(vars, CustomerPrefix, c, customerFields)
		reflected(vars, CustomerPrefix, c)
		if c.Person != nil {
			reflected(vars, CustomerPrefix, c.Person)
		}
		if c.Company != nil {
			reflected(vars, CustomerPrefix, c.Company)
		}
	}

	if p := resolvePerson(in.Customer); p != nil {
		curated(vars, PersonPrefix, p, personFields)
		reflected(vars, PersonPrefix, p.person)
	}

	if p := in.Project; p != nil {
		curated(vars, ProjectPrefix, p, projectFields)
		reflected(vars, ProjectPrefix, p)
	}

	if s := in.Scope; s != nil {
		curated(vars, ScopePrefix, s, scopeFields)
		reflected(vars, ScopePrefix, s)
	}

	if u := in.Collaborator; u != nil {
		curated(vars, CollaboratorPrefix, u, collaboratorFields)
		reflected(vars, CollaboratorPrefix, u)
	}

	if c := in.Contract; c != nil {
		curated(vars, ContractPrefix, c, contractFields)
		reflected(vars, ContractPrefix, c)
	}

	paymentTerms(vars, in, today)
	vars[KeyDateExt] = format.DateToWords(today)

	return vars
}

// HasPerson reports whether a person-like entity can be resolved from in.
// Without one, PERSON_ keys are optional.
func HasPerson(in Input) bool {
	return resolvePerson(in.Customer) != nil
}

// IsPersonKey reports whether key belongs to the person namespace.
func IsPersonKey(key string) bool {
	return strings.HasPrefix(key, PersonPrefix+"_")
}

func paymentTerms(vars placeholder.Variables, in Input, today time.Time) {
	vars[KeyCollaboratorValue] = ""
	vars[KeyCollaboratorValueExt] = ""
	if in.MonthlyValue != nil {
		vars[KeyCollaboratorValue] = format.FormatCurrency(*in.MonthlyValue)
		vars[KeyCollaboratorValueExt] = format.CurrencyToWords(*in.MonthlyValue)
	}

	vars[KeyContractValidity] = ""
	vars[KeyContractValidityExt] = ""
	if in.MonthsCount != nil {
		vars[KeyContractValidity] = format.Months(*in.MonthsCount)
		vars[KeyContractValidityExt] = format.MonthsToWords(*in.MonthsCount)
	}

	vars[KeyFirstPaymentDay] = ""
	vars[KeyFirstPaymentDayExt] = ""
	if in.FirstPaymentDay != nil {
		raw := strings.TrimSpace(*in.FirstPaymentDay)
		if first, ok := schedule.ResolveFirstPayment(raw, today); ok {
			vars[KeyFirstPaymentDay] = format.ShortDate(first)
			vars[KeyFirstPaymentDayExt] = format.DateToWords(first)
		} else {
			vars[KeyFirstPaymentDay] = raw
		}
	}
}

// personView is the person exposed under PERSON_: the customer itself for
// individuals, or the company's representative.
type personView struct {
	person    *domain.Person
	role      string
	addresses []domain.Address
}

func resolvePerson(c *domain.Customer) *personView {
	if c == nil {
		return nil
	}
	if c.Person != nil {
		return &personView{person: c.Person, addresses: c.Addresses}
	}
	if lp := c.Company.Representative(); lp != nil {
		addresses := lp.Addresses
		if len(addresses) == 0 {
			addresses = c.Addresses
		}
		return &personView{person: lp.Person, role: lp.Role, addresses: addresses}
	}
	return nil
}

func customerRawName(c *domain.Customer) string {
	switch {
	case c.Person != nil:
		return c.Person.Name
	case c.Company != nil:
		return c.Company.LegalName
	}
	return ""
}

func customerTaxID(c *domain.Customer) string {
	switch {
	case c.Person != nil:
		return c.Person.TaxID
	case c.Company != nil:
		return c.Company.TaxID
	}
	return ""
}

func customerDisplayName(c *domain.Customer) string {
	if c.Person != nil {
		return format.FormatPersonName(c.Person.Name)
	}
	return strings.TrimSpace(customerRawName(c))
}

var customerFields = []field[*domain.Customer]{
	{"NAME", customerDisplayName},
	{"NAME_UPPERCASE", func(c *domain.Customer) string { return format.Upper(customerRawName(c)) }},
	{"TAX_ID", func(c *domain.Customer) string { return format.FormatTaxID(customerTaxID(c)) }},
	{"DOCUMENT_TYPE", func(c *domain.Customer) string { return documentType(customerTaxID(c)) }},
	{"TRADE_NAME", func(c *domain.Customer) string {
		if c.Company == nil {
			return ""
		}
		return c.Company.TradeName
	}},
	{"STATE_REGISTRATION", func(c *domain.Customer) string {
		if c.Company == nil {
			return ""
		}
		return c.Company.StateRegistration
	}},
	{"EMAIL", func(c *domain.Customer) string {
		if c.Email == "" && c.Person != nil {
			return c.Person.Email
		}
		return c.Email
	}},
	{"PHONE", func(c *domain.Customer) string {
		if c.Phone == "" && c.Person != nil {
			return c.Person.Phone
		}
		return c.Phone
	}},
	{"ADDRESS", func(c *domain.Customer) string { return ComposeAddress(domain.PrimaryAddress(c.Addresses)) }},
	{"ADDRESS_CITY", func(c *domain.Customer) string { return addressCity(domain.PrimaryAddress(c.Addresses)) }},
	{"ADDRESS_STATE", func(c *domain.Customer) string { return addressState(domain.PrimaryAddress(c.Addresses)) }},
	{"POSTAL_CODE", func(c *domain.Customer) string { return addressPostalCode(domain.PrimaryAddress(c.Addresses)) }},
}

var personFields = []field[*personView]{
	{"NAME", func(p *personView) string { return format.FormatPersonName(p.person.Name) }},
	{"NAME_UPPERCASE", func(p *personView) string { return format.Upper(p.person.Name) }},
	{"TAX_ID", func(p *personView) string { return format.FormatTaxID(p.person.TaxID) }},
	{"ID_NUMBER", func(p *personView) string { return p.person.IDNumber }},
	{"NATIONALITY", func(p *personView) string { return p.person.Nationality }},
	{"MARITAL_STATUS", func(p *personView) string { return p.person.MaritalStatus }},
	{"PROFESSION", func(p *personView) string { return p.person.Profession }},
	{"BIRTH_DATE", func(p *personView) string {
		if p.person.BirthDate == nil {
			return ""
		}
		return format.ShortDate(*p.person.BirthDate)
	}},
	{"EMAIL", func(p *personView) string { return p.person.Email }},
	{"PHONE", func(p *personView) string { return p.person.Phone }},
	{"ROLE", func(p *personView) string { return p.role }},
	{"ADDRESS", func(p *personView) string { return ComposeAddress(domain.PrimaryAddress(p.addresses)) }},
	{"ADDRESS_CITY", func(p *personView) string { return addressCity(domain.PrimaryAddress(p.addresses)) }},
	{"ADDRESS_STATE", func(p *personView) string { return addressState(domain.PrimaryAddress(p.addresses)) }},
	{"POSTAL_CODE", func(p *personView) string { return addressPostalCode(domain.PrimaryAddress(p.addresses)) }},
}

var projectFields = []field[*domain.Project]{
	{"NAME", func(p *domain.Project) string { return strings.TrimSpace(p.Name) }},
	{"NAME_UPPERCASE", func(p *domain.Project) string { return format.Upper(p.Name) }},
	{"DESCRIPTION", func(p *domain.Project) string { return p.Description }},
	{"STATUS", func(p *domain.Project) string { return p.Status }},
	{"STAGE", func(p *domain.Project) string { return p.Stage }},
	{"START_DATE", func(p *domain.Project) string {
		if p.StartDate == nil {
			return ""
		}
		return format.ShortDate(*p.StartDate)
	}},
	{"START_DATE_EXT", func(p *domain.Project) string {
		if p.StartDate == nil {
			return ""
		}
		return format.DateToWords(*p.StartDate)
	}},
}

var scopeFields = []field[*domain.Scope]{
	{"TITLE", func(s *domain.Scope) string { return s.Title }},
	{"VERSION", func(s *domain.Scope) string {
		if s.Version <= 0 {
			return ""
		}
		return strconv.Itoa(s.Version)
	}},
	{"HTML", func(s *domain.Scope) string { return s.HTML }},
}

var collaboratorFields = []field[*domain.User]{
	{"NAME", func(u *domain.User) string { return format.FormatPersonName(u.Name) }},
	{"NAME_UPPERCASE", func(u *domain.User) string { return format.Upper(u.Name) }},
	{"TAX_ID", func(u *domain.User) string { return format.FormatTaxID(u.TaxID) }},
	{"DOCUMENT_TYPE", func(u *domain.User) string { return documentType(u.TaxID) }},
	{"EMAIL", func(u *domain.User) string { return u.Email }},
	{"PHONE", func(u *domain.User) string { return u.Phone }},
	{"ADDRESS", func(u *domain.User) string { return ComposeAddress(u.Address) }},
	{"ADDRESS_CITY", func(u *domain.User) string { return addressCity(u.Address) }},
	{"ADDRESS_STATE", func(u *domain.User) string { return addressState(u.Address) }},
	{"POSTAL_CODE", func(u *domain.User) string { return addressPostalCode(u.Address) }},
}

var contractFields = []field[*domain.Contract]{
	{"ID", func(c *domain.Contract) string { return c.ID }},
	{"TITLE", func(c *domain.Contract) string { return c.Title }},
	{"TITLE_UPPERCASE", func(c *domain.Contract) string { return format.Upper(c.Title) }},
	{"STATUS", func(c *domain.Contract) string { return string(c.Status) }},
}

// ComposeAddress joins the present components of a with ", ". The postal
// code is formatted.
func ComposeAddress(a *domain.Address) string {
	if a == nil {
		return ""
	}
	parts := make([]string, 0, 7)
	for _, part := range []string{
		a.Street,
		a.Number,
		a.Complement,
		a.District,
		a.City,
		a.State,
		format.FormatPostalCode(a.PostalCode),
	} {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ", ")
}

func addressCity(a *domain.Address) string {
	if a == nil {
		return ""
	}
	return a.City
}

func addressState(a *domain.Address) string {
	if a == nil {
		return ""
	}
	return a.State
}

func addressPostalCode(a *domain.Address) string {
	if a == nil {
		return ""
	}
	return format.FormatPostalCode(a.PostalCode)
}

func documentType(taxID string) string {
	n := 0
	for _, r := range taxID {
		if unicode.IsDigit(r) {
			n++
		}
	}
	switch n {
	case 11:
		return "CPF"
	case 14:
		return "CNPJ"
	}
	return ""
}
