package model

import "strings"

// FieldType enumerates the supported custom field kinds.
type FieldType string

const (
	FieldTypeText       FieldType = "text"
	FieldTypeName       FieldType = "name"
	FieldTypeEmail      FieldType = "email"
	FieldTypePhone      FieldType = "phone"
	FieldTypeNumber     FieldType = "number"
	FieldTypeDate       FieldType = "date"
	FieldTypeTime       FieldType = "time"
	FieldTypeDatetime   FieldType = "datetime"
	FieldTypeMoney      FieldType = "money"
	FieldTypeSlider     FieldType = "slider"
	FieldTypeAddress    FieldType = "address"
	FieldTypeDocument   FieldType = "document"
	FieldTypeURL        FieldType = "url"
	FieldTypeConnection FieldType = "connection"
	FieldTypeTextarea   FieldType = "textarea"
	FieldTypeSelect     FieldType = "select"
	FieldTypeCheckbox   FieldType = "checkbox"
)

var fieldTypes = []FieldType{
	FieldTypeText,
	FieldTypeName,
	FieldTypeEmail,
	FieldTypePhone,
	FieldTypeNumber,
	FieldTypeDate,
	FieldTypeTime,
	FieldTypeDatetime,
	FieldTypeMoney,
	FieldTypeSlider,
	FieldTypeAddress,
	FieldTypeDocument,
	FieldTypeURL,
	FieldTypeConnection,
	FieldTypeTextarea,
	FieldTypeSelect,
	FieldTypeCheckbox,
}

// FieldTypes returns every supported field type in declaration order.
func FieldTypes() []FieldType {
	return append([]FieldType(nil), fieldTypes...)
}

// Valid reports whether t belongs to the closed enumeration.
func (t FieldType) Valid() bool {
	for _, candidate := range fieldTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseFieldType normalises raw into a FieldType. Unknown values resolve to
// FieldTypeText with ok=false so callers can render a plain input instead of
// failing.
func ParseFieldType(raw string) (FieldType, bool) {
	candidate := FieldType(strings.ToLower(strings.TrimSpace(raw)))
	if candidate.Valid() {
		return candidate, true
	}
	return FieldTypeText, false
}

// FormContext names the CRM area a set of fields and a form belong to.
type FormContext string

const (
	ContextLeads        FormContext = "leads"
	ContextAppointments FormContext = "appointments"
	ContextResults      FormContext = "results"
	ContextSales        FormContext = "sales"
)

// FormContexts lists the supported contexts.
func FormContexts() []FormContext {
	return []FormContext{ContextLeads, ContextAppointments, ContextResults, ContextSales}
}

// ParseFormContext validates a context name.
func ParseFormContext(raw string) (FormContext, bool) {
	candidate := FormContext(strings.ToLower(strings.TrimSpace(raw)))
	for _, ctx := range FormContexts() {
		if ctx == candidate {
			return candidate, true
		}
	}
	return "", false
}

// ConnectionList names an external entity collection a connection field (or a
// connection-backed select) draws its options from.
type ConnectionList string

const (
	ConnectionLeads        ConnectionList = "leads"
	ConnectionAppointments ConnectionList = "appointments"
	ConnectionResults      ConnectionList = "results"
	ConnectionClients      ConnectionList = "clients"
	ConnectionCompanies    ConnectionList = "companies"
	ConnectionSales        ConnectionList = "sales"
	ConnectionOrigins      ConnectionList = "origins"
	ConnectionLossReasons  ConnectionList = "loss-reasons"
)

// ConnectionLists returns the supported connection targets.
func ConnectionLists() []ConnectionList {
	return []ConnectionList{
		ConnectionLeads,
		ConnectionAppointments,
		ConnectionResults,
		ConnectionClients,
		ConnectionCompanies,
		ConnectionSales,
		ConnectionOrigins,
		ConnectionLossReasons,
	}
}

// ParseConnectionList validates a connection target. Underscored spellings
// ("loss_reasons") are accepted.
func ParseConnectionList(raw string) (ConnectionList, bool) {
	candidate := ConnectionList(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "_", "-"))
	for _, list := range ConnectionLists() {
		if list == candidate {
			return candidate, true
		}
	}
	return "", false
}

// DocumentKind selects the Brazilian tax-id validation applied to document
// fields.
type DocumentKind string

const (
	DocumentNone DocumentKind = ""
	DocumentCPF  DocumentKind = "cpf"
	DocumentCNPJ DocumentKind = "cnpj"
)

// CurrencyVariable lets the end user pick the currency of a money field.
const CurrencyVariable = "VARIABLES"
