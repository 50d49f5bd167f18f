package fieldrules

// AddressPart names one input of the address composite.
type AddressPart string

const (
	AddressCEP          AddressPart = "cep"
	AddressState        AddressPart = "state"
	AddressCity         AddressPart = "city"
	AddressNeighborhood AddressPart = "neighborhood"
	AddressStreet       AddressPart = "street"
	AddressNumber       AddressPart = "number"
	AddressComplement   AddressPart = "complement"
)

// AddressPartSpec pairs a part with its display label.
type AddressPartSpec struct {
	Part  AddressPart `json:"part"`
	Label string      `json:"label"`
	// Lookup marks parts filled from a CEP lookup.
	Lookup bool `json:"lookup"`
}

var addressParts = []AddressPartSpec{
	{Part: AddressCEP, Label: "CEP"},
	{Part: AddressState, Label: "Estado", Lookup: true},
	{Part: AddressCity, Label: "Cidade", Lookup: true},
	{Part: AddressNeighborhood, Label: "Bairro", Lookup: true},
	{Part: AddressStreet, Label: "Rua", Lookup: true},
	{Part: AddressNumber, Label: "Número"},
	{Part: AddressComplement, Label: "Complemento"},
}

// AddressParts lists the seven address inputs in display order.
func AddressParts() []AddressPartSpec {
	return append([]AddressPartSpec(nil), addressParts...)
}

// ValidAddressPart reports whether part belongs to the composite.
func ValidAddressPart(part AddressPart) bool {
	for _, spec := range addressParts {
		if spec.Part == part {
			return true
		}
	}
	return false
}
