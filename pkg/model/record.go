package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Record is the flat field shape exchanged with the persistence boundary and
// the admin API. Columns shared by every type are explicit; type-specific keys
// (max_length, options, checkbox_*, money_*, slider_*, document_*,
// connection_*) travel in Attributes.
type Record struct {
	ID              string         `json:"id" mapstructure:"id"`
	CompanyID       string         `json:"company_id" mapstructure:"company_id"`
	Context         FormContext    `json:"context" mapstructure:"context"`
	Name            string         `json:"name" mapstructure:"name"`
	Type            string         `json:"type" mapstructure:"type"`
	Required        bool           `json:"required" mapstructure:"required"`
	Order           int            `json:"order" mapstructure:"order"`
	Placeholder     bool           `json:"placeholder" mapstructure:"placeholder"`
	PlaceholderText string         `json:"placeholder_text" mapstructure:"placeholder_text"`
	Sender          string         `json:"sender" mapstructure:"sender"`
	SenderManual    bool           `json:"sender_manual" mapstructure:"sender_manual"`
	Attributes      map[string]any `json:"-" mapstructure:",remain"`
}

type documentFlags struct {
	CPF  bool `mapstructure:"document_cpf"`
	CNPJ bool `mapstructure:"document_cnpj"`
}

// DecodeRecord builds a Record from a flat map such as a decoded JSON request
// body. Loosely typed values ("true", "12") are accepted.
func DecodeRecord(raw map[string]any) (Record, error) {
	var record Record
	if err := weakDecode(raw, &record); err != nil {
		return Record{}, fmt.Errorf("model: decode record: %w", err)
	}
	return record, nil
}

// Map flattens the record back into a single map, attributes included.
func (r Record) Map() map[string]any {
	out := make(map[string]any, len(r.Attributes)+11)
	for key, value := range r.Attributes {
		out[key] = value
	}
	out["id"] = r.ID
	out["company_id"] = r.CompanyID
	out["context"] = string(r.Context)
	out["name"] = r.Name
	out["type"] = r.Type
	out["required"] = r.Required
	out["order"] = r.Order
	out["placeholder"] = r.Placeholder
	out["placeholder_text"] = r.PlaceholderText
	out["sender"] = r.Sender
	out["sender_manual"] = r.SenderManual
	return out
}

// MarshalJSON emits the flat representation.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Map())
}

// UnmarshalJSON accepts the flat representation.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	decoded, err := DecodeRecord(raw)
	if err != nil {
		return err
	}
	*r = decoded
	return nil
}

// FieldFromRecord converts a stored record into the typed Field. Attributes
// that do not belong to the record's type are discarded; unknown types become
// text fields. When both document flags are set CPF wins.
func FieldFromRecord(r Record) Field {
	fieldType, _ := ParseFieldType(r.Type)
	field := Field{
		ID:       r.ID,
		Name:     r.Name,
		Type:     fieldType,
		Required: r.Required,
		Order:    r.Order,
		Placeholder: Placeholder{
			UseName: r.Placeholder,
			Text:    strings.TrimSpace(r.PlaceholderText),
		},
		Sender:       strings.TrimSpace(r.Sender),
		SenderManual: r.SenderManual,
	}
	if !field.SenderManual || field.Sender == "" {
		field.Sender = DeriveSender(r.Name)
	}
	field.Config = decodeConfig(fieldType, r.Attributes)
	return field
}

func decodeConfig(fieldType FieldType, attrs map[string]any) FieldConfig {
	switch fieldType {
	case FieldTypeText, FieldTypeTextarea:
		var cfg TextConfig
		_ = weakDecode(attrs, &cfg)
		if cfg.MaxLength < 0 {
			cfg.MaxLength = 0
		}
		return cfg
	case FieldTypeSelect:
		var cfg SelectConfig
		_ = weakDecode(attrs, &cfg)
		if list, ok := ParseConnectionList(string(cfg.SelectionList)); ok {
			cfg.SelectionList = list
		} else {
			cfg.SelectionList = ""
			cfg.SelectionConnection = false
		}
		return cfg
	case FieldTypeCheckbox:
		var cfg CheckboxConfig
		_ = weakDecode(attrs, &cfg)
		if cfg.Limit < 0 {
			cfg.Limit = 0
		}
		cfg.Columns = cfg.ColumnCount()
		return cfg
	case FieldTypeMoney:
		var cfg MoneyConfig
		_ = weakDecode(attrs, &cfg)
		cfg.Currency = strings.ToUpper(strings.TrimSpace(cfg.Currency))
		return cfg
	case FieldTypeSlider:
		var cfg SliderConfig
		_ = weakDecode(attrs, &cfg)
		return cfg
	case FieldTypeDocument:
		var flags documentFlags
		_ = weakDecode(attrs, &flags)
		switch {
		case flags.CPF:
			return DocumentConfig{Kind: DocumentCPF}
		case flags.CNPJ:
			return DocumentConfig{Kind: DocumentCNPJ}
		default:
			return DocumentConfig{Kind: DocumentNone}
		}
	case FieldTypeConnection:
		var cfg ConnectionConfig
		_ = weakDecode(attrs, &cfg)
		if list, ok := ParseConnectionList(string(cfg.List)); ok {
			cfg.List = list
		} else {
			cfg.List = ""
		}
		return cfg
	default:
		return nil
	}
}

// RecordFromField flattens a Field for storage. Only the attributes of the
// field's own variant are written.
func RecordFromField(companyID string, formContext FormContext, f Field) Record {
	record := Record{
		ID:              f.ID,
		CompanyID:       companyID,
		Context:         formContext,
		Name:            f.Name,
		Type:            string(f.Type),
		Required:        f.Required,
		Order:           f.Order,
		Placeholder:     f.Placeholder.UseName,
		PlaceholderText: f.Placeholder.Text,
		Sender:          f.Sender,
		SenderManual:    f.SenderManual,
	}
	if !record.SenderManual || record.Sender == "" {
		record.Sender = DeriveSender(f.Name)
	}
	record.Attributes = encodeConfig(f)
	return record
}

func encodeConfig(f Field) map[string]any {
	var source any
	switch f.Type {
	case FieldTypeText, FieldTypeTextarea:
		source = f.Text()
	case FieldTypeSelect:
		source = f.Select()
	case FieldTypeCheckbox:
		source = f.Checkbox()
	case FieldTypeMoney:
		source = f.Money()
	case FieldTypeSlider:
		source = f.Slider()
	case FieldTypeConnection:
		source = f.Connection()
	case FieldTypeDocument:
		kind := f.Document().Kind
		return map[string]any{
			"document_cpf":  kind == DocumentCPF,
			"document_cnpj": kind == DocumentCNPJ,
		}
	default:
		return nil
	}
	out := make(map[string]any)
	if err := mapstructure.Decode(source, &out); err != nil {
		return nil
	}
	for key, value := range out {
		if list, ok := value.(ConnectionList); ok {
			out[key] = string(list)
		}
	}
	return out
}

func weakDecode(input, output any) error {
	if input == nil {
		return nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           output,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}
