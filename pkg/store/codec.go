package store

import (
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"
	"gorm.io/datatypes"
)

// jsonBytes normalises a JSON column value as returned by either backend.
func jsonBytes(value any) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	case datatypes.JSON:
		return []byte(v), nil
	case json.RawMessage:
		return []byte(v), nil
	default:
		return json.Marshal(v)
	}
}

func jsonObject(value any) (map[string]any, error) {
	switch v := value.(type) {
	case datatypes.JSONMap:
		return map[string]any(v), nil
	case map[string]any:
		return v, nil
	}
	raw, err := jsonBytes(value)
	if err != nil || len(raw) == 0 {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("store: decode json column: %w", err)
	}
	return out, nil
}

func decodeJSONColumn(value any, dest any) error {
	raw, err := jsonBytes(value)
	if err != nil || len(raw) == 0 || string(raw) == "null" {
		return err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("store: decode json column: %w", err)
	}
	return nil
}

func encodeJSONColumn(value any) (datatypes.JSON, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("store: encode json column: %w", err)
	}
	return datatypes.JSON(raw), nil
}

func structToMap(value any) (map[string]any, error) {
	out := map[string]any{}
	if err := mapstructure.Decode(value, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func weakDecode(input, output any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           output,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}
