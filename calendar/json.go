package calendar

import (
	"encoding/json"
	"fmt"
)

// ParseDefinition decodes a JSON calendar definition, applies the schema's
// field defaults, and validates the result.
func ParseDefinition(data []byte) (*Definition, error) {
	var def Definition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("decode calendar definition: %w", err)
	}
	def.normalize()
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// MarshalText implements encoding.TextMarshaler.
func (r LeapRule) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *LeapRule) UnmarshalText(text []byte) error {
	switch string(text) {
	case "", "none":
		*r = LeapNone
	case "gregorian":
		*r = LeapGregorian
	case "custom":
		*r = LeapCustom
	default:
		return fmt.Errorf("unknown leap rule %q", text)
	}
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (i Interpretation) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *Interpretation) UnmarshalText(text []byte) error {
	switch string(text) {
	case "", "epoch-based":
		*i = InterpretEpoch
	case "real-time-based":
		*i = InterpretRealTime
	default:
		return fmt.Errorf("unknown world time interpretation %q", text)
	}
	return nil
}

// UnmarshalJSON applies the schema defaults for omitted fields: Days 1,
// CountsForWeekdays true.
func (r *IntercalaryRule) UnmarshalJSON(data []byte) error {
	type plain IntercalaryRule
	aux := plain{Days: 1, CountsForWeekdays: true}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = IntercalaryRule(aux)
	return nil
}

// UnmarshalJSON applies the schema default of one extra day per leap year.
func (c *LeapConfig) UnmarshalJSON(data []byte) error {
	type plain LeapConfig
	aux := plain{ExtraDays: 1}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*c = LeapConfig(aux)
	return nil
}
