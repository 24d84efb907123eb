package util

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// FlexibleString decodes from either a JSON string or a JSON number
type FlexibleString string

func (f *FlexibleString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var value string
		if err := json.Unmarshal(data, &value); err != nil {
			return err
		}
		*f = FlexibleString(value)
		return nil
	}

	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*f = FlexibleString(number.String())

	return nil
}

// FlexibleInt decodes from either a JSON number or a JSON string holding an integer
type FlexibleInt int

func (f *FlexibleInt) UnmarshalJSON(data []byte) error {
	var value FlexibleString
	if err := value.UnmarshalJSON(data); err != nil {
		return err
	}

	if value == "" {
		*f = 0
		return nil
	}

	number, err := strconv.ParseFloat(string(value), 64)
	if err != nil {
		return fmt.Errorf("expected integer, got %s", data)
	}
	*f = FlexibleInt(number)

	return nil
}
