package data

import (
	"fmt"

	"github.com/aretw0/fixtures/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// DecodeUsers converts user records into domain.User values.
// Unknown fields end up in User.Extra.
func DecodeUsers(records []map[string]any) ([]domain.User, error) {
	users := make([]domain.User, 0, len(records))
	if err := decode(records, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

// DecodeDevices converts device rows into domain.Device values.
// Cells are weakly typed, so a numeric platform_version such as 13.0 becomes "13".
func DecodeDevices(rows []map[string]any) ([]domain.Device, error) {
	devices := make([]domain.Device, 0, len(rows))
	if err := decode(rows, &devices); err != nil {
		return nil, fmt.Errorf("failed to decode devices: %w", err)
	}
	return devices, nil
}

func decode(input, output any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ZeroFields:       true,
		Result:           output,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}
