package navigator

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// decodeLoose maps a generic JSON value onto target. Numbers and strings are
// converted where the server is inconsistent about types.
func decodeLoose(input, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("decoding payload: %w", err)
	}
	return nil
}
