package fileutil

import (
	"encoding/json"
	"io"
)

// WriteJSONL streams one compact JSON document per line.
func WriteJSONL[T any](w io.Writer, records []T) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	for _, record := range records {
		if err := encoder.Encode(record); err != nil {
			return err
		}
	}
	return nil
}
