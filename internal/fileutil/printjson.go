package fileutil

import (
	"encoding/json"
	"io"
)

// PrintJSON writes value as indented JSON without HTML escaping.
func PrintJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
