package report

import (
	"fmt"
	"strings"
)

type Format string

const (
	FormatText  Format = "text"
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
)

var formats = []Format{FormatText, FormatTable, FormatJSON, FormatJSONL}

func ParseFormat(value string) (Format, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return FormatText, nil
	}
	for _, f := range formats {
		if value == string(f) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported format %q (supported: text, table, json, jsonl)", value)
}

// Streaming formats print each file as soon as it is checked.
func (f Format) Streaming() bool {
	return f == FormatText || f == FormatJSONL
}
