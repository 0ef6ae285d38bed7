// Package sidecar validates and repairs the PhaseEncodingDirection field of a
// single JSON sidecar.
package sidecar

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pedcheck-dev/pedcheck/internal/fileutil"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
	"go.uber.org/zap"
)

const (
	FieldName      = "PhaseEncodingDirection"
	DefaultHintKey = "dir"
)

// Outcome is the terminal state of one checked file.
type Outcome string

const (
	OutcomeValid       Outcome = "valid"
	OutcomeInvalid     Outcome = "invalid"
	OutcomeFixed       Outcome = "fixed"
	OutcomeUninferable Outcome = "uninferable"
	OutcomeParseError  Outcome = "parse-error"
	OutcomeWriteError  Outcome = "write-error"
)

// OK reports whether the field is valid after the check, either as found or
// after a fix.
func (o Outcome) OK() bool {
	return o == OutcomeValid || o == OutcomeFixed
}

var (
	errNotObject    = errors.New("top-level value is not an object")
	errDuplicateKey = errors.New("duplicate " + FieldName + " key")
)

var prettyOptions = &pretty.Options{Width: 80, Indent: "  "}

type Options struct {
	Fix bool
	// DryRun infers a fix without writing it. Only meaningful with Fix.
	DryRun  bool
	HintKey string
	Logger  *zap.Logger
}

// Result describes what Check found and did for one file.
type Result struct {
	Path      string     `json:"path"`
	Outcome   Outcome    `json:"outcome"`
	Value     FieldValue `json:"value"`
	Hint      string     `json:"hint,omitempty"`
	Direction Direction  `json:"direction,omitempty"`
	Written   bool       `json:"written"`
	Error     string     `json:"error,omitempty"`
}

// Check validates one sidecar and, when opts.Fix is set, repairs it in place.
// Every failure is folded into the returned Result.
func Check(path string, opts Options) Result {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	hintKey := opts.HintKey
	if hintKey == "" {
		hintKey = DefaultHintKey
	}

	res := Result{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		res.Outcome = OutcomeParseError
		res.Error = err.Error()
		return res
	}
	if err := validateObject(data); err != nil {
		res.Outcome = OutcomeParseError
		res.Error = err.Error()
		return res
	}

	res.Value = fieldValueOf(gjson.GetBytes(data, FieldName))
	if dir, ok := res.Value.Direction(); ok {
		res.Outcome = OutcomeValid
		res.Direction = dir
		return res
	}

	if !opts.Fix {
		res.Outcome = OutcomeInvalid
		return res
	}

	res.Hint = HintToken(data, path, hintKey)
	dir, ok := Infer(res.Hint)
	if !ok {
		res.Outcome = OutcomeUninferable
		return res
	}
	res.Direction = dir

	if opts.DryRun {
		res.Outcome = OutcomeFixed
		return res
	}

	updated, err := SetDirection(data, dir)
	if err != nil {
		res.Outcome = OutcomeWriteError
		res.Error = err.Error()
		return res
	}
	written, err := fileutil.WriteIfChanged(path, updated)
	if err != nil {
		logger.Warn("failed to write fix", zap.String("path", path), zap.Error(err))
		res.Outcome = OutcomeWriteError
		res.Error = err.Error()
		return res
	}

	logger.Debug("fixed sidecar",
		zap.String("path", path),
		zap.String("hint", res.Hint),
		zap.String("direction", string(dir)),
	)
	res.Outcome = OutcomeFixed
	res.Written = written
	return res
}

// HintToken returns the value of hintKey when it is a non-empty string,
// otherwise the file's base name.
func HintToken(data []byte, path, hintKey string) string {
	hint := gjson.GetBytes(data, gjson.Escape(hintKey))
	if hint.Type == gjson.String && hint.Str != "" {
		return hint.Str
	}
	return filepath.Base(path)
}

// SetDirection returns data with the field set to dir and re-indented. Every
// other key keeps its value and position; a missing field is appended.
func SetDirection(data []byte, dir Direction) ([]byte, error) {
	updated, err := sjson.SetBytes(data, FieldName, string(dir))
	if err != nil {
		return nil, fmt.Errorf("failed to set %s: %w", FieldName, err)
	}
	return pretty.PrettyOptions(updated, prettyOptions), nil
}

func validateObject(data []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return errNotObject
		}
		return err
	}
	if probe == nil {
		return errNotObject
	}

	// A repeated field has no single value to check or replace.
	seen := 0
	gjson.ParseBytes(data).ForEach(func(key, _ gjson.Result) bool {
		if key.Str == FieldName {
			seen++
		}
		return seen < 2
	})
	if seen > 1 {
		return errDuplicateKey
	}
	return nil
}
