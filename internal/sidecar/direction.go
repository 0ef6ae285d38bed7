package sidecar

import "strings"

// Direction is a phase encoding axis and polarity code.
type Direction string

const (
	DirI      Direction = "i"
	DirIMinus Direction = "i-"
	DirJ      Direction = "j"
	DirJMinus Direction = "j-"
	DirK      Direction = "k"
	DirKMinus Direction = "k-"
)

// ValidDirections lists every accepted value, in axis order.
var ValidDirections = []Direction{DirI, DirIMinus, DirJ, DirJMinus, DirK, DirKMinus}

// ParseDirection accepts exactly one of the six codes. Case variants and
// synonyms are rejected.
func ParseDirection(s string) (Direction, bool) {
	for _, d := range ValidDirections {
		if s == string(d) {
			return d, true
		}
	}
	return "", false
}

type inferenceRule struct {
	code      string
	direction Direction
}

// Evaluated in order, first match wins. A hint containing both "PA" and "AP"
// resolves to j-.
var inferenceRules = []inferenceRule{
	{code: "PA", direction: DirJMinus},
	{code: "AP", direction: DirJ},
	{code: "RL", direction: DirI},
	{code: "LR", direction: DirIMinus},
	{code: "SI", direction: DirK},
	{code: "IS", direction: DirKMinus},
}

// Infer guesses a direction from an acquisition hint such as "PA" or a file
// name like "sub-01_dir-AP_dwi.json".
func Infer(hint string) (Direction, bool) {
	hint = strings.ToUpper(hint)
	for _, rule := range inferenceRules {
		if strings.Contains(hint, rule.code) {
			return rule.direction, true
		}
	}
	return "", false
}
