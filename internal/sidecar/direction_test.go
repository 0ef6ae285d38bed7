package sidecar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDirection(t *testing.T) {
	for _, d := range ValidDirections {
		got, ok := ParseDirection(string(d))
		assert.True(t, ok, "expected %q to be accepted", d)
		assert.Equal(t, d, got)
	}

	for _, bad := range []string{"", "x", "J", "j+", "I-", "-j", "AP", " j", "j "} {
		_, ok := ParseDirection(bad)
		assert.False(t, ok, "expected %q to be rejected", bad)
	}
}

func TestInfer(t *testing.T) {
	tests := []struct {
		name string
		hint string
		want Direction
		ok   bool
	}{
		{name: "PA", hint: "PA", want: DirJMinus, ok: true},
		{name: "AP", hint: "AP", want: DirJ, ok: true},
		{name: "RL", hint: "RL", want: DirI, ok: true},
		{name: "LR", hint: "LR", want: DirIMinus, ok: true},
		{name: "SI", hint: "SI", want: DirK, ok: true},
		{name: "IS", hint: "IS", want: DirKMinus, ok: true},
		{name: "lowercase", hint: "pa", want: DirJMinus, ok: true},
		{name: "PA wins over AP", hint: "APA", want: DirJMinus, ok: true},
		{name: "PA wins when listed second", hint: "AP_then_PA", want: DirJMinus, ok: true},
		{name: "AP wins over RL", hint: "RL-AP", want: DirJ, ok: true},
		{name: "file name", hint: "sub-02_acq-AP_dwi.json", want: DirJ, ok: true},
		{name: "dir entity", hint: "sub-01_dir-PA_dwi.json", want: DirJMinus, ok: true},
		{name: "no code", hint: "sub-03_dwi.json", ok: false},
		{name: "empty", hint: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Infer(tt.hint)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFieldValueDirection(t *testing.T) {
	_, ok := FieldValue{Kind: ValueAbsent}.Direction()
	assert.False(t, ok)

	_, ok = FieldValue{Kind: ValueOther, Raw: `"j"`}.Direction()
	assert.False(t, ok, "non-string values are never coerced")

	d, ok := FieldValue{Kind: ValueString, Raw: "k-"}.Direction()
	assert.True(t, ok)
	assert.Equal(t, DirKMinus, d)

	assert.Equal(t, "missing", FieldValue{Kind: ValueAbsent}.String())
	assert.Equal(t, `"x"`, FieldValue{Kind: ValueString, Raw: "x"}.String())
	assert.Equal(t, "42", FieldValue{Kind: ValueOther, Raw: "42"}.String())
}
