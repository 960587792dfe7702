package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloatsScan(t *testing.T) {
	tests := []struct {
		name string
		src  any
		want Floats
	}{
		{"array literal bytes", []byte("{1,2.5,-3}"), Floats{1, 2.5, -3}},
		{"array literal string", "{0.25}", Floats{0.25}},
		{"json array", "[1, 2, 3]", Floats{1, 2, 3}},
		{"json with spaces", "  [4]  ", Floats{4}},
		{"empty array", "{}", Floats{}},
		{"null", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f Floats
			require.NoError(t, f.Scan(tt.src))
			assert.Equal(t, tt.want, f)
		})
	}
}

func TestFloatsScanErrors(t *testing.T) {
	var f Floats
	assert.Error(t, f.Scan(42))
	assert.Error(t, f.Scan("[1, oops]"))
	assert.Error(t, f.Scan("nonsense"))
}

func TestFloatsValue(t *testing.T) {
	v, err := Floats{1, 2.5}.Value()
	require.NoError(t, err)
	assert.Equal(t, "{1,2.5}", v)

	v, err = Floats(nil).Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}
