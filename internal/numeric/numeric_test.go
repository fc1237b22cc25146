package numeric

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	testCases := []struct {
		name        string
		raw         string
		hint        string
		expectRepr  Repr
		expectLit   string
		expectType  string
		expectRange bool
		expectErr   bool
	}{
		{
			name:       "small integer",
			raw:        "42",
			expectRepr: Int,
			expectLit:  "42",
			expectType: "int64",
		},
		{
			name:       "negative integer",
			raw:        "-7",
			expectRepr: Int,
			expectLit:  "-7",
			expectType: "int64",
		},
		{
			name:       "int64 maximum stays fixed width",
			raw:        "9223372036854775807",
			expectRepr: Int,
			expectLit:  "9223372036854775807",
			expectType: "int64",
		},
		{
			name:       "one past int64 maximum goes arbitrary precision",
			raw:        "9223372036854775808",
			expectRepr: Big,
			expectLit:  "9223372036854775808",
		},
		{
			name:       "twenty digit literal goes arbitrary precision",
			raw:        "99999999999999999999",
			expectRepr: Big,
			expectLit:  "99999999999999999999",
		},
		{
			name:       "simple fraction",
			raw:        "3.14",
			expectRepr: Float,
			expectLit:  "3.14",
			expectType: "float64",
		},
		{
			name:       "whole-valued float keeps fractional marker",
			raw:        "3.0",
			expectRepr: Float,
			expectLit:  "3.0",
			expectType: "float64",
		},
		{
			name:       "exponent literal",
			raw:        "1.5e3",
			expectRepr: Float,
			expectLit:  "1500.0",
			expectType: "float64",
		},
		{
			name:       "fraction beyond float precision goes arbitrary precision",
			raw:        "3.141592653589793238462643",
			expectRepr: Big,
			expectLit:  "3.141592653589793238462643",
		},
		{
			name:       "explicit i8 in range",
			raw:        "127",
			hint:       "i8",
			expectRepr: Int,
			expectLit:  "127",
			expectType: "int8",
		},
		{
			name:        "explicit i8 out of range",
			raw:         "128",
			hint:        "i8",
			expectRange: true,
		},
		{
			name:       "explicit u64 above int64 range",
			raw:        "18446744073709551615",
			hint:       "u64",
			expectRepr: Int,
			expectLit:  "18446744073709551615",
			expectType: "uint64",
		},
		{
			name:        "explicit u8 rejects negative",
			raw:         "-1",
			hint:        "u8",
			expectRange: true,
		},
		{
			name:       "explicit f32",
			raw:        "2.5",
			hint:       "f32",
			expectRepr: Float,
			expectLit:  "2.5",
			expectType: "float32",
		},
		{
			name:        "explicit f32 overflow",
			raw:         "1e200",
			hint:        "f32",
			expectRange: true,
		},
		{
			name:       "explicit bigdecimal",
			raw:        "1",
			hint:       "bigdecimal",
			expectRepr: Big,
			expectLit:  "1",
		},
		{
			name:      "unknown hint",
			raw:       "1",
			hint:      "i128",
			expectErr: true,
		},
		{
			name:      "empty literal",
			raw:       "  ",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			val, err := Classify(tc.raw, tc.hint)
			if tc.expectRange {
				require.Error(t, err)
				var rangeErr *RangeError
				require.ErrorAs(t, err, &rangeErr)
				return
			}
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectRepr, val.Repr)
			assert.Equal(t, tc.expectLit, val.Literal)
			if tc.expectType != "" {
				assert.Equal(t, tc.expectType, val.GoType)
			}
			if val.Repr == Big {
				require.NotNil(t, val.Big)
			}
		})
	}
}

func TestBigValuesAreInterned(t *testing.T) {
	a, err := Classify("99999999999999999999", "")
	require.NoError(t, err)
	b, err := Classify("99999999999999999999", "bigdecimal")
	require.NoError(t, err)
	assert.Same(t, a.Big, b.Big)

	c, err := Classify("99999999999999999998", "")
	require.NoError(t, err)
	assert.NotSame(t, a.Big, c.Big)
}
