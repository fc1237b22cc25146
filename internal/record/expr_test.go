package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanString(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected ReferenceExpression
	}{
		{
			name:     "plain literal",
			input:    "My App",
			expected: ReferenceExpression{{Literal: "My App"}},
		},
		{
			name:     "empty string",
			input:    "",
			expected: ReferenceExpression{{Literal: ""}},
		},
		{
			name:  "lone reference",
			input: "@string/app_name",
			expected: ReferenceExpression{
				{Ref: &Reference{Kind: KindString, Path: "app_name"}},
			},
		},
		{
			name:  "reference with namespace path",
			input: "@string/ui/app_name",
			expected: ReferenceExpression{
				{Ref: &Reference{Kind: KindString, Path: "ui/app_name"}},
			},
		},
		{
			name:  "literal prefix and suffix",
			input: "see @color/primary today",
			expected: ReferenceExpression{
				{Literal: "see "},
				{Ref: &Reference{Kind: KindColor, Path: "primary"}},
				{Literal: " today"},
			},
		},
		{
			name:  "adjacent references separated by slash",
			input: "@string/base_url/@string/api_version",
			expected: ReferenceExpression{
				{Ref: &Reference{Kind: KindString, Path: "base_url"}},
				{Literal: "/"},
				{Ref: &Reference{Kind: KindString, Path: "api_version"}},
			},
		},
		{
			name:     "lone at sign stays literal",
			input:    "user@example.com",
			expected: ReferenceExpression{{Literal: "user"}, {Literal: "@"}, {Literal: "example.com"}},
		},
		{
			name:     "at sign with empty path stays literal",
			input:    "@string/",
			expected: ReferenceExpression{{Literal: "@"}, {Literal: "string/"}},
		},
		{
			name:     "trailing at sign",
			input:    "ping@",
			expected: ReferenceExpression{{Literal: "ping"}, {Literal: "@"}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ScanString(tc.input)
			require.Equal(t, tc.expected, got)
		})
	}
}

func TestReferenceExpressionHelpers(t *testing.T) {
	expr := ScanString("prefix @string/a mid @number/b")
	assert.False(t, expr.IsLiteral())
	assert.Equal(t, []Reference{
		{Kind: KindString, Path: "a"},
		{Kind: KindNumber, Path: "b"},
	}, expr.References())

	lit := ScanString("no tokens here")
	assert.True(t, lit.IsLiteral())
	assert.Equal(t, "no tokens here", lit.LiteralText())
}
