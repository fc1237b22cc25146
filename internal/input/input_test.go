package input

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/rescomp/internal/diag"
	"github.com/vk/rescomp/internal/record"
)

func decodeOne(t *testing.T, src string) ([]record.ParsedRecord, diag.Diagnostics) {
	t.Helper()
	recs, diags, err := DecodeSource(context.Background(), "main.res.hcl", []byte(src))
	require.NoError(t, err)
	return recs, diags
}

func TestDecodeScalars(t *testing.T) {
	recs, diags := decodeOne(t, `
string "app_name" {
  value = "My App"
}

number "max_retries" {
  value = 3
}

number "tiny" {
  value = 127
  type  = "i8"
}

bool "debug" {
  value = true
}

color "primary" {
  value = "#FF5722"
}
`)
	require.Empty(t, diags)
	require.Len(t, recs, 5)

	assert.Equal(t, "app_name", recs[0].Name)
	assert.Equal(t, "string", recs[0].KindTag)
	assert.Equal(t, "My App", recs[0].Raw)
	assert.Equal(t, 2, recs[0].Origin.Line)

	assert.Equal(t, "3", recs[1].Raw)
	assert.Equal(t, "127", recs[2].Raw)
	assert.Equal(t, "i8", recs[2].TypeHint)
	assert.Equal(t, "true", recs[3].Raw)
	assert.Equal(t, "#FF5722", recs[4].Raw)
}

func TestDecodeKeepsNumberSpelling(t *testing.T) {
	recs, diags := decodeOne(t, `
number "huge" {
  value = 99999999999999999999
}

number "pi" {
  value = 3.14
}
`)
	require.Empty(t, diags)
	require.Len(t, recs, 2)
	assert.Equal(t, "99999999999999999999", recs[0].Raw)
	assert.Equal(t, "3.14", recs[1].Raw)
}

func TestDecodeNestedNamespaces(t *testing.T) {
	recs, diags := decodeOne(t, `
namespace "ui" {
  string "title" {
    value = "T"
  }

  namespace "dialog" {
    string "ok" {
      value = "OK"
    }
  }
}

string "root_name" {
  value = "R"
}
`)
	require.Empty(t, diags)
	require.Len(t, recs, 3)
	assert.Equal(t, []string{"ui"}, recs[0].Namespace)
	assert.Equal(t, []string{"ui", "dialog"}, recs[1].Namespace)
	assert.Empty(t, recs[2].Namespace)
}

func TestDecodeArrayAndTemplate(t *testing.T) {
	recs, diags := decodeOne(t, `
array "ports" {
  kind   = "number"
  values = [80, 443]
}

template "greeting" {
  text = "Hello {name}, you have {count} messages!"

  param "name" {
    type = "string"
  }

  param "count" {
    type = "int"
  }
}
`)
	require.Empty(t, diags)
	require.Len(t, recs, 2)

	assert.Equal(t, "array", recs[0].KindTag)
	assert.Equal(t, "number", recs[0].ElemKind)
	assert.Equal(t, []string{"80", "443"}, recs[0].RawList)

	require.NotNil(t, recs[1].Template)
	assert.Equal(t, "Hello {name}, you have {count} messages!", recs[1].Template.Text)
	assert.Equal(t, []record.TemplateParam{
		{Name: "name", Type: "string"},
		{Name: "count", Type: "int"},
	}, recs[1].Template.Params)
}

func TestDecodeFileProfile(t *testing.T) {
	recs, diags := decodeOne(t, `
profile = "debug"

string "app_name" {
  value = "Debug App"
}
`)
	require.Empty(t, diags)
	require.Len(t, recs, 1)
	assert.Equal(t, "debug", recs[0].Origin.Profile)
}

func TestDecodeMalformedRecords(t *testing.T) {
	testCases := []struct {
		name string
		src  string
	}{
		{
			name: "missing value attribute",
			src:  `string "a" {}`,
		},
		{
			name: "missing label",
			src:  "string {\n  value = \"x\"\n}",
		},
		{
			name: "list value on scalar block",
			src:  "string \"a\" {\n  value = [\"x\"]\n}",
		},
		{
			name: "array without kind",
			src:  "array \"a\" {\n  values = [1]\n}",
		},
		{
			name: "template param without type",
			src:  "template \"a\" {\n  text = \"{x}\"\n  param \"x\" {}\n}",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			recs, diags := decodeOne(t, tc.src)
			assert.Empty(t, recs)
			require.Len(t, diags, 1)
			assert.Equal(t, diag.Warning, diags[0].Severity)
			assert.Equal(t, diag.MalformedRecord, diags[0].Kind)
		})
	}
}

func TestDecodeAllMergesInGivenOrder(t *testing.T) {
	// DecodeAll reads from disk; exercised end to end by the app tests.
	// Here only the empty input edge matters.
	recs, diags, err := DecodeAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, recs)
	assert.Empty(t, diags)
}
