package prototype

import (
	"testing"

	"github.com/richard-senior/mcp/pkg/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromFuncSkipsServiceParams(t *testing.T) {
	fn := func(query string, size int, db_service string) string { return "" }

	proto, err := FromFunc("search", "search things", []string{"query", "size", "db_service"}, fn)
	require.NoError(t, err)

	require.Len(t, proto.Params, 2)
	assert.Equal(t, "query", proto.Params[0].Name)
	assert.Equal(t, KindString, proto.Params[0].Kind)
	assert.Equal(t, "size", proto.Params[1].Name)
	assert.Equal(t, KindInteger, proto.Params[1].Kind)
	assert.Equal(t, KindString, proto.Result)
}

func TestFromFuncRejectsParamCountMismatch(t *testing.T) {
	fn := func(a string) string { return "" }
	_, err := FromFunc("x", "", []string{"a", "b"}, fn)
	assert.Error(t, err)
}

func TestToInputSchemaRoundTrip(t *testing.T) {
	proto := Prototype{
		Name: "wikipedia_image",
		Params: []Param{
			{Name: "query", Kind: KindString, Required: true, Description: "search term"},
			{Name: "size", Kind: KindInteger, Required: false, Default: 500},
		},
	}

	schema := proto.ToInputSchema()
	assert.Equal(t, "object", schema.Type)
	assert.False(t, schema.AdditionalProperties)
	assert.Equal(t, []string{"query"}, schema.Required)
	assert.Equal(t, "string", schema.Properties["query"].Type)
	assert.Equal(t, 500, schema.Properties["size"].Default)

	rebuilt := FromInputSchema(proto.Name, "", schema)
	require.Len(t, rebuilt.Params, 2)

	validated, err := rebuilt.Validate(map[string]any{"query": "einstein"})
	require.NoError(t, err)
	assert.Equal(t, "einstein", validated["query"])
	assert.Equal(t, 500, validated["size"])
}

func TestToOutputSchemaUndeclaredSuppressesOutput(t *testing.T) {
	proto := Prototype{Name: "thoughts"}
	_, ok := proto.ToOutputSchema()
	assert.False(t, ok)
}

func TestToOutputSchemaWrapsPrimitiveResult(t *testing.T) {
	proto := Prototype{Name: "datetime", Result: KindString}
	schema, ok := proto.ToOutputSchema()
	require.True(t, ok)
	assert.Equal(t, []string{"result"}, schema.Required)
	assert.Equal(t, "string", schema.Properties["result"].Type)
}

func TestValidateMissingRequiredArgument(t *testing.T) {
	proto := Prototype{Params: []Param{{Name: "query", Kind: KindString, Required: true}}}
	_, err := proto.Validate(map[string]any{})
	assert.ErrorContains(t, err, `"query"`)
}

func TestValidateCoercesStringToInteger(t *testing.T) {
	proto := Prototype{Params: []Param{{Name: "size", Kind: KindInteger, Required: true}}}
	out, err := proto.Validate(map[string]any{"size": "42"})
	require.NoError(t, err)
	assert.Equal(t, int64(42), out["size"])
}

func TestValidateCoercesStringToBoolean(t *testing.T) {
	proto := Prototype{Params: []Param{{Name: "flag", Kind: KindBoolean, Required: true}}}

	out, err := proto.Validate(map[string]any{"flag": "true"})
	require.NoError(t, err)
	assert.Equal(t, true, out["flag"])

	out, err = proto.Validate(map[string]any{"flag": "false"})
	require.NoError(t, err)
	assert.Equal(t, false, out["flag"])
}

func TestValidateAppliesDefaultWhenMissing(t *testing.T) {
	proto := Prototype{Params: []Param{{Name: "size", Kind: KindInteger, Required: false, Default: 500}}}
	out, err := proto.Validate(map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, 500, out["size"])
}

func TestFromInputSchemaParamsSortedByName(t *testing.T) {
	schema := protocol.InputSchema{
		Type: "object",
		Properties: map[string]protocol.SchemaProp{
			"zeta":  {Type: "string"},
			"alpha": {Type: "string"},
		},
	}

	proto := FromInputSchema("x", "", schema)
	require.Len(t, proto.Params, 2)
	assert.Equal(t, "alpha", proto.Params[0].Name)
	assert.Equal(t, "zeta", proto.Params[1].Name)
}
