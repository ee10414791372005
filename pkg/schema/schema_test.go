package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ifoster01/uasp/pkg/skill"
)

func parse(t *testing.T, content string) *skill.Value {
	t.Helper()
	doc, err := skill.ParseYAML([]byte(content))
	require.NoError(t, err)
	return doc
}

const validDoc = `
meta:
  name: stripe
  version: "abcd1234"
  type: cli
  description: Stripe payment operations
commands:
  create-charge:
    syntax: stripe charges create <amount>
    args:
      - name: amount
        type: int
        required: true
workflows:
  charge-flow:
    description: Create and confirm a charge
    steps:
      - cmd: create-charge
state:
  entities:
    - name: charge_id
decisions:
  - when: Charges fail
    then: Retry with backoff
sources:
  - id: docs
    url: https://docs.stripe.com
environment:
  - name: STRIPE_API_KEY
    purpose: API authentication
`

func TestValidateValidDocument(t *testing.T) {
	assert.Empty(t, Validate(parse(t, validDoc)))
}

func TestValidateMetaRules(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			"missing name",
			"meta:\n  version: \"abcd1234\"\n  type: cli\n",
			"meta.name is required",
		},
		{
			"bad name pattern",
			"meta:\n  name: Stripe_Tool\n  version: \"abcd1234\"\n  type: cli\n",
			"meta.name must be lowercase with hyphens, starting with a letter",
		},
		{
			"missing version",
			"meta:\n  name: stripe\n  type: cli\n",
			"meta.version is required",
		},
		{
			"bad version pattern",
			"meta:\n  name: stripe\n  version: \"xyz\"\n  type: cli\n",
			"meta.version must be an 8-character lowercase hex string",
		},
		{
			"missing type",
			"meta:\n  name: stripe\n  version: \"abcd1234\"\n",
			"meta.type is required",
		},
		{
			"invalid type",
			"meta:\n  name: stripe\n  version: \"abcd1234\"\n  type: magic\n",
			`meta.type must be one of: knowledge, cli, api, hybrid (got "magic")`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(parse(t, tt.doc))
			assert.Contains(t, errs, tt.want)
		})
	}
}

func TestValidateNonMapping(t *testing.T) {
	errs := Validate(parse(t, "- just\n- a\n- list\n"))
	assert.Equal(t, []string{"document must be a mapping"}, errs)
}

func TestValidateUnknownField(t *testing.T) {
	errs := Validate(parse(t, `
meta:
  name: stripe
  version: "abcd1234"
  type: cli
bogus_section:
  key: value
`))
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0], "bogus_section")
}

func TestValidateCommandRules(t *testing.T) {
	errs := Validate(parse(t, `
meta:
  name: stripe
  version: "abcd1234"
  type: cli
commands:
  broken:
    description: No syntax here
    args:
      - required: true
`))
	assert.Contains(t, errs, "commands.broken.syntax is required")
	assert.Contains(t, errs, "commands.broken.args[0].name is required")
	assert.Contains(t, errs, "commands.broken.args[0].type is required")
}

func TestValidateWorkflowRules(t *testing.T) {
	errs := Validate(parse(t, `
meta:
  name: stripe
  version: "abcd1234"
  type: cli
workflows:
  empty-flow:
    description: ""
    steps: []
`))
	assert.Contains(t, errs, "workflows.empty-flow.description is required")
	assert.Contains(t, errs, "workflows.empty-flow.steps must not be empty")
}

func TestValidateDecisionAndSourceRules(t *testing.T) {
	errs := Validate(parse(t, `
meta:
  name: stripe
  version: "abcd1234"
  type: knowledge
decisions:
  - when: ""
    then: ""
sources:
  - url: https://example.com
`))
	assert.Contains(t, errs, "decisions[0].when is required")
	assert.Contains(t, errs, "decisions[0].then is required")
	assert.Contains(t, errs, "sources[0].id is required")
}

func TestDecode(t *testing.T) {
	s, err := Decode(parse(t, validDoc))
	require.NoError(t, err)

	assert.Equal(t, "stripe", s.Meta.Name)
	assert.Equal(t, skill.TypeCLI, s.Meta.Type)
	cmd, ok := s.Command("create-charge")
	require.True(t, ok)
	require.Len(t, cmd.Args, 1)
	assert.Equal(t, "amount", cmd.Args[0].Name)
	assert.True(t, cmd.Args[0].Required)
}

func TestDecodeInvalid(t *testing.T) {
	_, err := Decode(parse(t, "meta:\n  name: stripe\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema validation failed")
}

func TestJSONSchema(t *testing.T) {
	schema := JSONSchema()
	require.NotNil(t, schema)
	_, ok := schema.Properties.Get("meta")
	assert.True(t, ok)
	_, ok = schema.Properties.Get("commands")
	assert.True(t, ok)
}
