package runtime

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ifoster01/uasp/pkg/fingerprint"
	"github.com/ifoster01/uasp/pkg/loader"
	"github.com/ifoster01/uasp/pkg/skill"
)

const stripeTemplate = `
meta:
  name: stripe
  version: "00000000"
  type: cli
  description: Stripe payment operations
commands:
  login:
    syntax: echo session-token
    creates: [session]
  list-charges:
    syntax: echo charges
    requires: [session]
decisions:
  - when: Charges fail
    then: Retry with backoff
  - when: Charges are disputed
    then: Open the dashboard
state:
  entities:
    - name: session
      created_by: [login]
`

const deployTemplate = `
meta:
  name: deployer
  version: "00000000"
  type: cli
  description: Deployment helper
commands:
  rollout:
    syntax: echo rolling out
`

func stamp(t *testing.T, template string) string {
	t.Helper()
	doc, err := skill.ParseYAML([]byte(template))
	require.NoError(t, err)
	stamped, err := fingerprint.Update(doc).MarshalYAML()
	require.NoError(t, err)
	return string(stamped)
}

func loadStripe(t *testing.T, r *Runtime) string {
	t.Helper()
	name, err := r.LoadSkillString(context.Background(), stamp(t, stripeTemplate))
	require.NoError(t, err)
	return name
}

func TestLoadSkillFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stripe.yaml")
	require.NoError(t, os.WriteFile(path, []byte(stamp(t, stripeTemplate)), 0o644))

	r := New()
	name, err := r.LoadSkill(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "stripe", name)

	doc, err := r.Skill("stripe")
	require.NoError(t, err)
	assert.Equal(t, path, doc.Source)
}

func TestLoadSkillStringAndList(t *testing.T) {
	r := New()
	loadStripe(t, r)
	_, err := r.LoadSkillString(context.Background(), stamp(t, deployTemplate))
	require.NoError(t, err)

	assert.Equal(t, []string{"deployer", "stripe"}, r.ListSkills())
}

func TestLoadSkillInvalid(t *testing.T) {
	r := New()
	_, err := r.LoadSkillString(context.Background(), "meta:\n  name: broken\n")
	require.Error(t, err)

	var validationErr *loader.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Empty(t, r.ListSkills())
}

func TestStrictVersionOption(t *testing.T) {
	r := New(WithStrictVersion())
	_, err := r.LoadSkillString(context.Background(), stripeTemplate)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "version mismatch")
}

func TestQuery(t *testing.T) {
	r := New()
	loadStripe(t, r)

	result, err := r.Query("stripe", "meta.description", nil, false)
	require.NoError(t, err)
	require.True(t, result.Found)
	assert.Equal(t, "Stripe payment operations", result.Value.StringVal())

	_, err = r.Query("unknown", "meta", nil, false)
	var notLoaded *SkillNotFoundError
	require.ErrorAs(t, err, &notLoaded)
	assert.Equal(t, "unknown", notLoaded.Name)
}

func TestQueryCache(t *testing.T) {
	r := New()
	loadStripe(t, r)

	first, err := r.Query("stripe", "decisions", map[string]string{"when": "*fail*"}, true)
	require.NoError(t, err)
	require.Len(t, r.cache, 1)

	cached, err := r.Query("stripe", "decisions", map[string]string{"when": "*fail*"}, true)
	require.NoError(t, err)
	assert.Same(t, first.Value, cached.Value)

	r.ClearCache()
	assert.Empty(t, r.cache)
}

func TestQueryBypassCache(t *testing.T) {
	r := New()
	loadStripe(t, r)

	_, err := r.Query("stripe", "meta", nil, false)
	require.NoError(t, err)
	assert.Empty(t, r.cache)
}

func TestQueryString(t *testing.T) {
	r := New()
	loadStripe(t, r)

	result, err := r.QueryString("stripe:decisions?when=*disputed*", true)
	require.NoError(t, err)
	require.True(t, result.Found)
	assert.Equal(t, 1, result.Value.Len())

	_, err = r.QueryString("no-colon-here", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid query format")
}

func TestUnloadSkillEvictsCache(t *testing.T) {
	r := New()
	loadStripe(t, r)
	_, err := r.LoadSkillString(context.Background(), stamp(t, deployTemplate))
	require.NoError(t, err)

	_, err = r.Query("stripe", "meta", nil, true)
	require.NoError(t, err)
	_, err = r.Query("deployer", "meta", nil, true)
	require.NoError(t, err)
	require.Len(t, r.cache, 2)

	assert.True(t, r.UnloadSkill("stripe"))
	assert.Equal(t, []string{"deployer"}, r.ListSkills())
	assert.Len(t, r.cache, 1)

	assert.False(t, r.UnloadSkill("stripe"))
}

func TestExecuteWithStateTracking(t *testing.T) {
	r := New()
	loadStripe(t, r)
	ctx := context.Background()

	// Preconditions unmet before login.
	_, err := r.Execute(ctx, "stripe", "list-charges", nil, false, 10*time.Second)
	require.Error(t, err)

	result, err := r.Execute(ctx, "stripe", "login", nil, false, 10*time.Second)
	require.NoError(t, err)
	require.True(t, result.Success)

	// The tracker persists across Execute calls.
	result, err = r.Execute(ctx, "stripe", "list-charges", nil, false, 10*time.Second)
	require.NoError(t, err)
	assert.True(t, result.Success)

	tracker, err := r.State("stripe")
	require.NoError(t, err)
	assert.True(t, tracker.IsValid("session"))
}

func TestExecuteUnknownSkill(t *testing.T) {
	r := New()
	_, err := r.Execute(context.Background(), "ghost", "anything", nil, false, 0)
	var notLoaded *SkillNotFoundError
	require.ErrorAs(t, err, &notLoaded)
}

func TestReloadResetsState(t *testing.T) {
	r := New()
	loadStripe(t, r)
	ctx := context.Background()

	_, err := r.Execute(ctx, "stripe", "login", nil, false, 10*time.Second)
	require.NoError(t, err)
	tracker, err := r.State("stripe")
	require.NoError(t, err)
	require.True(t, tracker.IsValid("session"))

	loadStripe(t, r)
	tracker, err = r.State("stripe")
	require.NoError(t, err)
	assert.False(t, tracker.IsValid("session"))
}

func TestResetState(t *testing.T) {
	r := New()
	loadStripe(t, r)
	ctx := context.Background()

	_, err := r.Execute(ctx, "stripe", "login", nil, false, 10*time.Second)
	require.NoError(t, err)

	r.ResetState("stripe")
	tracker, err := r.State("stripe")
	require.NoError(t, err)
	assert.False(t, tracker.IsValid("session"))

	_, err = r.Execute(ctx, "stripe", "login", nil, false, 10*time.Second)
	require.NoError(t, err)
	r.ResetState("")
	assert.False(t, tracker.IsValid("session"))
}

func TestManifest(t *testing.T) {
	r := New()
	loadStripe(t, r)
	_, err := r.LoadSkillString(context.Background(), stamp(t, deployTemplate))
	require.NoError(t, err)

	manifest := r.Manifest()

	assert.Equal(t, QuerySyntax, manifest.QuerySyntax)
	require.Len(t, manifest.LoadedSkills, 2)

	first := manifest.LoadedSkills[0]
	assert.Equal(t, "deployer", first.Name)
	assert.Equal(t, "skill:deployer", first.QueryEndpoint)
	assert.Equal(t, "cli", first.Type)
	assert.NotEmpty(t, first.Version)

	second := manifest.LoadedSkills[1]
	assert.Equal(t, "stripe", second.Name)
	assert.Equal(t, "Stripe payment operations", second.Description)
}

func TestManifestEmpty(t *testing.T) {
	manifest := New().Manifest()
	assert.NotNil(t, manifest.LoadedSkills)
	assert.Empty(t, manifest.LoadedSkills)
	assert.Equal(t, "skill:<name>:<path>?<filters>", fmt.Sprint(manifest.QuerySyntax))
}
