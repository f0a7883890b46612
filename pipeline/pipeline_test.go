package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/umlconf/am"
	"github.com/teranos/umlconf/model"
)

const testModel = `<Model>
	<Class name="A" isRoot="true" documentation="root">
		<Attribute name="x" type="int"/>
	</Class>
	<Class name="B" isRoot="false">
		<Attribute name="y" type="string"/>
	</Class>
	<Class name="Island" isRoot="false"/>
	<Aggregation source="B" target="A" sourceMultiplicity="0..5" targetMultiplicity="1"/>
</Model>`

// setup writes a model and two configurations into a temp dir and returns a
// configuration pointing at them
func setup(t *testing.T, modelXML string) *am.Config {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"model.xml": modelXML,
		"old.json":  `{"a":1,"b":2}`,
		"new.json":  `{"b":3,"c":"<ü>"}`,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	cfg := am.DefaultConfig()
	cfg.Input.Model = filepath.Join(dir, "model.xml")
	cfg.Input.OldConfig = filepath.Join(dir, "old.json")
	cfg.Input.NewConfig = filepath.Join(dir, "new.json")
	cfg.Output.Dir = filepath.Join(dir, "out")
	return cfg
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRun_WritesAllOutputs(t *testing.T) {
	cfg := setup(t, testModel)
	r := NewRunner(cfg, zaptest.NewLogger(t).Sugar())

	result, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, "A", result.Root)
	assert.Equal(t, 3, result.Classes)
	assert.Equal(t, 1, result.Aggregations)
	assert.Equal(t, 2, result.TreeNodes)
	assert.Equal(t, 1, result.Changes.Additions)
	assert.Equal(t, 1, result.Changes.Deletions)
	assert.Equal(t, 1, result.Changes.Updates)
	assert.Len(t, result.Outputs, 4)

	xml := readFile(t, cfg.XMLPath())
	assert.Equal(t, "<A>\n\t<x>int</x>\n\t<B>\n\t\t<y>string</y>\n\t</B>\n</A>", strings.TrimSpace(xml))

	meta := readFile(t, cfg.MetaPath())
	assert.True(t, strings.HasPrefix(meta, "[\n    {\n        \"class\": \"A\""), meta)
	var descriptors []map[string]any
	require.NoError(t, json.Unmarshal([]byte(meta), &descriptors))
	assert.Len(t, descriptors, 3)

	assert.JSONEq(t,
		`{"additions":[{"key":"c","value":"<ü>"}],"deletions":["a"],"updates":[{"key":"b","from":2,"to":3}]}`,
		readFile(t, cfg.DeltaPath()))

	assert.Contains(t, readFile(t, cfg.DeltaPath()), `"<ü>"`)

	patched := readFile(t, cfg.PatchedPath())
	assert.JSONEq(t, `{"b":3,"c":"<ü>"}`, patched)
	assert.Contains(t, patched, `"<ü>"`)
}

func TestRun_MetaReachableOnly(t *testing.T) {
	cfg := setup(t, testModel)
	cfg.Compile.MetaReachableOnly = true

	_, err := NewRunner(cfg, nil).Run(context.Background())
	require.NoError(t, err)

	var descriptors []map[string]any
	require.NoError(t, json.Unmarshal([]byte(readFile(t, cfg.MetaPath())), &descriptors))
	assert.Len(t, descriptors, 2)
}

func TestRun_FailureWritesNothing(t *testing.T) {
	cyclic := `<Model>
		<Class name="A" isRoot="true"/>
		<Class name="B" isRoot="false"/>
		<Aggregation source="B" target="A" sourceMultiplicity="1" targetMultiplicity="1"/>
		<Aggregation source="A" target="B" sourceMultiplicity="1" targetMultiplicity="1"/>
	</Model>`
	cfg := setup(t, cyclic)

	_, err := NewRunner(cfg, nil).Run(context.Background())
	require.ErrorIs(t, err, model.ErrCyclicAggregation)
	assert.NoDirExists(t, cfg.Output.Dir)
}

func TestRun_Cancelled(t *testing.T) {
	cfg := setup(t, testModel)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(cfg, nil).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCompileModel_StrictReferences(t *testing.T) {
	dangling := `<Model>
		<Class name="A" isRoot="true"/>
		<Class name="B" isRoot="false"/>
		<Aggregation source="Ghost" target="B" sourceMultiplicity="1" targetMultiplicity="1"/>
	</Model>`
	cfg := setup(t, dangling)
	r := NewRunner(cfg, nil)

	// The dangling edge hangs off an unreachable class, so only strict mode sees it
	compiled, err := r.CompileModel(context.Background(), cfg.Input.Model)
	require.NoError(t, err)
	assert.Equal(t, 1, compiled.Tree.Size())

	cfg.Compile.StrictReferences = true
	_, err = r.CompileModel(context.Background(), cfg.Input.Model)
	assert.ErrorIs(t, err, model.ErrUnresolvedReference)
}

func TestPatchConfig_ReplaysWrittenDelta(t *testing.T) {
	cfg := setup(t, testModel)
	r := NewRunner(cfg, nil)
	ctx := context.Background()

	d, err := r.DiffConfigs(ctx, cfg.Input.OldConfig, cfg.Input.NewConfig)
	require.NoError(t, err)
	require.NoError(t, r.WriteDelta(d, cfg.DeltaPath(), cfg.PatchedPath()))

	patched, err := r.PatchConfig(ctx, cfg.Input.OldConfig, cfg.DeltaPath())
	require.NoError(t, err)
	assert.True(t, patched.Equal(d.Patched))
	assert.Equal(t, []string{"b", "c"}, patched.Keys())
}

func TestDiffConfigs_MissingInput(t *testing.T) {
	cfg := setup(t, testModel)
	_, err := NewRunner(cfg, nil).DiffConfigs(context.Background(), filepath.Join(t.TempDir(), "nope.json"), cfg.Input.NewConfig)
	assert.Error(t, err)
}
