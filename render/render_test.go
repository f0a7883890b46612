package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teranos/umlconf/compile"
	"github.com/teranos/umlconf/model"
)

type classDef struct {
	name  string
	root  bool
	doc   string
	attrs [][2]string
}

func newRepo(t *testing.T, classes []classDef, aggs ...model.Aggregation) *model.Repository {
	t.Helper()
	repo := model.NewRepository(model.DuplicateError)
	for _, c := range classes {
		cls := model.NewClassElement(c.name, c.root, c.doc)
		for _, a := range c.attrs {
			cls.AddAttribute(a[0], a[1])
		}
		require.NoError(t, repo.AddClass(cls))
	}
	for _, a := range aggs {
		repo.AddAggregation(a)
	}
	return repo
}

func agg(source, target, sourceMult string) model.Aggregation {
	return model.Aggregation{Source: source, Target: target, SourceMultiplicity: sourceMult, TargetMultiplicity: "1"}
}

// scenarioRepo is root A (x:int) containing B (y:string) with multiplicity 0..5.
func scenarioRepo(t *testing.T) *model.Repository {
	return newRepo(t,
		[]classDef{
			{name: "A", root: true, doc: "root class", attrs: [][2]string{{"x", "int"}}},
			{name: "B", attrs: [][2]string{{"y", "string"}}},
		},
		agg("B", "A", "0..5"),
	)
}

func mustCompile(t *testing.T, repo *model.Repository) *compile.Node {
	t.Helper()
	tree, err := compile.NewCompiler(compile.Options{}, nil).Compile(repo)
	require.NoError(t, err)
	return tree
}

func TestXML_Scenario(t *testing.T) {
	out, err := XMLString(mustCompile(t, scenarioRepo(t)))
	require.NoError(t, err)

	want := "<A>\n" +
		"\t<x>int</x>\n" +
		"\t<B>\n" +
		"\t\t<y>string</y>\n" +
		"\t</B>\n" +
		"</A>"
	assert.Equal(t, want, strings.TrimSpace(out))
	assert.NotContains(t, out, "<?xml")
}

func TestXML_AttributesBeforeNestedClasses(t *testing.T) {
	repo := newRepo(t,
		[]classDef{
			{name: "Car", root: true, attrs: [][2]string{{"vin", "string"}, {"year", "int"}}},
			{name: "Wheel", attrs: [][2]string{{"size", "int"}}},
			{name: "Engine", attrs: [][2]string{{"power", "float"}}},
		},
		agg("Engine", "Car", "1"),
		agg("Wheel", "Car", "4"),
	)

	doc := XML(mustCompile(t, repo))
	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "Car", root.Tag)

	var tags []string
	for _, c := range root.ChildElements() {
		tags = append(tags, c.Tag)
	}
	assert.Equal(t, []string{"vin", "year", "Engine", "Wheel"}, tags)
	assert.Equal(t, "power", root.ChildElements()[2].ChildElements()[0].Tag)
	assert.Equal(t, "float", root.ChildElements()[2].ChildElements()[0].Text())
}

func TestXML_EscapesText(t *testing.T) {
	repo := newRepo(t, []classDef{{name: "A", root: true, attrs: [][2]string{{"items", "List<int> & more"}}}})

	var buf bytes.Buffer
	require.NoError(t, WriteXML(&buf, mustCompile(t, repo)))
	assert.Contains(t, buf.String(), "&lt;")
	assert.Contains(t, buf.String(), "&amp;")

	parsed := etree.NewDocument()
	require.NoError(t, parsed.ReadFromBytes(buf.Bytes()))
	assert.Equal(t, "List<int> & more", parsed.Root().SelectElement("items").Text())
}

func TestXML_NilTree(t *testing.T) {
	assert.Nil(t, XML(nil).Root())
}

func TestMeta_Scenario(t *testing.T) {
	got := Meta(scenarioRepo(t), MetaOptions{})
	require.Len(t, got, 2)

	a := got[0]
	assert.Equal(t, "A", a.Class)
	assert.Equal(t, "root class", a.Documentation)
	assert.True(t, a.IsRoot)
	assert.Nil(t, a.Min)
	assert.Nil(t, a.Max)
	assert.Equal(t, []Parameter{{Name: "x", Type: "int"}, {Name: "B", Type: "class"}}, a.Parameters)

	b := got[1]
	require.NotNil(t, b.Min)
	require.NotNil(t, b.Max)
	assert.Equal(t, "0", *b.Min)
	assert.Equal(t, "5", *b.Max)
	assert.Equal(t, []Parameter{{Name: "y", Type: "string"}}, b.Parameters)
}

func TestMeta_JSONShape(t *testing.T) {
	data, err := json.Marshal(Meta(scenarioRepo(t), MetaOptions{}))
	require.NoError(t, err)

	want := `[` +
		`{"class":"A","documentation":"root class","isRoot":true,"parameters":[{"name":"x","type":"int"},{"name":"B","type":"class"}]},` +
		`{"class":"B","documentation":"","isRoot":false,"min":"0","max":"5","parameters":[{"name":"y","type":"string"}]}` +
		`]`
	assert.JSONEq(t, want, string(data))
	// key order is part of the output contract
	assert.True(t, strings.Index(string(data), `"min"`) < strings.Index(string(data), `"parameters":[{"name":"y"`))
}

func TestMeta_EmptyParametersIsEmptyList(t *testing.T) {
	repo := newRepo(t, []classDef{{name: "A", root: true}})
	data, err := json.Marshal(Meta(repo, MetaOptions{}))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"parameters":[]`)
}

func TestMeta_LastMultiplicityWins(t *testing.T) {
	repo := newRepo(t,
		[]classDef{{name: "A", root: true}, {name: "C", root: false}, {name: "B"}},
		agg("B", "A", "1"),
		agg("B", "C", "0..*"),
	)

	got := Meta(repo, MetaOptions{})
	require.Len(t, got, 3)
	b := got[2]
	assert.Equal(t, "0", *b.Min)
	assert.Equal(t, "*", *b.Max)
}

func TestMeta_NestedOrderAndDuplicates(t *testing.T) {
	repo := newRepo(t,
		[]classDef{{name: "A", root: true, attrs: [][2]string{{"id", "int"}}}, {name: "B"}, {name: "C"}},
		agg("C", "A", "1"),
		agg("B", "A", "1"),
		agg("C", "A", "2"),
	)

	got := Meta(repo, MetaOptions{})
	assert.Equal(t, []Parameter{
		{Name: "id", Type: "int"},
		{Name: "C", Type: "class"},
		{Name: "B", Type: "class"},
		{Name: "C", Type: "class"},
	}, got[0].Parameters)
}

func TestMeta_IncludesUnreachableByDefault(t *testing.T) {
	repo := newRepo(t,
		[]classDef{{name: "A", root: true}, {name: "B"}, {name: "Island"}},
		agg("B", "A", "1"),
	)

	all := Meta(repo, MetaOptions{})
	assert.Len(t, all, 3)

	reachable := Meta(repo, MetaOptions{Reachable: mustCompile(t, repo)})
	require.Len(t, reachable, 2)
	assert.Equal(t, "A", reachable[0].Class)
	assert.Equal(t, "B", reachable[1].Class)
}

func TestRenderers_CoverReachableClasses(t *testing.T) {
	repo := newRepo(t,
		[]classDef{{name: "Root", root: true}, {name: "Mid"}, {name: "Leaf"}, {name: "Orphan"}},
		agg("Mid", "Root", "1"),
		agg("Leaf", "Mid", "1..*"),
	)
	tree := mustCompile(t, repo)

	doc := XML(tree)
	for _, name := range []string{"Root", "Mid", "Leaf"} {
		assert.NotNil(t, doc.FindElement("//"+name), "missing %s", name)
	}
	assert.Nil(t, doc.FindElement("//Orphan"))

	var classes []string
	for _, d := range Meta(repo, MetaOptions{Reachable: tree}) {
		classes = append(classes, d.Class)
	}
	assert.Equal(t, []string{"Root", "Mid", "Leaf"}, classes)
}
