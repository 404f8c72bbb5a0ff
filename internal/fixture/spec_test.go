package fixture

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpecUnmarshalForms(t *testing.T) {
	data := []byte(`[
		"basics/simple-var.src",
		{"path": "modules/export-default-number.src.js", "options": {"reference": {"sourceType": "module"}}},
		{"group": "basics", "exclude": ["a.src"], "options": {"candidate": {"jsx": true}}}
	]`)

	var specs []Spec
	require.NoError(t, json.Unmarshal(data, &specs))
	require.Len(t, specs, 3)

	assert.Equal(t, File("basics/simple-var.src"), specs[0])

	assert.Equal(t, KindFixture, specs[1].Kind)
	assert.Equal(t, "modules/export-default-number.src.js", specs[1].Path)
	assert.Equal(t, "module", specs[1].Options["reference"]["sourceType"])

	assert.Equal(t, KindGroup, specs[2].Kind)
	assert.Equal(t, "basics", specs[2].Path)
	assert.Equal(t, []string{"a.src"}, specs[2].Exclude)
	assert.Equal(t, true, specs[2].Options["candidate"]["jsx"])
}

func TestSpecUnmarshalRejects(t *testing.T) {
	tests := map[string]string{
		"both":            `{"group": "a", "path": "b"}`,
		"neither":         `{"options": {}}`,
		"unknown field":   `{"group": "a", "excludes": []}`,
		"path exclusions": `{"path": "a.src", "exclude": ["b"]}`,
		"number":          `42`,
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			var s Spec
			assert.Error(t, json.Unmarshal([]byte(data), &s))
		})
	}
}

func TestSpecMarshalRoundTrip(t *testing.T) {
	specs := []Spec{
		File("a.src"),
		File("b.src").WithOptions(Overrides{"reference": {"sourceType": "module"}}),
		Group("basics", "x.src"),
	}
	data, err := json.Marshal(specs)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"a.src"`)

	var back []Spec
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, specs, back)
}

func TestOverridesFor(t *testing.T) {
	o := Overrides{"reference": {"sourceType": "module"}}

	got := o.For("reference")
	assert.Equal(t, map[string]any{"sourceType": "module"}, got)

	got["sourceType"] = "script"
	assert.Equal(t, "module", o["reference"]["sourceType"], "For returns a copy")

	assert.Nil(t, o.For("candidate"))
	assert.Nil(t, Overrides(nil).For("reference"))
}

func TestSpecString(t *testing.T) {
	assert.Equal(t, "a.src", File("a.src").String())
	assert.Equal(t, "group basics", Group("basics").String())
	assert.Equal(t, "group basics (exclude 2)", Group("basics", "a", "b").String())
}
