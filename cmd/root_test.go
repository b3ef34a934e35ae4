package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/buildinfo"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/catalog"
)

// cli runs commands against one config file, with a fresh App per invocation like the
// real binary.
type cli struct {
	t      *testing.T
	config string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	dir := t.TempDir()
	config := filepath.Join(dir, "config.yaml")
	yaml := "export:\n  dir: " + filepath.Join(dir, "exports") + "\n  include_photos: true\n" +
		"logging:\n  console:\n    enabled: false\n"
	require.NoError(t, os.WriteFile(config, []byte(yaml), 0o600))
	return &cli{t: t, config: config}
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	var out bytes.Buffer
	app := catalog.NewApp(buildinfo.NewContext("1.2.3", "2026-02-01"), &out)
	root := RootCommand(app)
	root.SetArgs(append([]string{"--config", c.config}, args...))
	root.SetOut(&out)
	root.SetErr(&out)

	err := root.ExecuteContext(context.Background())
	require.NoError(c.t, app.Close())
	return out.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, out)
	return out
}

func TestCLI_LifelistWorkflow(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("init")
	assert.Contains(t, out, "lifelist tracker initialized")

	out = c.mustRun("types")
	assert.Contains(t, out, "Wildlife")
	assert.Contains(t, out, "sighting")

	out = c.mustRun("create", "Backyard Birds", "--type", "Wildlife")
	assert.Contains(t, out, `created lifelist "Backyard Birds" (id 1)`)

	_, err := c.run("create", "Backyard Birds")
	assert.Error(t, err, "duplicate names are rejected")

	c.mustRun("field", "add", "Backyard Birds", "Sex", "--type", "choice", "--option", "m=Male", "--option", "f=Female")
	out = c.mustRun("field", "list", "1")
	assert.Contains(t, out, "Sex")
	assert.Contains(t, out, "m, f")

	c.mustRun("observation", "add", "Backyard Birds", "American Robin",
		"--date", "2026-05-01", "--tier", "heard", "--field", "sex=f", "--tag", "dawn:time")
	c.mustRun("observation", "add", "Backyard Birds", "American Robin", "--date", "2026-05-03", "--location", "Garden")
	c.mustRun("observation", "add", "Backyard Birds", "Blue Jay", "--date", "2026-05-02")

	_, err = c.run("observation", "add", "Backyard Birds", "Blue Jay", "--field", "sex=x")
	assert.Error(t, err, "values are validated against the field type")
	_, err = c.run("observation", "add", "Backyard Birds", "Blue Jay", "--date", "05/02/2026")
	assert.Error(t, err)

	out = c.mustRun("observation", "list", "Backyard Birds", "--tag", "dawn")
	assert.Contains(t, out, "American Robin")
	assert.NotContains(t, out, "Blue Jay")

	out = c.mustRun("observation", "show", "1")
	assert.Contains(t, out, "Sex")
	assert.Contains(t, out, "dawn")

	out = c.mustRun("observation", "entries", "Backyard Birds")
	assert.Contains(t, out, "2 entries")
	assert.Less(t, strings.Index(out, "American Robin"), strings.Index(out, "Blue Jay"))

	out = c.mustRun("tiers", "get", "Backyard Birds")
	assert.Contains(t, out, "captive")

	c.mustRun("tiers", "set", "Backyard Birds", "heard", "wild")
	out = c.mustRun("tiers", "all", "Backyard Birds")
	assert.Equal(t, "heard\nwild\n", out)

	out = c.mustRun("version")
	assert.Equal(t, "lifelist 1.2.3 (built 2026-02-01)\n", out)
}

func TestCLI_ExportImport(t *testing.T) {
	c := newCLI(t)

	c.mustRun("create", "Reading", "--type", "Books")
	_, err := c.run("observation", "add", "Reading", "Dune")
	assert.Error(t, err, "Author is required for Books")
	c.mustRun("observation", "add", "Reading", "Dune", "--date", "2026-01-10", "--field", "Author=Frank Herbert")

	exportDir := t.TempDir()
	out := c.mustRun("export", "Reading", "--dir", exportDir)
	assert.Contains(t, out, filepath.Join(exportDir, "Reading.json"))

	raw, err := os.ReadFile(filepath.Join(exportDir, "Reading.json"))
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "Reading", doc["name"])

	_, err = c.run("import", filepath.Join(exportDir, "Reading.json"))
	assert.Error(t, err, "name collision is refused")

	c.mustRun("import", filepath.Join(exportDir, "Reading.json"), "--rename", "Reading Copy")
	out = c.mustRun("list")
	assert.Contains(t, out, "Reading Copy")
}

func TestCLI_ClassificationSearch(t *testing.T) {
	c := newCLI(t)

	csvPath := filepath.Join(t.TempDir(), "birds.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("Scientific Name,Common Name,Family\n"+
		"Turdus migratorius,American Robin,Turdidae\n"+
		"Cyanocitta cristata,Blue Jay,Corvidae\n"), 0o600))

	c.mustRun("create", "Birds")

	out := c.mustRun("classification", "import", "Birds", csvPath, "--dry-run")
	assert.Contains(t, out, "Scientific Name")
	assert.Contains(t, out, "2 data rows")

	out = c.mustRun("classification", "import", "Birds", csvPath, "--activate")
	assert.Contains(t, out, `imported "birds"`)

	out = c.mustRun("classification", "search", "Birds", "robin")
	assert.Contains(t, out, "Turdus migratorius")
	assert.NotContains(t, out, "Blue Jay")

	_, err := c.run("classification", "import", "Birds", csvPath, "--map", "bogus=Family")
	assert.Error(t, err)

	out = c.mustRun("classification", "sources")
	assert.Contains(t, out, "ebird")
}

func TestCLI_UnknownLifelist(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("tiers", "get", "Nope")
	assert.Error(t, err)
}

func TestNeedsCatalog(t *testing.T) {
	t.Parallel()

	root := RootCommand(catalog.NewApp(nil, &bytes.Buffer{}))
	for _, tt := range []struct {
		args []string
		want bool
	}{
		{[]string{"list"}, true},
		{[]string{"version"}, false},
		{[]string{"classification", "sources"}, false},
		{[]string{"classification", "search"}, true},
	} {
		cmd, _, err := root.Find(tt.args)
		require.NoError(t, err)
		assert.Equal(t, tt.want, needsCatalog(cmd), strings.Join(tt.args, " "))
	}
}
