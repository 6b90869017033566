package jsonquery

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, dir, name, content string) {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoader_FromFile(t *testing.T) {
	t.Parallel()

	project := t.TempDir()
	content := filepath.Join(project, "Content")

	writeTestFile(t, content, "data/item.json", `{"name":"sword","damage":12}`)
	writeTestFile(t, project, "settings.json", `{"volume":0.8}`)

	loader := &Loader{Resolver: Dirs{Content: content, Project: project}}

	doc, err := loader.FromFile("data/item.json", ContentRoot)
	require.NoError(t, err)

	damage, ok := doc.GetInt("damage")
	assert.True(t, ok)
	assert.Equal(t, int64(12), damage)

	doc, err = loader.FromFile("settings.json", ProjectRoot)
	require.NoError(t, err)

	volume, ok := doc.GetFloat("volume")
	assert.True(t, ok)
	assert.InDelta(t, 0.8, volume, 1e-12)

	_, err = loader.FromFile("settings.json", ContentRoot)
	require.ErrorIs(t, err, ErrParsingFailed)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoader_FromFile_Failures(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTestFile(t, dir, "broken.json", `{"a":`)
	writeTestFile(t, dir, "array.json", `[1,2,3]`)
	writeTestFile(t, dir, "empty.json", ``)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder"), 0o755))

	loader := &Loader{Resolver: Dirs{Content: dir, Project: dir}}

	for _, name := range []string{"missing.json", "broken.json", "array.json", "empty.json", "folder"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			doc, err := loader.FromFile(name, ContentRoot)
			require.ErrorIs(t, err, ErrParsingFailed)
			assert.Nil(t, doc)
		})
	}
}

func TestLoader_AllowComments(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTestFile(t, dir, "commented.json", `{
		// level settings
		"level": 3, /* max 10 */
		"tags": ["a", "b",],
	}`)

	strict := &Loader{Resolver: Dirs{Content: dir, Project: dir}}
	_, err := strict.FromFile("commented.json", ContentRoot)
	require.ErrorIs(t, err, ErrParsingFailed)

	lenient := &Loader{Resolver: Dirs{Content: dir, Project: dir}, AllowComments: true}
	doc, err := lenient.FromFile("commented.json", ContentRoot)
	require.NoError(t, err)

	level, ok := doc.GetInt("level")
	assert.True(t, ok)
	assert.Equal(t, int64(3), level)

	tags, ok := doc.GetStringArray("tags")
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, tags)
}

func TestDirs_Resolve(t *testing.T) {
	t.Parallel()

	dirs := Dirs{Content: "assets", Project: ""}

	root, err := dirs.Resolve(ContentRoot)
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(root))
	assert.Equal(t, "assets", filepath.Base(root))

	_, err = dirs.Resolve(ProjectRoot)
	require.ErrorIs(t, err, ErrUnknownBase)

	_, err = dirs.Resolve(BaseLocation(7))
	require.ErrorIs(t, err, ErrUnknownBase)
}

func TestParseBaseLocation(t *testing.T) {
	t.Parallel()

	base, err := ParseBaseLocation(" Content ")
	require.NoError(t, err)
	assert.Equal(t, ContentRoot, base)

	base, err = ParseBaseLocation("PROJECT")
	require.NoError(t, err)
	assert.Equal(t, ProjectRoot, base)
	assert.Equal(t, "project", base.String())

	_, err = ParseBaseLocation("home")
	require.ErrorIs(t, err, ErrUnknownBase)

	assert.Equal(t, "BaseLocation(5)", BaseLocation(5).String())
}
