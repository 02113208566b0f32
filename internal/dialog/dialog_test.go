package dialog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeFrames() []Frame {
	return Lines("Tom", "one", "two", "three")
}

func TestStartIgnoresEmpty(t *testing.T) {
	var s Sequencer
	s.Start(nil)
	assert.False(t, s.IsOpen())
	_, ok := s.Current()
	assert.False(t, ok)
}

func TestAdvanceThroughSequence(t *testing.T) {
	var s Sequencer
	fired := 0
	s.Start(threeFrames())
	s.OnClose(func() { fired++ })

	for i := 0; i < 2; i++ {
		s.Advance()
	}
	require.True(t, s.IsOpen())
	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "three", cur.Text)
	assert.False(t, s.HasNext())
	assert.Equal(t, 0, fired)

	s.Advance()
	assert.False(t, s.IsOpen())
	assert.Equal(t, 1, fired)

	s.Advance()
	s.Close()
	assert.Equal(t, 1, fired)
}

func TestAdvanceWhenClosedIsNoop(t *testing.T) {
	var s Sequencer
	s.Advance()
	assert.False(t, s.IsOpen())
	assert.Equal(t, 0, s.Index())
}

func TestCloseClearsState(t *testing.T) {
	var s Sequencer
	s.Start(threeFrames())
	s.Advance()
	s.Close()
	assert.Equal(t, 0, s.Index())
	assert.Equal(t, 0, s.Len())
}

func TestOnCloseReplacesPending(t *testing.T) {
	var s Sequencer
	var got []string
	s.OnClose(func() { got = append(got, "first") })
	s.OnClose(func() { got = append(got, "second") })
	s.Say("Bob", "hi")
	s.Advance()
	assert.Equal(t, []string{"second"}, got)
}

func TestCallbackMayStartNextDialog(t *testing.T) {
	var s Sequencer
	s.Say("Bob", "first")
	s.OnClose(func() { s.Say("Bob", "second") })
	s.Advance()

	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "second", cur.Text)
}

func TestDefaultLibrary(t *testing.T) {
	lib := DefaultLibrary()
	frames, ok := lib.Resolve("Nobody", "extra_3")
	require.True(t, ok)
	require.Len(t, frames, 3)
	assert.Equal(t, "Sarah", frames[0].Speaker)
	assert.Equal(t, "I'm planning to learn how to ski!", frames[2].Text)

	aa, ok := lib.Resolve("aa")
	require.True(t, ok)
	assert.Equal(t, "Alice", aa[0].Speaker)
	assert.Equal(t, "Tom", aa[len(aa)-1].Speaker)
}

func TestLookupFallsBackToLowerCase(t *testing.T) {
	lib := NewLibrary(map[string][]Page{
		"kevin": {{Speaker: "Kevin", Lines: []string{"hey"}}},
		"Bob":   {{Speaker: "Bob", Lines: []string{"cheese"}}},
	})

	_, ok := lib.Lookup("Kevin")
	assert.True(t, ok)
	_, ok = lib.Lookup("Bob")
	assert.True(t, ok)
	_, ok = lib.Lookup("bob")
	assert.False(t, ok)
	_, ok = lib.Lookup("")
	assert.False(t, ok)
}

func TestResolvePrefersNameOverType(t *testing.T) {
	lib := NewLibrary(map[string][]Page{
		"Anna":    {{Speaker: "Anna", Lines: []string{"by name"}}},
		"extra_1": {{Speaker: "Kevin", Lines: []string{"by type"}}},
	})
	frames, ok := lib.Resolve("Anna", "extra_1")
	require.True(t, ok)
	assert.Equal(t, "by name", frames[0].Text)

	frames, ok = lib.Resolve("Zed", "extra_1")
	require.True(t, ok)
	assert.Equal(t, "by type", frames[0].Text)

	_, ok = lib.Resolve("Zed", "extra_9")
	assert.False(t, ok)
}

func TestFlattenOneFramePerLine(t *testing.T) {
	frames := Flatten([]Page{
		{Speaker: "Tom", Lines: []string{"a", "b"}, Avatar: "tom.png"},
		{Speaker: "Bob", Lines: []string{"c"}},
	})
	assert.Equal(t, []Frame{
		{Speaker: "Tom", Text: "a", Avatar: "tom.png"},
		{Speaker: "Tom", Text: "b", Avatar: "tom.png"},
		{Speaker: "Bob", Text: "c"},
	}, frames)
}

func TestParseLibraryAcceptsJSON(t *testing.T) {
	data := []byte(`{"scripts": {"Mike": [{"speaker": "Mike", "lines": ["Cheers!"]}]}}`)
	lib, err := ParseLibrary(data)
	require.NoError(t, err)
	frames, ok := lib.Resolve("mike")
	require.False(t, ok)
	frames, ok = lib.Resolve("Mike")
	require.True(t, ok)
	assert.Equal(t, "Cheers!", frames[0].Text)
}

func TestParseLibraryRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"empty":         ``,
		"missing lines": "scripts:\n  x:\n    - speaker: A\n",
		"empty lines":   "scripts:\n  x:\n    - speaker: A\n      lines: []\n",
		"wrong type":    "scripts:\n  x: hello\n",
		"no scripts":    "other: 1\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseLibrary([]byte(doc))
			require.Error(t, err)
			oopsErr, ok := oops.AsOops(err)
			require.True(t, ok)
			assert.Equal(t, "DIALOG_SCHEMA_INVALID", oopsErr.Code())
		})
	}
}

func TestLoadLibraryAndMerge(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dialogs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scripts:\n  extra_3:\n    - speaker: Sarah\n      lines: [\"Ski season!\"]\n"), 0o600))

	override, err := LoadLibrary(path)
	require.NoError(t, err)

	lib := DefaultLibrary()
	before := lib.Len()
	lib.Merge(override)
	assert.Equal(t, before, lib.Len())

	frames, ok := lib.Resolve("extra_3")
	require.True(t, ok)
	assert.Equal(t, []Frame{{Speaker: "Sarah", Text: "Ski season!"}}, frames)
}

func TestLoadLibraryMissingFile(t *testing.T) {
	_, err := LoadLibrary(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok)
	assert.Equal(t, "DIALOG_READ_FAILED", oopsErr.Code())
}

func TestGenerateSchema(t *testing.T) {
	data, err := GenerateSchema()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, SchemaID, doc["$id"])
	assert.Equal(t, "Dialog Scripts", doc["title"])
	assert.Contains(t, string(data), `"speaker"`)
}
