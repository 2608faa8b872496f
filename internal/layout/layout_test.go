package layout

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jfarcand/mirroir-mcp-sub002/internal/hidreport"
)

func TestUSANSIDirectAndShifted(t *testing.T) {
	table := USANSI()

	h, ok := table.Lookup('h')
	require.True(t, ok)
	require.Len(t, h.Steps, 1)
	require.Equal(t, uint16(0x0b), h.Steps[0].Keycode)
	require.Equal(t, hidreport.ModifierSet(0), h.Steps[0].Modifiers)
	require.False(t, h.DeadKey)

	upper, ok := table.Lookup('H')
	require.True(t, ok)
	require.Equal(t, uint16(0x0b), upper.Steps[0].Keycode)
	require.Equal(t, shift, upper.Steps[0].Modifiers)

	bang, ok := table.Lookup('!')
	require.True(t, ok)
	require.Equal(t, uint16(0x1e), bang.Steps[0].Keycode)
	require.Equal(t, shift, bang.Steps[0].Modifiers)

	_, ok = table.Lookup('é')
	require.False(t, ok)
}

func TestLoadTableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	content := `{
		"a": {"steps": [{"keycode": 4}]},
		"é": {"dead_key": true, "steps": [{"keycode": 8, "modifiers": 64}, {"keycode": 8}]}
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	table, err := Load(path)
	require.NoError(t, err)

	acute, ok := table.Lookup('é')
	require.True(t, ok)
	require.True(t, acute.DeadKey)
	require.Len(t, acute.Steps, 2)
	require.Equal(t, hidreport.ModifierSet(hidreport.ModifierRightOption), acute.Steps[0].Modifiers)
}

func TestLoadTableRejectsBadKeys(t *testing.T) {
	dir := t.TempDir()

	multi := filepath.Join(dir, "multi.json")
	require.NoError(t, os.WriteFile(multi, []byte(`{"ab": {"steps": [{"keycode": 4}]}}`), 0o600))
	_, err := Load(multi)
	require.Error(t, err)
	require.Contains(t, err.Error(), "not a single character")

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`{"a": {"steps": []}}`), 0o600))
	_, err = Load(empty)
	require.Error(t, err)
	require.Contains(t, err.Error(), "no steps")
}

func TestKeyByName(t *testing.T) {
	keycode, ok := KeyByName("Return")
	require.True(t, ok)
	require.Equal(t, KeyReturn, keycode)

	keycode, ok = KeyByName("a")
	require.True(t, ok)
	require.Equal(t, uint16(0x04), keycode)

	_, ok = KeyByName("hyperspace")
	require.False(t, ok)
}

func TestParseModifiers(t *testing.T) {
	set, err := ParseModifiers([]string{"command", "Shift"})
	require.NoError(t, err)
	require.True(t, set.Has(hidreport.ModifierLeftCommand))
	require.True(t, set.Has(hidreport.ModifierLeftShift))

	_, err = ParseModifiers([]string{"hyper"})
	require.Error(t, err)
}
