package keypad_test

import (
	"testing"

	"github.com/PixPMusic/gopher-keypad/internal/keypad"
	"github.com/stretchr/testify/require"
)

func TestKeyIndexMapper(t *testing.T) {
	t.Run("round trips every slot and index", func(t *testing.T) {
		mappers := map[string]*keypad.KeyIndexMapper{
			"identity": keypad.IdentityMapper(),
			"rotate90": keypad.Rotate90Mapper(),
		}
		custom, err := keypad.NewKeyIndexMapper([]int{15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0})
		require.NoError(t, err)
		mappers["reversed"] = custom

		for name, m := range mappers {
			for s := 0; s < keypad.NumKeys; s++ {
				idx, ok := m.LogicalOf(s)
				require.True(t, ok, name)
				back, ok := m.PhysicalOf(idx)
				require.True(t, ok, name)
				require.Equal(t, s, back, name)

				slot, _ := m.PhysicalOf(s)
				again, _ := m.LogicalOf(slot)
				require.Equal(t, s, again, name)
			}
		}
	})

	t.Run("rotate90 matches the rotated pad layout", func(t *testing.T) {
		m := keypad.Rotate90Mapper()
		want := []int{3, 7, 11, 15, 2, 6, 10, 14, 1, 5, 9, 13, 0, 4, 8, 12}
		for idx, slot := range want {
			got, ok := m.PhysicalOf(idx)
			require.True(t, ok)
			require.Equal(t, slot, got, "logical %d", idx)
		}
		idx, _ := m.LogicalOf(0)
		require.Equal(t, 12, idx)
	})

	t.Run("rejects a duplicate target", func(t *testing.T) {
		perm := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 14}
		m, err := keypad.NewKeyIndexMapper(perm)
		require.Error(t, err)
		require.True(t, keypad.IsConfigError(err))
		require.Nil(t, m)
	})

	t.Run("rejects out of range and short tables", func(t *testing.T) {
		_, err := keypad.NewKeyIndexMapper([]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 16})
		require.True(t, keypad.IsConfigError(err))

		_, err = keypad.NewKeyIndexMapper([]int{0, 1, 2})
		require.True(t, keypad.IsConfigError(err))
	})

	t.Run("lookups outside the pad report not found", func(t *testing.T) {
		m := keypad.IdentityMapper()
		_, ok := m.LogicalOf(16)
		require.False(t, ok)
		_, ok = m.PhysicalOf(-1)
		require.False(t, ok)
	})

	t.Run("parses presets", func(t *testing.T) {
		m, err := keypad.ParseRemap("Rotate90")
		require.NoError(t, err)
		require.Equal(t, keypad.Rotate90Mapper().Table(), m.Table())

		_, err = keypad.ParseRemap("rotate180")
		require.True(t, keypad.IsConfigError(err))
	})
}

func TestNoteMapper(t *testing.T) {
	t.Run("round trips every index", func(t *testing.T) {
		for _, base := range []int{0, 36, 112} {
			n, err := keypad.NewNoteMapper(base)
			require.NoError(t, err)
			for i := 0; i < keypad.NumKeys; i++ {
				got, ok := n.IndexOf(n.NoteOf(i))
				require.True(t, ok)
				require.Equal(t, i, got)
			}
		}
	})

	t.Run("notes outside the block are not found", func(t *testing.T) {
		n, err := keypad.NewNoteMapper(36)
		require.NoError(t, err)
		for _, note := range []uint8{0, 35, 52, 127} {
			_, ok := n.IndexOf(note)
			require.False(t, ok, "note %d", note)
		}
	})

	t.Run("rejects base notes that overflow the MIDI range", func(t *testing.T) {
		_, err := keypad.NewNoteMapper(113)
		require.True(t, keypad.IsConfigError(err))
		_, err = keypad.NewNoteMapper(-1)
		require.True(t, keypad.IsConfigError(err))
	})
}

func TestChannel(t *testing.T) {
	all, err := keypad.ParseChannel("all")
	require.NoError(t, err)
	require.True(t, all.Matches(0))
	require.True(t, all.Matches(15))
	require.Equal(t, uint8(0), all.Out())

	one, err := keypad.ParseChannel("1")
	require.NoError(t, err)
	require.True(t, one.Matches(1))
	require.False(t, one.Matches(0))
	require.Equal(t, uint8(1), one.Out())

	_, err = keypad.ParseChannel("16")
	require.True(t, keypad.IsConfigError(err))
	_, err = keypad.ParseChannel("bus")
	require.True(t, keypad.IsConfigError(err))
}
