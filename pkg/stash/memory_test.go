package stash

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStashPutGet(t *testing.T) {
	m := NewMemoryStash()
	require.NoError(t, m.Put(KeyAliases, json.RawMessage(`[{"alias":"a1"}]`)))

	v, ok, err := m.Get(KeyAliases)
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `[{"alias":"a1"}]`, string(v))

	_, ok, err = m.Get(KeySettings)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStashLastWriterWins(t *testing.T) {
	m := NewMemoryStash()
	require.NoError(t, m.Put(KeySettings, json.RawMessage(`{"v":1}`)))
	require.NoError(t, m.Put(KeySettings, json.RawMessage(`{"v":2}`)))

	v, ok, err := m.Get(KeySettings)
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `{"v":2}`, string(v))
}

func TestMemoryStashCopiesValues(t *testing.T) {
	m := NewMemoryStash()
	buf := []byte(`{"v":1}`)
	require.NoError(t, m.Put(KeySettings, buf))
	buf[5] = '9'

	v, _, err := m.Get(KeySettings)
	require.NoError(t, err)
	require.JSONEq(t, `{"v":1}`, string(v))
}

func TestMemoryStashKeysSorted(t *testing.T) {
	m := NewMemoryStash()
	require.NoError(t, m.Put(KeySettings, json.RawMessage(`{}`)))
	require.NoError(t, m.Put(KeyAliases, json.RawMessage(`[]`)))
	require.NoError(t, m.Put(KeyIndexTemplates, json.RawMessage(`{}`)))

	keys, err := m.Keys()
	require.NoError(t, err)
	require.Equal(t, []string{KeyAliases, KeyIndexTemplates, KeySettings}, keys)
}
