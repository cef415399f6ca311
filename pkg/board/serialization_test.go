package board

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotToMap(t *testing.T) {
	snap := Build(marketingRaws(), marketingMappings())

	m := snap.ToMap()
	require.Len(t, m, 3)
	require.Contains(t, m, "f-seg_Segments")
	require.Contains(t, m, "c-seg_Segments Chat")
	require.Contains(t, m, "loose_")

	frame := m["f-seg_Segments"].(map[string]any)
	assert.Equal(t, "f-seg", frame["id"])
	assert.Equal(t, "frame", frame["type"])
	assert.Equal(t, "Segments", frame["tags"])
	children := frame["children"].([]map[string]any)
	require.Len(t, children, 2)
	assert.Equal(t, "n1", children[0]["id"])

	_, err := json.Marshal(m)
	assert.NoError(t, err)
}

func TestChatsToMap(t *testing.T) {
	snap := Build(marketingRaws(), marketingMappings())

	m := snap.ChatsToMap()
	assert.Len(t, m, 1)
	assert.Contains(t, m, "c-seg_Segments Chat")
}

func TestChatText(t *testing.T) {
	snap := Build(marketingRaws(), marketingMappings())

	assert.Equal(t,
		"<p><strong>Agent: </strong></p>Pick a segment\nUser: the first one",
		ChatText(snap.Get("c-seg")))

	empty := Build([]RawItem{raw("c", ItemTypeFrame, "", "")}, nil)
	assert.Equal(t, "\nUser: ", ChatText(empty.Get("c")))
}

func TestChatStateJSON(t *testing.T) {
	snap := Build(marketingRaws(), marketingMappings())

	out, err := snap.ChatStateJSON()
	require.NoError(t, err)

	assert.Contains(t, out, "<strong>", "html must not be escaped")

	var decoded map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, map[string]string{
		"c-seg_Segments Chat": "<p><strong>Agent: </strong></p>Pick a segment\nUser: the first one",
	}, decoded)

	again, err := Build(marketingRaws(), marketingMappings()).ChatStateJSON()
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestChatStateJSON_NoChats(t *testing.T) {
	out, err := Build(nil, nil).ChatStateJSON()
	require.NoError(t, err)
	assert.Equal(t, "{}", out)
}

func TestTagSetJSON(t *testing.T) {
	tags := NewTagSet("b", "a")

	data, err := json.Marshal(tags)
	require.NoError(t, err)
	assert.Equal(t, `["a","b"]`, string(data))

	var decoded TagSet
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, decoded.Equal(tags))
}
