package board

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Serialization helpers for handing a snapshot to the planning step.
//
// Keys are "<id>_<tags>" so that a reader (human or model) can see both the
// stable identity and the role of each top-level entry.

// entryKey returns the "<id>_<sorted tags>" key for a top-level item.
func entryKey(item *Item) string {
	return fmt.Sprintf("%s_%s", item.ID, item.Tags.String())
}

// ToMap returns every root item's subtree keyed by entryKey.
func (s *Snapshot) ToMap() map[string]any {
	out := make(map[string]any, len(s.roots))
	for _, root := range s.roots {
		out[entryKey(root)] = root.ToMap()
	}
	return out
}

// ChatsToMap returns every chat frame's subtree keyed by entryKey.
func (s *Snapshot) ChatsToMap() map[string]any {
	chats := s.ChatFrames()
	out := make(map[string]any, len(chats))
	for _, chat := range chats {
		out[entryKey(chat)] = chat.ToMap()
	}
	return out
}

// ChatText renders one chat frame as "<prompt>\nUser: <response>".
// A chat frame's children are, in order: the agent prompt text, the
// "User:" label and the response shape. Missing children read as empty.
func ChatText(chat *Item) string {
	children := chat.Children()
	prompt, response := "", ""
	if len(children) > 0 {
		prompt = children[0].Content()
	}
	if len(children) > 2 {
		response = children[2].Content()
	}
	return fmt.Sprintf("%s\nUser: %s", prompt, response)
}

// ChatStateJSON serialises every chat frame's prompt/response pair as an
// indented JSON object, the textual input to the decision step.
// Keys are sorted, so equal boards serialise identically.
func (s *Snapshot) ChatStateJSON() (string, error) {
	state := map[string]string{}
	for _, chat := range s.ChatFrames() {
		state[entryKey(chat)] = ChatText(chat)
	}

	// Content is HTML-flavoured; keep it readable rather than \u003c-escaped.
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(state); err != nil {
		return "", fmt.Errorf("failed to marshal chat state: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
