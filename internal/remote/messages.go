// Package remote serves the inspector over a websocket.
//
// Remote clients receive the visible sections and their field values and
// send edits, undo, redo and selection requests. Requests are handed to
// the application loop over a channel; remote code never touches widget
// state or the scene directly.
package remote

import "encoding/json"

// Client message types.
const (
	TypeEdit   = "edit"
	TypeUndo   = "undo"
	TypeRedo   = "redo"
	TypeSelect = "select"
	TypePing   = "ping"
)

// Server message types.
const (
	TypeState   = "state"
	TypeCommand = "command"
	TypeAck     = "ack"
	TypeError   = "error"
	TypePong    = "pong"
)

// ClientMessage is the envelope for client-to-server messages.
type ClientMessage struct {
	Type string          `json:"type"`
	ID   string          `json:"id"`
	Data json.RawMessage `json:"data,omitempty"`
}

// EditData is the payload for "edit" messages.
type EditData struct {
	Section string `json:"section"`
	Label   string `json:"label"`
	Value   string `json:"value"`
}

// SelectData is the payload for "select" messages.
type SelectData struct {
	Node string `json:"node"`
}

// ServerMessage is the envelope for server-to-client messages.
type ServerMessage struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id,omitempty"`
	Data      any    `json:"data,omitempty"`
}

// StateData describes what the inspector currently shows.
type StateData struct {
	Selection string        `json:"selection,omitempty"`
	Kind      string        `json:"kind,omitempty"`
	Sections  []SectionData `json:"sections"`
	Undo      string        `json:"undo,omitempty"`
	Redo      string        `json:"redo,omitempty"`
}

// SectionData is one visible section.
type SectionData struct {
	Title  string      `json:"title"`
	Fields []FieldData `json:"fields"`
}

// FieldData is one field of a visible section.
type FieldData struct {
	ID    uint32  `json:"id"`
	Label string  `json:"label"`
	Kind  string  `json:"kind"`
	Value string  `json:"value"`
	Min   float32 `json:"min,omitempty"`
	Max   float32 `json:"max,omitempty"`
	Step  float32 `json:"step,omitempty"`
}

// ErrorData carries a request failure.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
