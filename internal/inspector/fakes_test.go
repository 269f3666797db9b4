package inspector

import (
	"github.com/dshills/scenepanel/internal/command"
	"github.com/dshills/scenepanel/internal/scene"
	"github.com/dshills/scenepanel/internal/value"
)

type write struct {
	id  WidgetID
	v   value.Value
	dir Direction
}

// recordingUI is a UI and Builder that remembers every write.
type recordingUI struct {
	next    WidgetID
	values  map[WidgetID]value.Value
	visible map[WidgetID]bool
	writes  []write
}

func newRecordingUI() *recordingUI {
	return &recordingUI{
		values:  make(map[WidgetID]value.Value),
		visible: make(map[WidgetID]bool),
	}
}

func (u *recordingUI) Container(string) WidgetID {
	u.next++
	return u.next
}

func (u *recordingUI) Field(WidgetID, FieldSpec) WidgetID {
	u.next++
	return u.next
}

func (u *recordingUI) SetValue(id WidgetID, v value.Value, dir Direction) {
	u.values[id] = v
	u.writes = append(u.writes, write{id, v, dir})
}

func (u *recordingUI) SetVisible(id WidgetID, visible bool) {
	u.visible[id] = visible
}

func (u *recordingUI) snapshot() (map[WidgetID]value.Value, map[WidgetID]bool) {
	vals := make(map[WidgetID]value.Value, len(u.values))
	for k, v := range u.values {
		vals[k] = v
	}
	vis := make(map[WidgetID]bool, len(u.visible))
	for k, v := range u.visible {
		vis[k] = v
	}
	return vals, vis
}

type recordingSink struct {
	sent []command.Command
	err  error
}

func (s *recordingSink) Send(cmd command.Command) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, cmd)
	return nil
}

type fixedSelection struct {
	h  scene.Handle
	ok bool
}

func (s *fixedSelection) Selected() (scene.Handle, bool) { return s.h, s.ok }
