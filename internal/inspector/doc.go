// Package inspector connects editable fields to scene nodes.
//
// Data flows in two directions that never trigger each other:
//
//   - Model to UI. SyncEngine asks every Section to show or hide itself for
//     the selected node and writes each field's current value into its
//     widget, tagged ToWidget.
//   - UI to model. EditRouter takes a FromWidget ChangeNotification, finds
//     the Section and FieldBinding owning the widget, and compares the new
//     value with the node's current value. Only a different value becomes a
//     Command, and the Command goes to the sink; the router never touches
//     the node or the UI.
//
// Echoes of programmatic writes are harmless: they either carry ToWidget
// and are ignored, or carry a value equal to the model and are dropped by
// the equality check.
//
// # Sections
//
// A Section groups the fields for one aspect of a node and is visible only
// for the variants its predicate accepts:
//
//	b := ui.NewStore()
//	panel := inspector.NewPanel(b, sink.Sender(), selection, graph)
//	panel.Register(inspector.DefaultSections(b)...)
//	panel.Sync()
//
// A widget id belongs to at most one Section; Register enforces this.
package inspector
