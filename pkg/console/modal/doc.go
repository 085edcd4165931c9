// Package modal provides declarative modal dialogs for the post admin
// screen.
//
// A modal is a title plus a stack of sections. Sections that can take focus
// (buttons, lists) register focusable ids when rendered; Tab and Shift+Tab
// cycle between them, Enter triggers the focused one and Esc cancels.
//
//	m := modal.New("Delete Post", modal.WithVariant(modal.VariantDanger)).
//	    AddSection(modal.Text("Delete \"Hello\"? This cannot be undone.")).
//	    AddSection(modal.Spacer()).
//	    AddSection(modal.Buttons(
//	        modal.Btn(" Delete ", "delete", modal.BtnDanger()),
//	        modal.Btn(" Cancel ", "cancel"),
//	    ))
//
//	// In View():
//	content := m.Render(screenW, screenH)
//
//	// In Update():
//	switch action, _ := m.HandleKey(keyMsg); action {
//	case "delete":
//	    return m, ctrl.TriggerDelete()
//	case "cancel":
//	    ctrl.Close()
//	}
//
// Sections: Text, Spacer, Buttons, List and Custom.
package modal
