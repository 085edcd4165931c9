// Package admin holds the controller behind the post administration screen.
//
// The controller owns the modal selection (action, target id, open and
// submitting flags), fetches the selected post, runs create/update/delete
// mutations against a store.PostStore and derives plain view models from
// that state: the modal's form configuration, the table column set and the
// breadcrumb. Rendering is left to the caller; pkg/console is the terminal
// renderer.
//
// Asynchronous work is returned as tea.Cmd values. Their results come back
// through Update as PostFetchedMsg and MutationSettledMsg, so all state
// changes happen on the caller's event loop:
//
//	cmd := ctrl.Open(admin.ActionView, id) // fetches the post
//	...
//	case admin.PostFetchedMsg, admin.MutationSettledMsg:
//	    return m, ctrl.Update(msg)
package admin
