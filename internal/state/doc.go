// Package state holds the published state of the list and detail views.
//
// The search orchestrator and the detail loader are the only writers. They
// publish a complete snapshot once per transition (Loading, then Ready or
// Failed), never a partial one. The UI and the CLI are readers:
//
//	store := &state.Store{}
//	...
//	snap := store.Snapshot()
//	switch snap.List.Phase {
//	case state.Loading:
//		renderSpinner()
//	case state.Failed:
//		renderError(snap.List.Err)
//	case state.Ready:
//		renderResults(snap.List.Page.Results)
//	}
//
// Snapshot returns deep copies, so a reader can hold on to one while new
// results are published. ListVersion and DetailVersion count publishes and
// let readers cheaply tell whether anything changed.
//
// ConsecutiveFailures counts Failed list publishes since the last Ready one;
// the UI uses it to flag an unreachable API.
package state
