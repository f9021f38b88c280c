// Package state syncs workflow state drafts.
//
// Transitions point to other states. A state whose transition targets do not exist yet
// waits for them in the deferred store.
package state
