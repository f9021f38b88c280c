// Package category syncs category drafts.
//
// Categories form a tree through their parent reference. A parent that does not exist yet
// is a sibling reference, so a child can be deferred until its parent is created later in
// the same run or in a later one.
package category
