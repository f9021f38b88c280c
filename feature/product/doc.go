// Package product syncs product drafts.
//
// A product references its product type, its categories, a tax category and a workflow
// state. Attribute values shaped like {"typeId":"product","key":"..."} (alone or in an
// array) reference other products; those are sibling references and drafts waiting for
// them can be deferred.
package product
