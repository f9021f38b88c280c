// Package taxcategory syncs tax category drafts. Rates are matched by country and state.
package taxcategory
