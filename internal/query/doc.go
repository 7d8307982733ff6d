// Package query maps list view search state to and from its address bar
// form.
//
// Params is the typed search state. Decode and Encode convert it to the
// query string that is the single shareable representation of a view:
//
//	p := query.Decode("?status=alive&page=2")
//	query.Encode(p) // "status=alive&page=2"
//
// Encode omits every field that equals its default, so two parameter sets
// that differ only in default-equivalent fields encode identically and
// Encode(Decode(Encode(p))) == Encode(p).
//
// Patch and Apply implement the update rule of the filter controls: changing
// any filter resets the page, changing the page or sort does not.
//
// History models the address bar itself. Query changes use Replace, real
// navigations (opening a detail view) use Push.
package query
