// Package douban provides a thin HTTP client for the Douban movie catalog.
//
// The client returns raw response bodies so the cache layer can persist the
// upstream payload exactly once and decode it on every subsequent lookup.
// Typed payload structs model only the fields kinocache consumes; any other
// upstream field passes through the cache untouched.
package douban
