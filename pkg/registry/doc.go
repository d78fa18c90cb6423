// Package registry provides a generic, type-safe registry system
// for managing content processors. It supports automatic
// registration through init() functions.
package registry
