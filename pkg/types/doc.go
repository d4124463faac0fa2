// Package types defines the entity types, collection names, Store
// interface, and standard errors for the Daybook storage core.
package types
