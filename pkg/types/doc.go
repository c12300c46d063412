// Package types defines the Store and Table interfaces, the document and
// record types, and the standard errors for the walkcat catalogue.
package types
