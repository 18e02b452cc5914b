// Package form holds the account form state (name, age, profile picture), the
// fixed rule set applied on submit, and the per-field validation result.
//
// State is a plain value with three slots. Validate never mutates it and never
// touches the network, so the same state always yields an equal result.
package form
