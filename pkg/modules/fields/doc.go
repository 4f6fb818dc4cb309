// Package fields holds the mesh/field modules.
package fields
