// Package state provides the default ModuleState implementation, its
// factory, typed decoding and the serialization codecs used to persist
// module parameters.
package state
