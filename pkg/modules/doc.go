// Package modules groups the built-in module implementations.
//
// Each subpackage exports, per module, its LookupInfo, its port layout and
// a module.Maker. The factory table in pkg/factory wires them together.
package modules
