/*
Package factory maps module names to their port layout and constructor,
and drives a module.Builder to produce executable instances.

Lookup is an exact-name table: no two entries can match the same name and
the registration order does not matter. Unknown names are not an error;
they yield a portless description without a maker, which builds into a
placeholder module.
*/
package factory
