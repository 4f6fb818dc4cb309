// Package basic holds the scalar and test-matrix sender/receiver modules.
package basic
