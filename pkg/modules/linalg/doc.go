// Package linalg holds the matrix evaluation and reporting modules.
package linalg
