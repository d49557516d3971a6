// Package pattern implements glob-based applicability patterns for
// instruction documents.
package pattern
