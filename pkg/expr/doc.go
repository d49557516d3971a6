// Package expr provides the CEL environment used by instruction document
// match expressions.
//
// Match expressions have access to variables:
//   - `path` (string): The edited file path, relative to the project root
//   - `event` (string): The interaction event type
//
// Expressions must return a boolean value.
package expr
