// Package resolve implements the layered instruction resolution engine:
// candidate selection, precedence ordering, budget allocation, and
// deterministic composition of instruction documents into a single context.
package resolve
