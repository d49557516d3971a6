// Package document defines instruction documents, their tiers, and the
// event types they can be restricted to.
package document
