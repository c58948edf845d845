// Package history persists finished runs in a SQLite database so earlier
// results, seeds and outputs can be listed with `reelcut history`.
package history
