// Package resolver maps manifest group keys to source media files in a flat
// directory by prefix and suffix name matching.
package resolver
