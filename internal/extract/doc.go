// Package extract opens each resolved source once and trims every requested
// range from it. A failed trim only affects its own cut.
package extract
