// Package failure defines the error taxonomy shared by every stage of a cut
// run and the helpers used to tag and classify errors.
package failure
