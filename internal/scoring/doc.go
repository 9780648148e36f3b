// Package scoring turns a respondent's raw answers into a classification on
// the frequency and profile axes of a tenant framework.
//
// Every function in this package is pure: inputs are fully loaded in memory,
// nothing is read from or written to external systems, and identical inputs
// always produce identical results. Malformed answers and unknown category
// references never fail a scoring pass; they are skipped and reported as
// DroppedContribution values for the caller to log.
package scoring
