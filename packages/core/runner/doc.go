// Package runner executes httpspec test files.
//
// A Runner drives one file at a time through parse, execute and
// evaluate. Requests inside a file run strictly in source order and
// stop at the first request with a failing assertion; parse and
// transport errors classify the whole file invalid. Every file
// contributes exactly one outcome to the shared tally.
package runner
