// Package output renders failure reports and the end-of-run summary.
//
// Failure reports go through a mutex-guarded Sink, one line per
// failure, so output from parallel files may interleave between lines
// but never within one. The summary has a fixed shape and is printed
// once after the worker pool drains.
package output
