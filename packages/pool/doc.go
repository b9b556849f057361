// Package pool schedules per-file test work across a bounded set of
// workers and keeps the shared outcome tally.
package pool
