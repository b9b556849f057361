// Package assertions evaluates parsed assertions against a response.
//
// Supported projections:
//   - Status code as decimal text (//# status == 200)
//   - Raw body bytes (//# body contains "ok")
//   - Named header values (//# header["content-type"] starts_with text/)
//
// Evaluation never aborts: every assertion of a request is checked and
// each mismatch becomes a structured Failure with a reason tag, the
// expected literal and the projected actual value.
package assertions
