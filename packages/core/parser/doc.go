// Package parser turns httpspec test files into request records.
//
// Input is line-oriented: each line is trimmed and classified as a
// block separator (###), an assertion (//#), a comment (# or //), a
// request line, a header, or a body line, driven by a small per-block
// state machine.
//
// The parser handles:
//   - HTTP request definitions (method, URL, protocol version, headers, body)
//   - Block separators with optional names (### smoke test)
//   - Inline assertions (//# status == 200)
package parser
