// Package storage turns a raw storage-format payload into an element tree.
//
// The payload goes through three steps before any rendering happens:
//   - entity normalization (HTML named references become numeric references)
//   - namespace wrapping (undeclared ac:/ri: prefixes get synthetic declarations)
//   - strict XML parsing into an immutable Node tree
//
// Load chains all three. A parse failure is reported as a *ParseError and no
// tree is returned.
package storage
