// Package changelog models a "Keep a Changelog" style Markdown document.
//
// This package implements:
//   - Version parsing and ordering (strict semver plus partial "24.04" forms)
//   - A backtracking parser from Markdown text to the ChangeLog model
//   - A deterministic formatter from the model back to Markdown
//   - A sanitizer that deduplicates, prunes and reorders release notes
//   - Release lifecycle operations: promotion, dev-version merging and
//     nth-release addressing
//
// The package performs no I/O beyond the Load helpers and never logs.
// Collaborators that need the network or a git repository (tag lookup,
// release and diff links) are passed in through small interfaces.
package changelog
