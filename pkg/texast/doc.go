// Package texast provides the core token representation for texoutline.
// It defines a lossless view of a markup source:
//   - Token: a typed span of the source, possibly with nested tokens
//   - BibEntry: a parsed bibliography entry
//   - TokenInfo: an owned per-token kind and byte range table used for
//     highlighting, line mapping and differencing
//
// Tokens reference the source by byte offsets; the source string itself is
// held once by the caller, so lexing never copies text per token.
package texast
