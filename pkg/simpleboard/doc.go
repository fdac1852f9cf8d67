// Package simpleboard is a content authoring and delivery library for
// board-style content services.
//
// It provides:
//   - Domain types for boards, posts, comments and informational content pages
//   - Capability-scoped client interfaces (read vs. moderate) over the
//     persistence API, plus tolerant response-envelope decoding
//   - Attachment path normalization into fetchable download URLs
//   - Board code resolution (human-facing code -> current numeric id)
//   - A detail service that retrieves a post and its comments through two
//     independent identity contexts and reconciles their lifecycles
//
// The rich-document model and converter live in the document subpackage.
// HTTP implementations of the client interfaces live in the client
// subpackage. Server-side pieces (repositories, blob storage, chi handlers)
// back the standalone server in cmd/server and the integration tests.
package simpleboard
