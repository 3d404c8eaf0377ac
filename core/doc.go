// Package core provides the foundational domain types shared across
// runbound. It defines:
//
//   - Usage (token consumption reported by model providers)
//   - Content / Part (minimal role-based conversation segments)
//   - Event (immutable audit records, including limit violations)
//   - Transcript (append-only audit sink carried on the context)
//
// The package intentionally keeps implementation concerns (model providers,
// limit enforcement, agent orchestration) out of scope, exposing small types
// so higher layers can compose them freely.
package core
