// Package model defines the minimal model abstraction driven by agent
// loops, plus a mock implementation for tests and examples. Provider
// adapters live in the subpackages anthropic and openai; every
// implementation records its token usage against the active token budgets
// and checks them before returning.
package model
