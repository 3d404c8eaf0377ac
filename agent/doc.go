// Package agent provides budget-aware execution coordinators.
//
// Loop drives a conversation with a model under a set of limits, polling
// the cooperative budgets as messages accumulate. Parallel forks several
// loops as concurrent branches, each with its own isolated limit scopes
// while budgets applied above the fork stay shared.
package agent
