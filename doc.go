// Package ahocorasick implements multi-pattern string search over UTF-8
// text using the Aho-Corasick algorithm.
//
// Build an automaton once with Builder (or Build), then drive it over
// input with Run (case-sensitive) or RunLower / RunLowerFull
// (case-folding, for automatons built from already-lowercased needles).
// A PackedAutomaton is immutable after Build and safe to share across
// concurrent Run calls; Builder itself is not safe for concurrent use.
package ahocorasick
