// Package webkb turns a website into a queryable knowledge base. It crawls
// pages under policy constraints, builds a directed link graph, deduplicates
// near-identical content, and retrieves and ranks indexed chunks to answer
// natural-language questions.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, openai/).
package webkb
