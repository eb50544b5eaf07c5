// Package trellis provides heuristic static analysis of JavaScript and
// TypeScript workspaces: an intra-workspace file dependency graph built from
// textual import statements, technology-stack detection from manifest and
// marker files, and an evidence-weighted completion score for named
// development phases.
//
// Trellis is deliberately not a compiler front-end. Import targets are
// extracted with regular expressions and resolved with alias-aware,
// extension-probing heuristics; misses on exotic syntax and the occasional
// false hit inside strings or comments are accepted behavior, not defects.
//
// # Pipeline
//
// A single [Engine.Analyze] call runs the full pipeline:
//
//  1. Discover: enumerate workspace files (vendor and build trees excluded,
//     capped at a fixed count) and classify each as source, test, config,
//     style, asset, or other.
//
//  2. Build: load the path-alias table from the nearest compiler
//     configuration, extract import targets from every source and style
//     file, and resolve them into a bidirectional dependency graph. The
//     graph is constructed privately and published atomically on completion.
//
//  3. Detect: classify the technology stack (framework, CSS, ORM, state
//     management, bundler, tests, auth, deployment) from the package
//     manifest and marker-file existence.
//
// The resulting [Analysis] snapshot is cached for a short TTL keyed by
// workspace identity; a hit short-circuits the whole pipeline.
//
// # Scoring
//
// [ScorePhase] maps a phase title to a rubric of weighted checks and
// evaluates them against the snapshot, producing a 0-100 score, a lifecycle
// status, and human-readable evidence and missing-item lists. Scoring is a
// pure function of its inputs; callers persist results themselves.
//
// # Usage
//
//	e, err := trellis.New("path/to/workspace")
//	if err != nil { ... }
//
//	a, err := e.Analyze(ctx)
//	deps := a.Dependencies("src/services/auth.ts")
//	res := trellis.ScorePhase("Tests & Qualité", a.ScoreInput())
package trellis
