package trellis

import "regexp"

// Import extraction is purely textual. No expression evaluation happens
// here: template-literal paths, computed requires, and import strings that
// occur inside comments are accepted noise. The narrow extractImportTargets
// surface exists so a real parser could replace the regexes without
// touching resolution.

var importPatterns = []*regexp.Regexp{
	// import defaultExport from '...'; import { a, b } from '...';
	// import * as ns from '...'; export { x } from '...'; export * from '...'
	regexp.MustCompile(`(?m)^\s*(?:import|export)\s+[\w*\s{},$]*?\s*from\s+['"]([^'"]+)['"]`),
	// side-effect import: import '...'
	regexp.MustCompile(`(?m)^\s*import\s+['"]([^'"]+)['"]`),
	// CommonJS: require('...')
	regexp.MustCompile(`require\(\s*['"]([^'"]+)['"]\s*\)`),
	// dynamic: import('...')
	regexp.MustCompile(`import\(\s*['"]([^'"]+)['"]\s*\)`),
	// stylesheet: @import '...'; @import url('...'); @use '...'
	regexp.MustCompile(`@(?:import|use)\s+(?:url\(\s*)?['"]?([^'")\s;]+)['"]?`),
}

// extractImportTargets returns every raw import target found in text, in
// document order per pattern category, duplicates removed while keeping the
// first occurrence.
func extractImportTargets(text string) []string {
	var targets []string
	seen := make(map[string]bool)
	for _, re := range importPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			t := m[1]
			if t == "" || seen[t] {
				continue
			}
			seen[t] = true
			targets = append(targets, t)
		}
	}
	return targets
}
