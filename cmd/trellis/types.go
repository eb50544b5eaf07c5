package main

// CLIResult is the top-level JSON envelope for all commands.
type CLIResult struct {
	Command string `json:"command"`
	Results any    `json:"results"`
	Error   string `json:"error,omitempty"`
}

// CLISummary is a JSON-friendly analysis overview.
type CLISummary struct {
	Root       string            `json:"root"`
	TotalFiles int               `json:"total_files"`
	Files      map[string]int    `json:"files_by_kind"`
	Edges      int               `json:"import_edges"`
	Signals    map[string]string `json:"signals"`
}

// CLIFileList is a list of workspace-relative paths.
type CLIFileList struct {
	Files []string `json:"files"`
}

// CLIPhase is a JSON-friendly scored phase.
type CLIPhase struct {
	Title    string   `json:"title"`
	Category string   `json:"category"`
	Score    int      `json:"score"`
	Status   string   `json:"status"`
	Evidence []string `json:"evidence,omitempty"`
	Missing  []string `json:"missing,omitempty"`
	AIScore  *int     `json:"ai_score,omitempty"`
}
