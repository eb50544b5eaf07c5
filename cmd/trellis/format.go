package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"
)

// outputResult marshals a CLIResult to stdout in the selected format.
func outputResult(result CLIResult) error {
	if flagFormat == "text" {
		return outputResultText(result)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// outputError writes an error in the selected format and returns it so RunE
// propagates a non-zero exit.
func outputError(command string, err error) error {
	errorHandled = true
	if flagFormat == "text" {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return err
	}
	result := CLIResult{
		Command: command,
		Error:   err.Error(),
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(result)
	return err
}

// outputResultText dispatches to the appropriate text formatter based on
// the result payload type.
func outputResultText(result CLIResult) error {
	w := io.Writer(os.Stdout)

	switch v := result.Results.(type) {
	case CLISummary:
		formatSummaryText(w, v)
	case CLIFileList:
		formatFileListText(w, v)
	case []CLIPhase:
		formatPhasesText(w, v)
	case nil:
		// No output for nil results.
	default:
		return fmt.Errorf("unsupported result type for text format: %T", v)
	}
	return nil
}

// formatSummaryText prints the analysis overview as readable text.
func formatSummaryText(w io.Writer, s CLISummary) {
	fmt.Fprintf(w, "Workspace: %s\n", s.Root)
	fmt.Fprintf(w, "Files: %d (%d edges)\n", s.TotalFiles, s.Edges)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	kinds := make([]string, 0, len(s.Files))
	for k := range s.Files {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		if s.Files[k] > 0 {
			fmt.Fprintf(tw, "  %s\t%d\n", k, s.Files[k])
		}
	}
	tw.Flush()

	if len(s.Signals) > 0 {
		fmt.Fprintln(w, "Stack:")
		tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		cats := make([]string, 0, len(s.Signals))
		for c := range s.Signals {
			cats = append(cats, c)
		}
		sort.Strings(cats)
		for _, c := range cats {
			fmt.Fprintf(tw, "  %s\t%s\n", c, s.Signals[c])
		}
		tw.Flush()
	}
}

// formatFileListText prints one path per line.
func formatFileListText(w io.Writer, l CLIFileList) {
	for _, f := range l.Files {
		fmt.Fprintln(w, f)
	}
}

// formatPhasesText prints each scored phase with evidence and missing
// items.
func formatPhasesText(w io.Writer, phases []CLIPhase) {
	for i, p := range phases {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s [%s]\n", p.Title, p.Category)
		fmt.Fprintf(w, "  score: %d/100  status: %s", p.Score, p.Status)
		if p.AIScore != nil {
			fmt.Fprintf(w, "  ai: %d/100", *p.AIScore)
		}
		fmt.Fprintln(w)
		for _, e := range p.Evidence {
			fmt.Fprintf(w, "  + %s\n", e)
		}
		for _, m := range p.Missing {
			fmt.Fprintf(w, "  - %s\n", m)
		}
	}
}

// validateFormat checks that the --format flag value is recognized.
func validateFormat(format string) error {
	switch format {
	case "json", "text":
		return nil
	default:
		return fmt.Errorf("invalid format %q: must be json or text", format)
	}
}
