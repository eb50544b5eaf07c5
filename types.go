package trellis

// FileKind classifies a workspace file by its role.
type FileKind string

const (
	KindSource FileKind = "source"
	KindTest   FileKind = "test"
	KindConfig FileKind = "config"
	KindStyle  FileKind = "style"
	KindAsset  FileKind = "asset"
	KindOther  FileKind = "other"
)

// FileNode is one file in the dependency graph. Paths are workspace-relative
// and slash-separated. Imports and ImportedBy are append-only during a build
// pass and never mutated afterward; both preserve insertion order.
type FileNode struct {
	Path         string
	AbsolutePath string
	Kind         FileKind
	Imports      []string
	ImportedBy   []string
}

// PhaseStatus is the lifecycle bucket a phase score maps to.
type PhaseStatus string

const (
	StatusBacklog PhaseStatus = "backlog"
	StatusTodo    PhaseStatus = "todo"
	StatusDoing   PhaseStatus = "doing"
	StatusReview  PhaseStatus = "review"
	StatusDone    PhaseStatus = "done"
)

// rank orders statuses for monotonicity checks: backlog < todo < doing <
// review < done.
func (s PhaseStatus) rank() int {
	switch s {
	case StatusTodo:
		return 1
	case StatusDoing:
		return 2
	case StatusReview:
		return 3
	case StatusDone:
		return 4
	default:
		return 0
	}
}

// PhaseProgress is the scored outcome for one phase. Evidence and Missing
// follow rubric check order.
type PhaseProgress struct {
	Score    int
	Status   PhaseStatus
	Category string
	Evidence []string
	Missing  []string
}

// DetectedSignals is a flat snapshot of technology-stack classifications.
// Empty string means "not detected". One snapshot per analysis run; never
// mutated after detection.
type DetectedSignals struct {
	Frontend      string
	Backend       string
	CSSFramework  string
	State         string
	ORM           string
	Runtime       string
	APIStyle      string
	TestFramework string
	Bundler       string
	Auth          string
	Deployment    string
}

// FileStats aggregates per-kind file counts for one analysis run.
type FileStats struct {
	Source int
	Test   int
	Config int
	Style  int
	Asset  int
	Other  int
	Total  int
}
