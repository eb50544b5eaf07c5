package trellis

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/JexSrs/go-ollama"
)

// maxRescorePrompt bounds how much cluster content is sent to the model.
const maxRescorePrompt = 7500

const rescoreSystemPrompt = `You estimate how complete a development phase is.
Given a phase title and excerpts of related project files, answer with a
single integer between 0 and 100 and nothing else.`

// Rescorer asks a locally hosted text-generation service for a second
// opinion on a phase score. It is a best-effort addition: every failure
// path returns an error that callers log and ignore, and the factual
// ScorePhase result is never affected.
type Rescorer struct {
	client  *ollama.Ollama
	model   string
	timeout time.Duration
}

// NewRescorer builds a Rescorer for the service at cfg.Host.
func NewRescorer(cfg OllamaConfig) (*Rescorer, error) {
	u, err := url.Parse(cfg.Host)
	if err != nil {
		return nil, fmt.Errorf("trellis: ollama host: %w", err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Rescorer{
		client:  ollama.New(*u),
		model:   cfg.Model,
		timeout: timeout,
	}, nil
}

// Rescore generates a 0-100 estimate for the phase from the contents of
// its file cluster. The call carries its own timeout on top of ctx; the
// generation request itself cannot be cancelled mid-flight, only abandoned.
func (r *Rescorer) Rescore(ctx context.Context, phaseTitle string, clusterContents map[string]string) (int, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Phase: %s\n\nRelated files:\n", phaseTitle)
	for path, content := range clusterContents {
		if b.Len() >= maxRescorePrompt {
			break
		}
		fmt.Fprintf(&b, "\n--- %s ---\n%s\n", path, content)
	}
	prompt := b.String()
	if len(prompt) > maxRescorePrompt {
		prompt = prompt[:maxRescorePrompt]
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	type genResult struct {
		text string
		err  error
	}
	ch := make(chan genResult, 1)
	go func() {
		res, err := r.client.Generate(
			r.client.Generate.WithModel(r.model),
			r.client.Generate.WithSystem(rescoreSystemPrompt),
			r.client.Generate.WithPrompt(prompt),
		)
		if err != nil {
			ch <- genResult{err: fmt.Errorf("trellis: ollama generate: %w", err)}
			return
		}
		if !res.Done || res.Response == "" {
			ch <- genResult{err: fmt.Errorf("trellis: ollama returned no completed response")}
			return
		}
		ch <- genResult{text: res.Response}
	}()

	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("trellis: rescore: %w", ctx.Err())
	case res := <-ch:
		if res.err != nil {
			return 0, res.err
		}
		return parseScore(res.text)
	}
}

var scoreRe = regexp.MustCompile(`\d{1,3}`)

// parseScore extracts the first integer in the model output and clamps it
// to [0,100]. Models wrap answers in prose often enough that strict parsing
// would throw away usable responses.
func parseScore(text string) (int, error) {
	m := scoreRe.FindString(text)
	if m == "" {
		return 0, fmt.Errorf("trellis: no score in model output %q", strings.TrimSpace(text))
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, fmt.Errorf("trellis: parse score: %w", err)
	}
	return clampScore(n), nil
}
