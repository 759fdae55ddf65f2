// Package credential manages the pool of API tokens used for chat calls.
package credential

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/fairyhunter13/ai-resume-screener/internal/adapter/observability"
	"github.com/fairyhunter13/ai-resume-screener/internal/domain"
)

// Pool holds an ordered set of credentials with per-credential failed flags.
// It is safe for concurrent use.
type Pool struct {
	mu      sync.Mutex
	creds   []domain.Credential
	failed  []bool
	current int
	intn    func(n int) int
}

// Option configures a Pool.
type Option func(*Pool)

// WithRandom overrides the random source used by RandomAvailable.
func WithRandom(intn func(n int) int) Option {
	return func(p *Pool) { p.intn = intn }
}

// New builds a pool from the tokens in slot order.
func New(tokens []string, opts ...Option) (*Pool, error) {
	if len(tokens) == 0 {
		return nil, fmt.Errorf("op=credential.New: %w: empty credential pool", domain.ErrConfiguration)
	}
	p := &Pool{
		creds:  make([]domain.Credential, len(tokens)),
		failed: make([]bool, len(tokens)),
		intn:   rand.IntN,
	}
	for i, t := range tokens {
		p.creds[i] = domain.Credential{Index: i, Token: t}
	}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

// Current returns the active credential.
func (p *Pool) Current() domain.Credential {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.creds[p.current]
}

// RandomAvailable returns a uniformly chosen non-failed credential. When every
// credential is failed, all flags are cleared first.
func (p *Pool) RandomAvailable() domain.Credential {
	p.mu.Lock()
	defer p.mu.Unlock()
	avail := make([]int, 0, len(p.creds))
	for i, f := range p.failed {
		if !f {
			avail = append(avail, i)
		}
	}
	if len(avail) == 0 {
		p.resetLocked()
		for i := range p.failed {
			avail = append(avail, i)
		}
	}
	return p.creds[avail[p.intn(len(avail))]]
}

func (p *Pool) resetLocked() {
	slog.Warn("all credentials marked failed, resetting pool", slog.Int("size", len(p.creds)))
	observability.CredentialPoolResetsTotal.Inc()
	for i := range p.failed {
		p.failed[i] = false
	}
}

// MarkFailed flags c as failed. Unknown credentials are ignored; repeated calls are no-ops.
func (p *Pool) MarkFailed(c domain.Credential) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if c.Index < 0 || c.Index >= len(p.creds) || p.creds[c.Index].Token != c.Token {
		return
	}
	if !p.failed[c.Index] {
		p.failed[c.Index] = true
		observability.CredentialFailuresTotal.Inc()
	}
}

// Rotate advances the active credential to the next non-failed one, wrapping
// modulo size, and returns it. When every credential is failed, all flags are
// cleared and the next slot is taken.
func (p *Pool) Rotate() domain.Credential {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := len(p.creds)
	for step := 1; step <= n; step++ {
		i := (p.current + step) % n
		if !p.failed[i] {
			p.current = i
			return p.creds[i]
		}
	}
	p.resetLocked()
	p.current = (p.current + 1) % n
	return p.creds[p.current]
}

// Available returns how many credentials are not failed.
func (p *Pool) Available() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, f := range p.failed {
		if !f {
			n++
		}
	}
	return n
}

// Size returns the number of credentials in the pool.
func (p *Pool) Size() int { return len(p.creds) }
