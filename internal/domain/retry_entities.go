package domain

// RetryTrigger names the conditions that may re-run part of a resume's pipeline.
type RetryTrigger string

const (
	// RetryPlaceholderName re-runs scoring onward when the final name is a template placeholder.
	RetryPlaceholderName RetryTrigger = "placeholder_name"
	// RetryCredentialFailover re-runs the failed call with a rotated credential.
	RetryCredentialFailover RetryTrigger = "credential_failover"
)

// RetryState tracks which triggers already fired for one resume.
// Each trigger fires at most once; the state is shared by all triggers of that resume.
type RetryState struct {
	fired map[RetryTrigger]bool
}

// NewRetryState returns an empty per-resume retry state.
func NewRetryState() *RetryState {
	return &RetryState{fired: map[RetryTrigger]bool{}}
}

// TryFire marks the trigger as used and reports whether it was still available.
func (s *RetryState) TryFire(t RetryTrigger) bool {
	if s.fired[t] {
		return false
	}
	s.fired[t] = true
	return true
}

// Fired reports whether the trigger has been used.
func (s *RetryState) Fired(t RetryTrigger) bool { return s.fired[t] }

// FailoverEligible reports whether err should trigger a credential failover.
func FailoverEligible(err error) bool {
	return IsAny(err, ErrCredentialRejected, ErrUpstreamRateLimit, ErrUpstreamTimeout)
}
