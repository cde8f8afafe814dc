package model

import "time"

type SessionPhase string

const (
	PhaseIdle         SessionPhase = "Idle"
	PhaseRunning      SessionPhase = "Running"
	PhaseResultsShown SessionPhase = "ResultsShown"
	PhaseSubmitting   SessionPhase = "Submitting"
	PhaseSubmitted    SessionPhase = "Submitted"
)

// ChallengeSession is the per-(user, hackathon) state of the challenge
// runner. Code, language and results are scoped to the current challenge and
// reset on navigation; Score accumulates across challenges within one attempt
// and is never decremented. Submitted records which challenge indexes have
// reached their terminal state.
type ChallengeSession struct {
	UserID           string       `json:"userId"`
	HackathonID      string       `json:"hackathonId"`
	CurrentIndex     int          `json:"currentChallengeIndex"`
	ChallengeCount   int          `json:"challengeCount"`
	SelectedLanguage string       `json:"selectedLanguage"`
	UserCode         string       `json:"userCode"`
	TestResults      []TestResult `json:"testResults"`
	Score            int          `json:"score"`
	Phase            SessionPhase `json:"phase"`
	ResultsVisible   bool         `json:"resultsVisible"`
	Submitted        map[int]bool `json:"submitted"`
	UpdatedAt        time.Time    `json:"updatedAt"`
}

// CurrentSubmitted reports whether the active challenge is in its terminal
// submitted state.
func (s *ChallengeSession) CurrentSubmitted() bool {
	return s.Submitted[s.CurrentIndex]
}

// AllSubmitted reports whether every challenge of the attempt is submitted.
func (s *ChallengeSession) AllSubmitted() bool {
	if s.ChallengeCount == 0 {
		return false
	}
	for i := 0; i < s.ChallengeCount; i++ {
		if !s.Submitted[i] {
			return false
		}
	}
	return true
}
