package model

import "time"

const (
	TestStatusCompleted = "completed"
	TestStatusError     = "error"
)

// TestResult is ephemeral: recomputed on every run or submit, persisted only
// as part of a Submission record.
type TestResult struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expectedOutput"`
	ActualOutput   string `json:"actualOutput"`
	Passed         bool   `json:"passed"`
	Time           string `json:"time"`
	Memory         string `json:"memory"`
	Status         string `json:"status"` // completed | error
}

// Submission is the backend's durable record of a challenge attempt. Passed
// is true iff every test result passed; Score carries the participant's
// cumulative session score at submission time.
type Submission struct {
	ID          string       `json:"id"`
	UserID      string       `json:"userId"`
	HackathonID string       `json:"hackathonId"`
	ChallengeID string       `json:"challengeId"`
	Code        string       `json:"code"`
	Language    string       `json:"language"`
	TestResults []TestResult `json:"testResults"`
	Passed      bool         `json:"passed"`
	Score       int          `json:"score"`
	SubmittedAt time.Time    `json:"submittedAt"`

	Username string `json:"username,omitempty"` // for admin reports
}

type QuizSubmission struct {
	ID          string         `json:"id"`
	UserID      string         `json:"userId"`
	HackathonID string         `json:"hackathonId"`
	Answers     map[int]string `json:"answers"` // question index -> selected option
	Score       int            `json:"score"`
	Total       int            `json:"total"`
	SubmittedAt time.Time      `json:"submittedAt"`
}

type ProjectSubmission struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	HackathonID string    `json:"hackathonId"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Mobile      string    `json:"mobile"`
	ProjectLink string    `json:"projectLink"`
	Description string    `json:"description"`
	SubmittedAt time.Time `json:"submittedAt"`
}
