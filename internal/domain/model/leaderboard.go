package model

import "time"

type LeaderboardEntry struct {
	Rank             int       `json:"rank"`
	UserID           string    `json:"userId"`
	Username         string    `json:"username"`
	CodingScore      int       `json:"codingScore"`
	QuizScore        int       `json:"quizScore"`
	TotalScore       int       `json:"totalScore"`
	ChallengesPassed int       `json:"challengesPassed"`
	LastSubmission   time.Time `json:"lastSubmission"`
}

type HackathonMetrics struct {
	HackathonID      string  `json:"hackathonId"`
	Participants     int     `json:"participants"`
	Submissions      int     `json:"submissions"`
	PassedSubmissions int    `json:"passedSubmissions"`
	PassRate         float64 `json:"passRate"`
	AverageScore     float64 `json:"averageScore"`
	TopScore         int     `json:"topScore"`
}
