package model

import "time"

type MCQ struct {
	Question         string   `json:"question"`
	Options          []string `json:"options"`
	CorrectAnswers   []int    `json:"correctAnswers,omitempty"`
	IsMultipleAnswer bool     `json:"isMultipleAnswer"`
}

// ForParticipant hides the answer key.
func (m MCQ) ForParticipant() MCQ {
	out := m
	out.CorrectAnswers = nil
	return out
}

type Hackathon struct {
	ID                   string      `json:"id"`
	Title                string      `json:"title"`
	Slug                 string      `json:"slug"`
	Description          string      `json:"description"`
	StartDate            time.Time   `json:"startDate"`
	EndDate              time.Time   `json:"endDate"`
	RegistrationDeadline time.Time   `json:"registrationDeadline"`
	MaxParticipants      int         `json:"maxParticipants"`
	PrizeMoney           int         `json:"prizeMoney"`
	RegistrationFee      int         `json:"registrationFee"`
	Location             string      `json:"location"`
	SkillLevel           string      `json:"skillLevel"`
	Tags                 []string    `json:"tags"`
	MCQs                 []MCQ       `json:"mcqs,omitempty"`
	CodingChallenges     []Challenge `json:"codingChallenges,omitempty"`
	CreatedAt            time.Time   `json:"createdAt"`
	UpdatedAt            time.Time   `json:"updatedAt"`
}

// ForParticipant sanitizes the embedded quiz and challenges.
func (h Hackathon) ForParticipant() Hackathon {
	out := h
	out.MCQs = make([]MCQ, len(h.MCQs))
	for i, m := range h.MCQs {
		out.MCQs[i] = m.ForParticipant()
	}
	out.CodingChallenges = make([]Challenge, len(h.CodingChallenges))
	for i, c := range h.CodingChallenges {
		out.CodingChallenges[i] = c.ForParticipant()
	}
	return out
}
