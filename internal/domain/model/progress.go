package model

import "time"

// Wizard steps, in order. Advancing past StepCoding requires the coding step
// to be completed first.
const (
	StepDetails = 0
	StepQuiz    = 1
	StepCoding  = 2
	StepProject = 3
)

type Progress struct {
	UserID         string    `json:"userId"`
	HackathonID    string    `json:"hackathonId"`
	CurrentStep    int       `json:"currentStep"`
	CompletedSteps []int     `json:"completedSteps"`
	TotalScore     int       `json:"totalScore"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (p *Progress) StepCompleted(step int) bool {
	for _, s := range p.CompletedSteps {
		if s == step {
			return true
		}
	}
	return false
}

// MarkCompleted adds step to CompletedSteps if absent.
func (p *Progress) MarkCompleted(step int) {
	if !p.StepCompleted(step) {
		p.CompletedSteps = append(p.CompletedSteps, step)
	}
}

type Registration struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	HackathonID string    `json:"hackathonId"`
	TeamName    string    `json:"teamName"`
	Mobile      string    `json:"mobile"`
	Institution string    `json:"institution"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Expired reports whether the attempt window has lapsed at instant now.
func (r *Registration) Expired(now time.Time) bool {
	return now.After(r.EndDate)
}

type RegistrationStatus struct {
	IsRegistered bool       `json:"isRegistered"`
	StartDate    *time.Time `json:"startDate,omitempty"`
	Expired      bool       `json:"expired"`
}
