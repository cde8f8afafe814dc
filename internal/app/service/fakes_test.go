package service_test

import (
	"context"
	"errors"
	"sync"

	"hackfest_v2/internal/common"
	"hackfest_v2/internal/domain/model"
	"hackfest_v2/internal/platform/judge"
)

// fakeExecutor resolves executions by test-case input. Inputs listed in
// failWith return an error instead of a result.
type fakeExecutor struct {
	mu       sync.Mutex
	results  map[string]judge.ExecResult
	failWith map[string]error
	calls    []judge.ExecRequest
}

func newFakeExecutor() *fakeExecutor {
	return &fakeExecutor{
		results:  make(map[string]judge.ExecResult),
		failWith: make(map[string]error),
	}
}

func (f *fakeExecutor) Execute(_ context.Context, req judge.ExecRequest) (*judge.ExecResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	if err, ok := f.failWith[req.Input]; ok {
		return nil, err
	}
	if res, ok := f.results[req.Input]; ok {
		out := res
		return &out, nil
	}
	return &judge.ExecResult{Stdout: "", Time: "0.01", Memory: "1024"}, nil
}

type fakeHackathonRepo struct {
	hackathons map[string]*model.Hackathon
	challenges map[string][]model.Challenge
}

func newFakeHackathonRepo() *fakeHackathonRepo {
	return &fakeHackathonRepo{
		hackathons: make(map[string]*model.Hackathon),
		challenges: make(map[string][]model.Challenge),
	}
}

func (f *fakeHackathonRepo) Create(_ context.Context, h *model.Hackathon) error {
	f.hackathons[h.ID] = h
	return nil
}

func (f *fakeHackathonRepo) Update(_ context.Context, h *model.Hackathon) error {
	f.hackathons[h.ID] = h
	return nil
}

func (f *fakeHackathonRepo) Delete(_ context.Context, id string) error {
	delete(f.hackathons, id)
	return nil
}

func (f *fakeHackathonRepo) FindByID(_ context.Context, id string) (*model.Hackathon, error) {
	h, ok := f.hackathons[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	copied := *h
	copied.CodingChallenges = f.challenges[id]
	return &copied, nil
}

func (f *fakeHackathonRepo) List(_ context.Context, _, _ int) ([]model.Hackathon, int, error) {
	out := make([]model.Hackathon, 0, len(f.hackathons))
	for _, h := range f.hackathons {
		out = append(out, *h)
	}
	return out, len(out), nil
}

func (f *fakeHackathonRepo) ReplaceMCQs(_ context.Context, hackathonID string, mcqs []model.MCQ) error {
	h, ok := f.hackathons[hackathonID]
	if !ok {
		return common.ErrNotFound
	}
	h.MCQs = mcqs
	return nil
}

func (f *fakeHackathonRepo) AddChallenge(_ context.Context, c *model.Challenge) error {
	f.challenges[c.HackathonID] = append(f.challenges[c.HackathonID], *c)
	return nil
}

func (f *fakeHackathonRepo) DeleteChallenge(_ context.Context, id string) error {
	for hid, list := range f.challenges {
		for i, c := range list {
			if c.ID == id {
				f.challenges[hid] = append(list[:i], list[i+1:]...)
				return nil
			}
		}
	}
	return common.ErrNotFound
}

func (f *fakeHackathonRepo) GetChallenges(_ context.Context, hackathonID string) ([]model.Challenge, error) {
	return f.challenges[hackathonID], nil
}

type fakeRegistrationRepo struct {
	regs map[string]*model.Registration
}

func newFakeRegistrationRepo() *fakeRegistrationRepo {
	return &fakeRegistrationRepo{regs: make(map[string]*model.Registration)}
}

func regKey(userID, hackathonID string) string { return userID + "/" + hackathonID }

func (f *fakeRegistrationRepo) Upsert(_ context.Context, reg *model.Registration) error {
	f.regs[regKey(reg.UserID, reg.HackathonID)] = reg
	return nil
}

func (f *fakeRegistrationRepo) Find(_ context.Context, userID, hackathonID string) (*model.Registration, error) {
	reg, ok := f.regs[regKey(userID, hackathonID)]
	if !ok {
		return nil, common.ErrNotFound
	}
	copied := *reg
	return &copied, nil
}

func (f *fakeRegistrationRepo) CountByHackathon(_ context.Context, hackathonID string) (int, error) {
	n := 0
	for _, reg := range f.regs {
		if reg.HackathonID == hackathonID {
			n++
		}
	}
	return n, nil
}

type fakeProgressRepo struct {
	records map[string]*model.Progress
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{records: make(map[string]*model.Progress)}
}

func (f *fakeProgressRepo) Upsert(_ context.Context, p *model.Progress) error {
	copied := *p
	f.records[regKey(p.UserID, p.HackathonID)] = &copied
	return nil
}

func (f *fakeProgressRepo) Find(_ context.Context, userID, hackathonID string) (*model.Progress, error) {
	p, ok := f.records[regKey(userID, hackathonID)]
	if !ok {
		return nil, common.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

type fakeSubmissionRepo struct {
	mu          sync.Mutex
	submissions []model.Submission
	quizzes     map[string]*model.QuizSubmission
	projects    map[string]*model.ProjectSubmission

	leaderboard      []model.LeaderboardEntry
	leaderboardCalls int

	failCreateSubmission error
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{
		quizzes:  make(map[string]*model.QuizSubmission),
		projects: make(map[string]*model.ProjectSubmission),
	}
}

func (f *fakeSubmissionRepo) CreateSubmission(_ context.Context, s *model.Submission) error {
	if f.failCreateSubmission != nil {
		return f.failCreateSubmission
	}
	f.submissions = append(f.submissions, *s)
	return nil
}

func (f *fakeSubmissionRepo) ListByHackathon(_ context.Context, hackathonID string) ([]model.Submission, error) {
	var out []model.Submission
	for _, s := range f.submissions {
		if s.HackathonID == hackathonID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSubmissionRepo) CreateQuizSubmission(_ context.Context, s *model.QuizSubmission) error {
	key := regKey(s.UserID, s.HackathonID)
	if _, ok := f.quizzes[key]; ok {
		return common.ErrConflict
	}
	f.quizzes[key] = s
	return nil
}

func (f *fakeSubmissionRepo) FindQuizSubmission(_ context.Context, userID, hackathonID string) (*model.QuizSubmission, error) {
	s, ok := f.quizzes[regKey(userID, hackathonID)]
	if !ok {
		return nil, common.ErrNotFound
	}
	return s, nil
}

func (f *fakeSubmissionRepo) CreateProjectSubmission(_ context.Context, s *model.ProjectSubmission) error {
	key := regKey(s.UserID, s.HackathonID)
	if _, ok := f.projects[key]; ok {
		return common.ErrConflict
	}
	f.projects[key] = s
	return nil
}

func (f *fakeSubmissionRepo) FindProjectSubmission(_ context.Context, userID, hackathonID string) (*model.ProjectSubmission, error) {
	s, ok := f.projects[regKey(userID, hackathonID)]
	if !ok {
		return nil, common.ErrNotFound
	}
	return s, nil
}

func (f *fakeSubmissionRepo) LeaderboardTotals(_ context.Context, _ string) ([]model.LeaderboardEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.leaderboardCalls++
	return f.leaderboard, nil
}

func (f *fakeSubmissionRepo) Metrics(_ context.Context, hackathonID string) (*model.HackathonMetrics, error) {
	return &model.HackathonMetrics{HackathonID: hackathonID}, nil
}

type fakeUserRepo struct {
	users map[string]*model.User // by ID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range f.users {
		if u.Username == user.Username || u.Email == user.Email {
			return common.ErrConflict
		}
	}
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) List(_ context.Context, _, _ int) ([]model.User, int, error) {
	out := make([]model.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (f *fakeUserRepo) UpdateRole(_ context.Context, id, role string) error {
	u, ok := f.users[id]
	if !ok {
		return common.ErrNotFound
	}
	u.Role = role
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.users[id]; !ok {
		return common.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

var errJudgeDown = errors.New("runner unavailable")
