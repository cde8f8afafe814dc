package model

import "time"

// LanguageImplementation holds the two halves of a challenge's starter code
// for one language. VisibleCode is the editor template shown to participants;
// InvisibleCode is the judge-side harness and must never leave the server.
type LanguageImplementation struct {
	InvisibleCode string `json:"invisibleCode,omitempty"`
	VisibleCode   string `json:"visibleCode"`
}

// TestCase ordering is significant: index 0 is the sample used for quick
// runs, the full ordered sequence is used for scoring submissions.
type TestCase struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expectedOutput"`
	IsVisible      bool   `json:"isVisible"`
}

type Challenge struct {
	ID                      string                            `json:"id"`
	HackathonID             string                            `json:"hackathonId"`
	Name                    string                            `json:"name"`
	Slug                    string                            `json:"slug"`
	ProblemStatement        string                            `json:"problemStatement"`
	Constraints             string                            `json:"constraints"`
	Languages               []string                          `json:"languages"`
	LanguageImplementations map[string]LanguageImplementation `json:"languageImplementations"`
	TestCases               []TestCase                        `json:"testCases"`
	Proctoring              bool                              `json:"proctoring"`
	CreatedAt               time.Time                         `json:"createdAt"`
	UpdatedAt               time.Time                         `json:"updatedAt"`
}

// ForParticipant strips everything a participant must not see: the invisible
// harness code and the hidden test cases' contents. Test cases keep their
// count so the client can show progress, but hidden inputs/outputs are blank.
func (c Challenge) ForParticipant() Challenge {
	out := c
	out.LanguageImplementations = make(map[string]LanguageImplementation, len(c.LanguageImplementations))
	for lang, impl := range c.LanguageImplementations {
		out.LanguageImplementations[lang] = LanguageImplementation{VisibleCode: impl.VisibleCode}
	}
	out.TestCases = make([]TestCase, len(c.TestCases))
	for i, tc := range c.TestCases {
		if tc.IsVisible {
			out.TestCases[i] = tc
		} else {
			out.TestCases[i] = TestCase{IsVisible: false}
		}
	}
	return out
}

// HasLanguage reports whether lang is one of the challenge's offered languages.
func (c Challenge) HasLanguage(lang string) bool {
	for _, l := range c.Languages {
		if l == lang {
			return true
		}
	}
	return false
}
