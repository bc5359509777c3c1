package model

import "time"

// VerdictOK marks an accepted submission.
const VerdictOK = "OK"

// RawSubmission is one attempt as reported by the judge.
type RawSubmission struct {
	ID                  int64       `json:"id"`
	CreationTimeSeconds int64       `json:"creationTimeSeconds"`
	Verdict             string      `json:"verdict,omitempty"`
	Problem             *RawProblem `json:"problem,omitempty"`
}

// RawProblem is the problem block nested in a RawSubmission.
// Optional fields stay nil when the judge omits them.
type RawProblem struct {
	ContestID *int     `json:"contestId,omitempty"`
	Index     *string  `json:"index,omitempty"`
	Name      string   `json:"name"`
	Rating    *int     `json:"rating,omitempty"`
	Tags      []string `json:"tags"`
}

// ContestIDOrZero applies the contest id default.
func (p *RawProblem) ContestIDOrZero() int {
	if p.ContestID == nil {
		return 0
	}
	return *p.ContestID
}

// IndexOrEmpty applies the problem index default.
func (p *RawProblem) IndexOrEmpty() string {
	if p.Index == nil {
		return ""
	}
	return *p.Index
}

// Submission is a normalized row: a rated problem attempt bucketed by UTC day.
type Submission struct {
	Problem   string    `json:"problem"`
	Rating    int       `json:"rating"`
	Tags      []string  `json:"tags"`
	Verdict   string    `json:"verdict"`
	Date      time.Time `json:"date"`
	ContestID int       `json:"contestId"`
	Index     string    `json:"index"`
}

// Accepted reports whether the attempt was judged OK.
func (s Submission) Accepted() bool { return s.Verdict == VerdictOK }

// Day truncates a unix timestamp to its UTC calendar date.
func Day(unixSeconds int64) time.Time {
	y, m, d := time.Unix(unixSeconds, 0).UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
