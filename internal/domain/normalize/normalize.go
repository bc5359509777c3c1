// Package normalize turns raw judge submissions into flat rows.
package normalize

import (
	model "github.com/okian/cfinsight/internal/domain/model"
)

// Normalize keeps every submission that has a problem with a rating and
// flattens it into a row. Input order is preserved and nothing is sorted.
// The result is never nil, so an empty input yields an empty slice.
func Normalize(subs []model.RawSubmission) []model.Submission {
	rows := make([]model.Submission, 0, len(subs))
	for _, s := range subs {
		p := s.Problem
		if p == nil || p.Rating == nil {
			continue
		}
		rows = append(rows, model.Submission{
			Problem:   p.Name,
			Rating:    *p.Rating,
			Tags:      append([]string(nil), p.Tags...),
			Verdict:   s.Verdict,
			Date:      model.Day(s.CreationTimeSeconds),
			ContestID: p.ContestIDOrZero(),
			Index:     p.IndexOrEmpty(),
		})
	}
	return rows
}
