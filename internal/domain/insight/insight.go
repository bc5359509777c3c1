// Package insight derives summary statistics from normalized submissions.
package insight

import (
	"cmp"
	"slices"
	"time"

	model "github.com/okian/cfinsight/internal/domain/model"
)

// BacklogLimit caps the upsolve list.
const BacklogLimit = 5

// RatingCount is one bar of the rating histogram.
type RatingCount struct {
	Rating int `json:"rating"`
	Count  int `json:"count"`
}

// DayCount is the number of submissions on one UTC day.
type DayCount struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

// TagCount is the number of accepted rows carrying a tag.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// Insights holds every aggregate shown for a single handle.
type Insights struct {
	// Submissions counts all normalized rows.
	Submissions int `json:"submissions"`
	// Solved counts accepted rows, not distinct problems.
	Solved int `json:"solved"`
	// RatingHistogram counts accepted rows per rating, ascending by rating.
	RatingHistogram []RatingCount `json:"ratingHistogram"`
	// DailyActivity counts all rows per day, ascending by date.
	DailyActivity []DayCount `json:"dailyActivity"`
	// TagFrequency is ranked by count descending, ties by first encounter.
	TagFrequency []TagCount `json:"tagFrequency"`
	// BestDay is the largest number of accepted rows on a single day.
	BestDay int `json:"bestDay"`
	// Backlog lists problems attempted but never accepted, newest first.
	Backlog []model.Submission `json:"backlog"`
}

// Derive computes all aggregates. Empty input yields empty aggregates.
func Derive(rows []model.Submission) Insights {
	in := Insights{
		Submissions:     len(rows),
		RatingHistogram: []RatingCount{},
		DailyActivity:   []DayCount{},
		TagFrequency:    []TagCount{},
		Backlog:         []model.Submission{},
	}

	ratings := map[int]int{}
	daily := map[time.Time]int{}
	acceptedDaily := map[time.Time]int{}
	tagIdx := map[string]int{}

	for _, r := range rows {
		daily[r.Date]++
		if !r.Accepted() {
			continue
		}
		in.Solved++
		ratings[r.Rating]++
		acceptedDaily[r.Date]++
		for _, tag := range r.Tags {
			i, ok := tagIdx[tag]
			if !ok {
				i = len(in.TagFrequency)
				tagIdx[tag] = i
				in.TagFrequency = append(in.TagFrequency, TagCount{Tag: tag})
			}
			in.TagFrequency[i].Count++
		}
	}

	for rating, n := range ratings {
		in.RatingHistogram = append(in.RatingHistogram, RatingCount{Rating: rating, Count: n})
	}
	slices.SortFunc(in.RatingHistogram, func(a, b RatingCount) int { return cmp.Compare(a.Rating, b.Rating) })

	for day, n := range daily {
		in.DailyActivity = append(in.DailyActivity, DayCount{Date: day, Count: n})
	}
	slices.SortFunc(in.DailyActivity, func(a, b DayCount) int { return a.Date.Compare(b.Date) })

	slices.SortStableFunc(in.TagFrequency, func(a, b TagCount) int { return cmp.Compare(b.Count, a.Count) })

	for _, n := range acceptedDaily {
		in.BestDay = max(in.BestDay, n)
	}

	in.Backlog = Backlog(rows)
	return in
}

// Backlog returns up to BacklogLimit problems that were attempted but never
// accepted anywhere in rows. Each problem appears once, represented by its
// first row in input order, and the result is ordered by date descending.
func Backlog(rows []model.Submission) []model.Submission {
	solved := SolvedNames(rows)
	seen := map[string]struct{}{}
	out := []model.Submission{}
	for _, r := range rows {
		if _, ok := solved[r.Problem]; ok {
			continue
		}
		if _, ok := seen[r.Problem]; ok {
			continue
		}
		seen[r.Problem] = struct{}{}
		out = append(out, r)
	}
	slices.SortStableFunc(out, func(a, b model.Submission) int { return b.Date.Compare(a.Date) })
	if len(out) > BacklogLimit {
		out = out[:BacklogLimit]
	}
	return out
}

// SolvedNames is the set of problem names with at least one accepted row.
func SolvedNames(rows []model.Submission) map[string]struct{} {
	names := map[string]struct{}{}
	for _, r := range rows {
		if r.Accepted() {
			names[r.Problem] = struct{}{}
		}
	}
	return names
}

// StrongTopics returns the n most frequent tags.
func (in Insights) StrongTopics(n int) []string {
	if n > len(in.TagFrequency) {
		n = len(in.TagFrequency)
	}
	return tagNames(in.TagFrequency[:max(n, 0)])
}

// WeakTopics returns the n least frequent tags, in ranking order.
func (in Insights) WeakTopics(n int) []string {
	start := len(in.TagFrequency) - max(n, 0)
	if start < 0 {
		start = 0
	}
	return tagNames(in.TagFrequency[start:])
}

// TopTags returns the head of the ranking with counts, used by the radar chart.
func (in Insights) TopTags(n int) []TagCount {
	if n > len(in.TagFrequency) {
		n = len(in.TagFrequency)
	}
	return in.TagFrequency[:max(n, 0)]
}

func tagNames(tags []TagCount) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = t.Tag
	}
	return out
}
