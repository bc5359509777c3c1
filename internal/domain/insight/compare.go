package insight

import (
	model "github.com/okian/cfinsight/internal/domain/model"
)

// Side is one participant of a head-to-head comparison.
type Side struct {
	Handle  string
	Profile model.Profile
	Rows    []model.Submission
}

// Side labels used in Comparison.Combined. A handle compared with itself
// yields two sides with the same handle, so consumers group by side.
const (
	SideA = "a"
	SideB = "b"
)

// HandleRatingCount is a histogram bar tagged with its owner.
type HandleRatingCount struct {
	Handle string `json:"handle"`
	Side   string `json:"side"`
	Rating int    `json:"rating"`
	Count  int    `json:"count"`
}

// Comparison joins two independently derived sides.
type Comparison struct {
	HandleA      string `json:"handleA"`
	HandleB      string `json:"handleB"`
	RatingA      int    `json:"ratingA"`
	RatingB      int    `json:"ratingB"`
	RatingDeltaA int    `json:"ratingDeltaA"`
	RatingDeltaB int    `json:"ratingDeltaB"`
	// CommonSolved counts problem names accepted by both handles.
	CommonSolved int `json:"commonSolved"`
	// Combined holds A's histogram followed by B's.
	Combined []HandleRatingCount `json:"combined"`
}

// Compare derives the head-to-head figures. Unset ratings count as 0.
func Compare(a, b Side) Comparison {
	ra, rb := a.Profile.CurrentRating(), b.Profile.CurrentRating()
	c := Comparison{
		HandleA:      a.Handle,
		HandleB:      b.Handle,
		RatingA:      ra,
		RatingB:      rb,
		RatingDeltaA: ra - rb,
		RatingDeltaB: rb - ra,
		CommonSolved: CommonSolved(a.Rows, b.Rows),
		Combined:     []HandleRatingCount{},
	}
	for i, s := range []Side{a, b} {
		label := SideA
		if i == 1 {
			label = SideB
		}
		for _, rc := range Derive(s.Rows).RatingHistogram {
			c.Combined = append(c.Combined, HandleRatingCount{Handle: s.Handle, Side: label, Rating: rc.Rating, Count: rc.Count})
		}
	}
	return c
}

// CommonSolved is the size of the intersection of both solved-name sets.
func CommonSolved(a, b []model.Submission) int {
	sa, sb := SolvedNames(a), SolvedNames(b)
	if len(sb) < len(sa) {
		sa, sb = sb, sa
	}
	n := 0
	for name := range sa {
		if _, ok := sb[name]; ok {
			n++
		}
	}
	return n
}
