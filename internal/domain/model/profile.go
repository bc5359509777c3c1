// Package model contains domain models passed between layers.
package model

import "strconv"

// UnratedLabel is shown in place of a rating the judge does not report.
const UnratedLabel = "Unrated"

// Profile is the account metadata returned by the judge for one handle.
// Rating fields are nil for accounts that never entered a rated contest.
type Profile struct {
	Handle    string `json:"handle"`
	Rating    *int   `json:"rating,omitempty"`
	MaxRating *int   `json:"maxRating,omitempty"`
	Rank      string `json:"rank,omitempty"`
	MaxRank   string `json:"maxRank,omitempty"`
}

// CurrentRating returns the rating, or 0 when unset.
func (p Profile) CurrentRating() int { return intOrZero(p.Rating) }

// PeakRating returns the max rating, or 0 when unset.
func (p Profile) PeakRating() int { return intOrZero(p.MaxRating) }

// RatingLabel renders the rating for display.
func (p Profile) RatingLabel() string { return label(p.Rating) }

// MaxRatingLabel renders the max rating for display.
func (p Profile) MaxRatingLabel() string { return label(p.MaxRating) }

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func label(v *int) string {
	if v == nil {
		return UnratedLabel
	}
	return strconv.Itoa(*v)
}
