// File: internal/models/rating.go
package models

import "time"

type Rating struct {
	ID        string    `json:"id"`
	TradeID   string    `json:"trade_id"`
	RaterID   string    `json:"rater_id"`
	RateeID   string    `json:"ratee_id"`
	Score     int       `json:"score"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateRatingRequest struct {
	Score   int    `json:"score" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=300"`
}

// RatingSummary aggregates the ratings a user received.
type RatingSummary struct {
	Count        int         `json:"count"`
	Average      float64     `json:"average"`
	Distribution map[int]int `json:"distribution"`
}

// NewRatingSummary builds a summary from per-score counts.
func NewRatingSummary(distribution map[int]int) RatingSummary {
	summary := RatingSummary{Distribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}}
	total := 0
	for score, n := range distribution {
		if score < 1 || score > 5 {
			continue
		}
		summary.Distribution[score] = n
		summary.Count += n
		total += score * n
	}
	if summary.Count > 0 {
		avg := float64(total) / float64(summary.Count)
		summary.Average = float64(int(avg*100+0.5)) / 100
	}
	return summary
}
