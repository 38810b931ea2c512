package model

import "time"

const (
	MinReviewScore = 0
	MaxReviewScore = 5
)

type Review struct {
	Score           float64       `json:"score" bson:"score"`
	NumberOfReviews int           `json:"number_of_reviews" bson:"number_of_reviews"`
	Reviewed        bool          `json:"reviewed" bson:"reviewed"`
	Entries         []ReviewEntry `json:"entries,omitempty" bson:"entries"`
}

type ReviewEntry struct {
	Text      string    `json:"text" bson:"text"`
	Score     float64   `json:"score" bson:"score"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

type ReviewRequest struct {
	Text  string  `json:"text" validate:"required,min=1,max=1000"`
	Score float64 `json:"score" validate:"gte=0,lte=5"`
}

// Add folds one more review into the running mean.
func (r *Review) Add(text string, score float64, at time.Time) {
	n := float64(r.NumberOfReviews)
	r.Score = (r.Score*n + score) / (n + 1)
	r.NumberOfReviews++
	r.Reviewed = true
	r.Entries = append(r.Entries, ReviewEntry{Text: text, Score: score, CreatedAt: at})
}
