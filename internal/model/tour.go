package model

import "time"

// DefaultRatingsAverage is the average a tour shows before it has any reviews.
const DefaultRatingsAverage = 4.5

// RatingSummary is the denormalized aggregate stored on each tour.
type RatingSummary struct {
	Quantity int     `json:"ratings_quantity"`
	Average  float64 `json:"ratings_average"`
}

// SummarizeRatings computes the summary for a set of ratings. An empty set
// resets the summary to zero reviews and the default average.
func SummarizeRatings(ratings []int) RatingSummary {
	if len(ratings) == 0 {
		return RatingSummary{Quantity: 0, Average: DefaultRatingsAverage}
	}

	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return RatingSummary{
		Quantity: len(ratings),
		Average:  float64(sum) / float64(len(ratings)),
	}
}

// Tour is a bookable tour. Only the fields the rating pipeline touches are modeled.
type Tour struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	RatingSummary
	CreatedAt time.Time `json:"created_at"`
}
