package domain

import "fmt"

// Rating is an immutable running-average vote accumulator. No vote history is
// retained, only the aggregate statistics.
type Rating struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// EmptyRating returns the zero-vote rating {0.0, 0}.
func EmptyRating() Rating {
	return Rating{}
}

// AddVote folds a 1..5 star vote into the running average and returns the
// updated rating.
func (r Rating) AddVote(stars int) (Rating, error) {
	if stars < 1 || stars > 5 {
		return Rating{}, fmt.Errorf("%w: stars must be in 1..5", ErrInvalidArgument)
	}
	count := r.Count + 1
	return Rating{
		Average: (r.Average*float64(r.Count) + float64(stars)) / float64(count),
		Count:   count,
	}, nil
}
