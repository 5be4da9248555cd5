// Package feedback stores user ratings of the footprint calculator.
package feedback

import "time"

// Rating bounds and comment limits.
const (
	MinRating        = 1
	MaxRating        = 5
	MaxCommentLength = 1000
)

// Entry is one piece of feedback left by a user.
type Entry struct {
	ID        string
	OwnerID   string
	Rating    int
	Comment   string
	CreatedAt time.Time
}
