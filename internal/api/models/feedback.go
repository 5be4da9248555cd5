package models

// FeedbackRequest is the body of a feedback submission.
type FeedbackRequest struct {
	Rating  *int   `json:"rating"`
	Comment string `json:"comment,omitempty"`
}

// Feedback is a stored feedback entry.
type Feedback struct {
	ID        string    `json:"id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt Timestamp `json:"createdAt"`
}

// FeedbackList lists a user's feedback, newest first.
type FeedbackList struct {
	Items []Feedback `json:"items"`
	Meta  ListMeta   `json:"meta"`
}
