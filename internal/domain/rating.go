package domain

type TransactionType string

const (
	TransactionTypeRental   TransactionType = "rental"
	TransactionTypeSwap     TransactionType = "swap"
	TransactionTypePurchase TransactionType = "purchase"
)

// RatingPrompt instructs the client to show a rating UI to RaterID about
// RatedUserID. It is computed on completion transitions and never persisted;
// the review service owns the resulting ratings.
type RatingPrompt struct {
	RaterID         int64           `json:"rater_id"`
	RatedUserID     int64           `json:"rated_user_id"`
	TransactionType TransactionType `json:"transaction_type"`
	TransactionID   int64           `json:"transaction_id"`
	ShouldRate      bool            `json:"should_rate"`
}
