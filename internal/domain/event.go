package domain

import (
	"time"

	"github.com/google/uuid"
)

// EstimateEvent is the record published after each successful estimate.
type EstimateEvent struct {
	ID        string          `json:"id"`
	Input     PropertyInput   `json:"input"`
	Result    ValuationResult `json:"result"`
	Location  *Location       `json:"location,omitempty"`
	Filled    Filled          `json:"filled,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewEstimateEvent stamps an event with a random ID and the package clock.
func NewEstimateEvent(in PropertyInput, result ValuationResult, loc *Location, filled Filled) EstimateEvent {
	return EstimateEvent{
		ID:        uuid.NewString(),
		Input:     in,
		Result:    result,
		Location:  loc,
		Filled:    filled,
		CreatedAt: clock.Now().UTC(),
	}
}
