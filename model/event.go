package model

import "time"

type EventType string

const (
	EventLedgerEntry        EventType = "ledger.entry"
	EventNotificationCreate EventType = "notification.created"
	EventDepositReviewed    EventType = "deposit.reviewed"
	EventWithdrawalReviewed EventType = "withdrawal.reviewed"
	EventQuizSubmitted      EventType = "quiz.submitted"
)

// Event is published to kafka for downstream consumers (reporting, audit)
type Event struct {
	Type      EventType   `json:"type"`
	UserID    uint64      `json:"userId"`
	Payload   interface{} `json:"payload"`
	CreatedAt time.Time   `json:"createdAt"`
}

// NewEvent godoc
func NewEvent(eventType EventType, userID uint64, payload interface{}) Event {
	return Event{Type: eventType, UserID: userID, Payload: payload, CreatedAt: time.Now().UTC()}
}
