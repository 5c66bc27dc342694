package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents different types of delivery events
type EventType string

const (
	// Taken lifecycle events
	EventTakenCreated     EventType = "taken.created"
	EventTakenCompleted   EventType = "taken.completed"
	EventTakenSurrendered EventType = "taken.surrendered"

	// Response events
	EventResponseSubmitted EventType = "response.submitted"

	// Authoring events
	EventItemsImported EventType = "items.imported"
)

// DeliveryEvent is the base event structure for all delivery events
type DeliveryEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

type TakenCreatedEvent struct {
	TakenID    uint      `json:"taken_id"`
	OfferingID uint      `json:"offering_id"`
	TakerID    string    `json:"taker_id"`
	StartedAt  time.Time `json:"started_at"`
}

type TakenCompletedEvent struct {
	TakenID     uint      `json:"taken_id"`
	OfferingID  uint      `json:"offering_id"`
	TakerID     string    `json:"taker_id"`
	CompletedAt time.Time `json:"completed_at"`
}

type TakenSurrenderedEvent struct {
	TakenID     uint      `json:"taken_id"`
	QuestionID  uint      `json:"question_id"`
	TakerID     string    `json:"taker_id"`
	SurrenderAt time.Time `json:"surrendered_at"`
}

type ResponseSubmittedEvent struct {
	TakenID     uint      `json:"taken_id"`
	QuestionID  uint      `json:"question_id"`
	TakerID     string    `json:"taker_id"`
	Kind        string    `json:"kind"`
	Correct     bool      `json:"correct"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type ItemsImportedEvent struct {
	BankID       uint   `json:"bank_id"`
	ImportedBy   string `json:"imported_by"`
	ItemCount    int    `json:"item_count"`
	SkippedCount int    `json:"skipped_count"`
}

// Event factory functions

func NewTakenCreatedEvent(takenID, offeringID uint, takerID string, startedAt time.Time) *DeliveryEvent {
	return newDeliveryEvent(EventTakenCreated, TakenCreatedEvent{
		TakenID:    takenID,
		OfferingID: offeringID,
		TakerID:    takerID,
		StartedAt:  startedAt,
	})
}

func NewTakenCompletedEvent(takenID, offeringID uint, takerID string, completedAt time.Time) *DeliveryEvent {
	return newDeliveryEvent(EventTakenCompleted, TakenCompletedEvent{
		TakenID:     takenID,
		OfferingID:  offeringID,
		TakerID:     takerID,
		CompletedAt: completedAt,
	})
}

func NewTakenSurrenderedEvent(takenID, questionID uint, takerID string, at time.Time) *DeliveryEvent {
	return newDeliveryEvent(EventTakenSurrendered, TakenSurrenderedEvent{
		TakenID:     takenID,
		QuestionID:  questionID,
		TakerID:     takerID,
		SurrenderAt: at,
	})
}

func NewResponseSubmittedEvent(takenID, questionID uint, takerID, kind string, correct bool, at time.Time) *DeliveryEvent {
	return newDeliveryEvent(EventResponseSubmitted, ResponseSubmittedEvent{
		TakenID:     takenID,
		QuestionID:  questionID,
		TakerID:     takerID,
		Kind:        kind,
		Correct:     correct,
		SubmittedAt: at,
	})
}

func NewItemsImportedEvent(bankID uint, importedBy string, itemCount, skippedCount int) *DeliveryEvent {
	return newDeliveryEvent(EventItemsImported, ItemsImportedEvent{
		BankID:       bankID,
		ImportedBy:   importedBy,
		ItemCount:    itemCount,
		SkippedCount: skippedCount,
	})
}

func newDeliveryEvent(eventType EventType, data interface{}) *DeliveryEvent {
	return &DeliveryEvent{
		ID:        GenerateEventID(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    "assessment-delivery-service",
		Version:   "1.0",
		Data:      data,
	}
}

// GenerateEventID returns a unique identifier for a new event
func GenerateEventID() string {
	return uuid.NewString()
}
