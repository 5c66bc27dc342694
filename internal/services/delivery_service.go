package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/MC3-2026/assessment-delivery-service/internal/cache"
	"github.com/MC3-2026/assessment-delivery-service/internal/events"
	"github.com/MC3-2026/assessment-delivery-service/internal/models"
	"github.com/MC3-2026/assessment-delivery-service/internal/repositories"
	"github.com/MC3-2026/assessment-delivery-service/internal/scoring"
	"github.com/MC3-2026/assessment-delivery-service/internal/validator"
)

// DeliveryService runs the taking side: takens, submissions, scoring,
// status lookup and surrender.
type DeliveryService interface {
	CreateTaken(ctx context.Context, offeringID uint, takerID string) (*models.Taken, error)
	GetTaken(ctx context.Context, takenID uint, userID string) (*models.Taken, error)
	FinishTaken(ctx context.Context, takenID uint, userID string) (*models.Taken, error)

	GetQuestions(ctx context.Context, takenID uint, userID string) ([]*QuestionView, error)
	GetQuestion(ctx context.Context, takenID, questionID uint, userID string) (*QuestionView, error)

	SubmitResponse(ctx context.Context, takenID, questionID uint, payload map[string]any, userID string) (*scoring.Verdict, error)
	GetQuestionStatus(ctx context.Context, takenID, questionID uint, userID string) (*scoring.QuestionStatus, error)
	Surrender(ctx context.Context, takenID, questionID uint, userID string) ([]models.Answer, error)
}

// QuestionView is the student-facing projection of a question. Answers are
// never included; status is computed against the current answer set.
type QuestionView struct {
	ID          uint                    `json:"id"`
	ItemID      uint                    `json:"item_id"`
	DisplayName string                  `json:"display_name"`
	Kind        models.AnswerKind       `json:"kind"`
	Text        string                  `json:"text"`
	Choices     []models.Choice         `json:"choices,omitempty"`
	FirstAngle  *bool                   `json:"first_angle,omitempty"`
	Status      *scoring.QuestionStatus `json:"status,omitempty"`
}

type deliveryService struct {
	repo      repositories.Repository
	answers   *cache.AnswerCache
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewDeliveryService(repo repositories.Repository, answers *cache.AnswerCache, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) DeliveryService {
	return &deliveryService{
		repo:      repo,
		answers:   answers,
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

// ===== TAKEN OPERATIONS =====

func (s *deliveryService) CreateTaken(ctx context.Context, offeringID uint, takerID string) (*models.Taken, error) {
	offering, err := s.repo.Offering().GetByID(ctx, offeringID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrOfferingNotFound
		}
		return nil, fmt.Errorf("failed to get offering: %w", err)
	}

	if offering.StartTime != nil && time.Now().Before(*offering.StartTime) {
		return nil, ErrOfferingNotOpen
	}

	if offering.MaxAttempts != nil {
		count, err := s.repo.Taken().CountByOfferingAndTaker(ctx, offeringID, takerID)
		if err != nil {
			return nil, fmt.Errorf("failed to count takens: %w", err)
		}
		if count >= *offering.MaxAttempts {
			return nil, ErrAttemptLimitExceeded
		}
	}

	taken := &models.Taken{
		OfferingID: offeringID,
		TakerID:    takerID,
		StartedAt:  time.Now(),
	}
	if err := s.repo.Taken().Create(ctx, taken); err != nil {
		return nil, fmt.Errorf("failed to create taken: %w", err)
	}

	s.logger.Info("Taken created",
		"taken_id", taken.ID,
		"offering_id", offeringID,
		"taker_id", takerID)

	s.publish(ctx, events.NewTakenCreatedEvent(taken.ID, offeringID, takerID, taken.StartedAt))
	return taken, nil
}

func (s *deliveryService) GetTaken(ctx context.Context, takenID uint, userID string) (*models.Taken, error) {
	return s.ownedTaken(ctx, takenID, userID, "read")
}

func (s *deliveryService) FinishTaken(ctx context.Context, takenID uint, userID string) (*models.Taken, error) {
	taken, err := s.ownedTaken(ctx, takenID, userID, "finish")
	if err != nil {
		return nil, err
	}
	if taken.CompletedAt != nil {
		return nil, ErrTakenCompleted
	}

	now := time.Now()
	taken.CompletedAt = &now
	if err := s.repo.Taken().Update(ctx, taken); err != nil {
		return nil, fmt.Errorf("failed to finish taken: %w", err)
	}

	s.publish(ctx, events.NewTakenCompletedEvent(taken.ID, taken.OfferingID, taken.TakerID, now))
	return taken, nil
}

// ===== QUESTION LISTING =====

func (s *deliveryService) GetQuestions(ctx context.Context, takenID uint, userID string) ([]*QuestionView, error) {
	taken, err := s.ownedTaken(ctx, takenID, userID, "list_questions")
	if err != nil {
		return nil, err
	}

	items, err := s.repo.Assessment().GetItems(ctx, taken.Offering.AssessmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get assessment items: %w", err)
	}

	views := make([]*QuestionView, 0, len(items))
	for i := range items {
		item := &items[i].Item
		question, err := s.repo.Item().GetQuestion(ctx, item.ID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				continue
			}
			return nil, fmt.Errorf("failed to get question for item %d: %w", item.ID, err)
		}
		views = append(views, questionView(item, question, nil))
	}
	return views, nil
}

func (s *deliveryService) GetQuestion(ctx context.Context, takenID, questionID uint, userID string) (*QuestionView, error) {
	taken, err := s.ownedTaken(ctx, takenID, userID, "read_question")
	if err != nil {
		return nil, err
	}

	item, question, err := s.resolveQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}

	status, err := s.statusFor(ctx, taken.ID, item, question)
	if err != nil {
		return nil, err
	}
	return questionView(item, question, status), nil
}

// ===== SUBMISSION =====

// SubmitResponse persists the raw payload, scores it against the stored
// answer set and assembles the verdict. The raw payload is stored before
// evaluation so a scoring failure never loses the student's work.
func (s *deliveryService) SubmitResponse(ctx context.Context, takenID, questionID uint, payload map[string]any, userID string) (*scoring.Verdict, error) {
	taken, err := s.ownedTaken(ctx, takenID, userID, "submit")
	if err != nil {
		return nil, err
	}
	if taken.CompletedAt != nil {
		return nil, ErrTakenCompleted
	}

	item, question, err := s.resolveQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}

	kind := submissionKind(payload, question.Kind)

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode submission payload: %w", err)
	}
	response := &models.Response{
		TakenID:    takenID,
		QuestionID: questionID,
		Kind:       kind,
		Payload:    raw,
	}
	if err := s.repo.Response().Upsert(ctx, response); err != nil {
		return nil, fmt.Errorf("failed to store response: %w", err)
	}

	answers, err := s.answersForItem(ctx, item.ID)
	if err != nil {
		return nil, err
	}

	sub, err := scoring.Normalize(payload, kind)
	if err != nil {
		return nil, err
	}
	correct, err := scoring.Evaluate(sub, answers)
	if err != nil {
		return nil, err
	}

	verdict := scoring.NewVerdict(correct)
	if correct {
		s.applySolution(ctx, verdict, taken, item)
	} else if kind.IsMultipleChoice() {
		verdict.ApplyWrongAnswerFeedback(sub, answers)
	}

	s.publish(ctx, events.NewResponseSubmittedEvent(
		takenID, questionID, userID, string(kind), correct, time.Now()))

	s.logger.Info("Response submitted",
		"taken_id", takenID,
		"question_id", questionID,
		"kind", kind,
		"correct", correct)

	return verdict, nil
}

// ===== STATUS =====

func (s *deliveryService) GetQuestionStatus(ctx context.Context, takenID, questionID uint, userID string) (*scoring.QuestionStatus, error) {
	taken, err := s.ownedTaken(ctx, takenID, userID, "read_status")
	if err != nil {
		return nil, err
	}

	item, question, err := s.resolveQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	return s.statusFor(ctx, taken.ID, item, question)
}

// ===== SURRENDER =====

// Surrender gives up on a question and reveals its answer set. The stored
// response is flagged so a later status lookup does not replay it as a real
// submission.
func (s *deliveryService) Surrender(ctx context.Context, takenID, questionID uint, userID string) ([]models.Answer, error) {
	taken, err := s.ownedTaken(ctx, takenID, userID, "surrender")
	if err != nil {
		return nil, err
	}
	if taken.CompletedAt != nil {
		return nil, ErrTakenCompleted
	}

	item, question, err := s.resolveQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}

	response := &models.Response{
		TakenID:     takenID,
		QuestionID:  questionID,
		Kind:        question.Kind,
		Payload:     nil,
		Surrendered: true,
	}
	if err := s.repo.Response().Upsert(ctx, response); err != nil {
		return nil, fmt.Errorf("failed to store surrender: %w", err)
	}

	answers, err := s.answersForItem(ctx, item.ID)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewTakenSurrenderedEvent(takenID, questionID, userID, time.Now()))
	return answers, nil
}
