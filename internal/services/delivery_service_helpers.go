package services

import (
	"context"
	"fmt"

	"github.com/MC3-2026/assessment-delivery-service/internal/events"
	"github.com/MC3-2026/assessment-delivery-service/internal/models"
	"github.com/MC3-2026/assessment-delivery-service/internal/repositories"
	"github.com/MC3-2026/assessment-delivery-service/internal/scoring"
)

// ownedTaken loads a taken with its offering and verifies ownership.
func (s *deliveryService) ownedTaken(ctx context.Context, takenID uint, userID, action string) (*models.Taken, error) {
	taken, err := s.repo.Taken().GetByIDWithOffering(ctx, takenID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTakenNotFound
		}
		return nil, fmt.Errorf("failed to get taken: %w", err)
	}
	if taken.TakerID != userID {
		return nil, NewPermissionError(userID, takenID, "taken", action, "not owned by taker")
	}
	return taken, nil
}

// resolveQuestion maps a question id to its item and question records.
func (s *deliveryService) resolveQuestion(ctx context.Context, questionID uint) (*models.Item, *models.Question, error) {
	item, err := s.repo.Item().GetByQuestionID(ctx, questionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, nil, ErrQuestionNotFound
		}
		return nil, nil, fmt.Errorf("failed to resolve question: %w", err)
	}

	question, err := s.repo.Item().GetQuestion(ctx, item.ID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, nil, ErrQuestionNotFound
		}
		return nil, nil, fmt.Errorf("failed to get question: %w", err)
	}
	return item, question, nil
}

// answersForItem is the cache-aside read of an item's answer set. Order is
// preserved end to end; a cold cache falls through to the store.
func (s *deliveryService) answersForItem(ctx context.Context, itemID uint) ([]models.Answer, error) {
	if cached, ok := s.answers.Get(ctx, itemID); ok {
		return cached, nil
	}

	answers, err := s.repo.Item().GetAnswers(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get answers: %w", err)
	}
	s.answers.Put(ctx, itemID, answers)
	return answers, nil
}

// statusFor computes the question status for a taken. A surrendered response
// reports responded-incorrect without replaying its empty payload.
func (s *deliveryService) statusFor(ctx context.Context, takenID uint, item *models.Item, question *models.Question) (*scoring.QuestionStatus, error) {
	response, err := s.repo.Response().GetByTakenAndQuestion(ctx, takenID, question.ID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return scoring.NotResponded(), nil
		}
		return nil, fmt.Errorf("failed to get response: %w", err)
	}

	if response.Surrendered {
		incorrect := false
		return &scoring.QuestionStatus{Responded: true, Correct: &incorrect}, nil
	}

	answers, err := s.answersForItem(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	return scoring.Replay(response, answers)
}

// applySolution overlays the item's stored solution when the offering allows
// review. Lookup failures are logged and swallowed; enrichment never fails a
// submission.
func (s *deliveryService) applySolution(ctx context.Context, verdict *scoring.Verdict, taken *models.Taken, item *models.Item) {
	if !taken.Offering.ReviewSolution {
		return
	}

	if item.Solution == nil {
		fresh, err := s.repo.Item().GetByID(ctx, item.ID)
		if err != nil {
			s.logger.Warn("Solution lookup failed",
				"item_id", item.ID,
				"taken_id", taken.ID,
				"error", err)
			return
		}
		item = fresh
	}
	if item.Solution != nil {
		verdict.ApplySolution(*item.Solution)
	}
}

// publish sends a delivery event, logging failures without surfacing them.
func (s *deliveryService) publish(ctx context.Context, event *events.DeliveryEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishDeliveryEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to publish delivery event",
			"event_type", event.Type,
			"error", err)
	}
}

func questionView(item *models.Item, question *models.Question, status *scoring.QuestionStatus) *QuestionView {
	view := &QuestionView{
		ID:          question.ID,
		ItemID:      item.ID,
		DisplayName: item.DisplayName,
		Kind:        question.Kind,
		Text:        question.Text,
		FirstAngle:  question.FirstAngle,
		Status:      status,
	}
	if question.Kind.IsMultipleChoice() {
		view.Choices = question.ChoiceList()
	}
	return view
}

// submissionKind resolves the kind a submission should be scored under: the
// payload's own type tag when it carries a recognized one, the question's
// kind otherwise.
func submissionKind(payload map[string]any, fallback models.AnswerKind) models.AnswerKind {
	if tag, ok := payload["type"].(string); ok {
		if kind, ok := models.ParseAnswerKind(tag); ok {
			return kind
		}
	}
	return fallback
}
