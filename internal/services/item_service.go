package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MC3-2026/assessment-delivery-service/internal/cache"
	"github.com/MC3-2026/assessment-delivery-service/internal/models"
	"github.com/MC3-2026/assessment-delivery-service/internal/repositories"
	"github.com/MC3-2026/assessment-delivery-service/internal/validator"
	"github.com/google/uuid"
)

// ItemService manages items together with their question and answer records.
type ItemService interface {
	Create(ctx context.Context, bankID uint, req *CreateItemRequest, creatorID string) (*models.Item, error)
	GetByID(ctx context.Context, id uint) (*models.Item, error)
	Update(ctx context.Context, id uint, req *UpdateItemRequest, userID string) (*models.Item, error)
	Delete(ctx context.Context, id uint, userID string) error
	List(ctx context.Context, filters repositories.ItemFilters) (*ItemListResponse, error)

	UpdateQuestion(ctx context.Context, itemID uint, req *UpdateQuestionRequest, userID string) (*models.Question, error)
	AddAnswer(ctx context.Context, itemID uint, req *AnswerRequest, userID string) (*models.Answer, error)
	UpdateAnswer(ctx context.Context, itemID, answerID uint, req *AnswerRequest, userID string) (*models.Answer, error)
	DeleteAnswer(ctx context.Context, itemID, answerID uint, userID string) error
}

// ===== REQUEST / RESPONSE TYPES =====

type CreateItemRequest struct {
	DisplayName          string   `json:"display_name" validate:"required,min=1,max=200"`
	Description          *string  `json:"description" validate:"omitempty,max=1000"`
	Genus                *string  `json:"genus"`
	LearningObjectiveIDs []string `json:"learning_objective_ids"`
	Solution             *string  `json:"solution"`

	Question QuestionRequest `json:"question" validate:"required"`
	Answers  []AnswerRequest `json:"answers" validate:"omitempty,dive"`
}

type UpdateItemRequest struct {
	DisplayName          *string  `json:"display_name" validate:"omitempty,min=1,max=200"`
	Description          *string  `json:"description" validate:"omitempty,max=1000"`
	LearningObjectiveIDs []string `json:"learning_objective_ids"`
	Solution             *string  `json:"solution"`
}

type QuestionRequest struct {
	Kind string `json:"kind" validate:"required,answer_kind"`
	Text string `json:"text" validate:"required"`

	// multi-choice kinds: authored choice texts, ids generated server-side
	Choices     []string `json:"choices" validate:"omitempty,min=2"`
	Rerandomize *string  `json:"rerandomize"`
	FirstAngle  *bool    `json:"first_angle"`
}

type UpdateQuestionRequest struct {
	Text        *string  `json:"text" validate:"omitempty,min=1"`
	Choices     []string `json:"choices" validate:"omitempty,min=2"`
	Rerandomize *string  `json:"rerandomize"`
	FirstAngle  *bool    `json:"first_angle"`
}

type AnswerRequest struct {
	Kind  string `json:"kind" validate:"required,answer_kind"`
	Genus string `json:"genus" validate:"omitempty,answer_genus"`

	Text           *string  `json:"text"`
	FrontFaceValue *int     `json:"front_face_value"`
	SideFaceValue  *int     `json:"side_face_value"`
	TopFaceValue   *int     `json:"top_face_value"`
	XAngle         *int     `json:"x_angle"`
	YAngle         *int     `json:"y_angle"`
	ZAngle         *int     `json:"z_angle"`
	Decimal        *float64 `json:"decimal"`
	Tolerance      *float64 `json:"tolerance" validate:"omitempty,min=0"`

	// 1-based index into the question's choice list; resolved to the generated
	// choice id on create.
	ChoiceIndex *int     `json:"choice_index" validate:"omitempty,min=1"`
	ChoiceIDs   []string `json:"choice_ids"`

	Feedback                     *string  `json:"feedback"`
	ConfusedLearningObjectiveIDs []string `json:"confused_learning_objective_ids"`
}

type ItemListResponse struct {
	Items []*models.Item `json:"items"`
	Total int64          `json:"total"`
}

type itemService struct {
	repo      repositories.Repository
	answers   *cache.AnswerCache
	logger    *slog.Logger
	validator *validator.Validator
}

func NewItemService(repo repositories.Repository, answers *cache.AnswerCache, logger *slog.Logger, validator *validator.Validator) ItemService {
	return &itemService{
		repo:      repo,
		answers:   answers,
		logger:    logger,
		validator: validator,
	}
}

// ===== ITEM OPERATIONS =====

func (s *itemService) Create(ctx context.Context, bankID uint, req *CreateItemRequest, creatorID string) (*models.Item, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if _, err := s.repo.Bank().GetByID(ctx, bankID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrBankNotFound
		}
		return nil, fmt.Errorf("failed to get bank: %w", err)
	}

	kind, ok := models.ParseAnswerKind(req.Question.Kind)
	if !ok {
		return nil, ErrUnsupportedKind
	}

	question := &models.Question{
		Kind:        kind,
		Text:        req.Question.Text,
		Rerandomize: req.Question.Rerandomize,
		FirstAngle:  req.Question.FirstAngle,
	}

	// Server-generated choice ids so answer records can reference stable ids
	// rather than positions.
	choices := buildChoices(req.Question.Choices)
	question.Choices = models.EncodeChoices(choices)

	if err := s.validator.Item().ValidateQuestion(question); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	answers := make([]models.Answer, 0, len(req.Answers))
	for i, answerReq := range req.Answers {
		answer, err := buildAnswer(&answerReq, choices, i)
		if err != nil {
			return nil, err
		}
		if err := s.validator.Item().ValidateAnswer(answer); err != nil {
			return nil, fmt.Errorf("answer %d: %w", i+1, err)
		}
		answers = append(answers, *answer)
	}

	item := &models.Item{
		BankID:               bankID,
		DisplayName:          req.DisplayName,
		Description:          req.Description,
		Genus:                req.Genus,
		LearningObjectiveIDs: models.EncodeStringList(req.LearningObjectiveIDs),
		Solution:             req.Solution,
		CreatedBy:            creatorID,
		Question:             question,
		Answers:              answers,
	}

	if err := s.repo.Item().Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	s.logger.Info("Item created",
		"item_id", item.ID,
		"bank_id", bankID,
		"kind", kind,
		"creator_id", creatorID)

	return item, nil
}

func (s *itemService) GetByID(ctx context.Context, id uint) (*models.Item, error) {
	item, err := s.repo.Item().GetByIDWithDetails(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return item, nil
}

func (s *itemService) Update(ctx context.Context, id uint, req *UpdateItemRequest, userID string) (*models.Item, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	item, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if item.CreatedBy != userID {
		return nil, NewPermissionError(userID, id, "item", "update", "not the item owner")
	}

	if req.DisplayName != nil {
		item.DisplayName = *req.DisplayName
	}
	if req.Description != nil {
		item.Description = req.Description
	}
	if req.LearningObjectiveIDs != nil {
		item.LearningObjectiveIDs = models.EncodeStringList(req.LearningObjectiveIDs)
	}
	if req.Solution != nil {
		item.Solution = req.Solution
	}

	if err := s.repo.Item().Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	return item, nil
}

func (s *itemService) Delete(ctx context.Context, id uint, userID string) error {
	item, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if item.CreatedBy != userID {
		return NewPermissionError(userID, id, "item", "delete", "not the item owner")
	}

	if err := s.repo.Item().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	s.answers.Invalidate(ctx, id)
	s.logger.Info("Item deleted", "item_id", id, "user_id", userID)
	return nil
}

func (s *itemService) List(ctx context.Context, filters repositories.ItemFilters) (*ItemListResponse, error) {
	items, total, err := s.repo.Item().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return &ItemListResponse{Items: items, Total: total}, nil
}

// ===== QUESTION / ANSWER OPERATIONS =====

func (s *itemService) UpdateQuestion(ctx context.Context, itemID uint, req *UpdateQuestionRequest, userID string) (*models.Question, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	item, err := s.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.CreatedBy != userID {
		return nil, NewPermissionError(userID, itemID, "item", "update_question", "not the item owner")
	}
	if item.Question == nil {
		return nil, ErrQuestionNotFound
	}

	question := item.Question
	if req.Text != nil {
		question.Text = *req.Text
	}
	if req.Choices != nil {
		question.Choices = models.EncodeChoices(buildChoices(req.Choices))
	}
	if req.Rerandomize != nil {
		question.Rerandomize = req.Rerandomize
	}
	if req.FirstAngle != nil {
		question.FirstAngle = req.FirstAngle
	}

	if err := s.validator.Item().ValidateQuestion(question); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := s.repo.Item().UpdateQuestion(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to update question: %w", err)
	}

	return question, nil
}

func (s *itemService) AddAnswer(ctx context.Context, itemID uint, req *AnswerRequest, userID string) (*models.Answer, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	item, err := s.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.CreatedBy != userID {
		return nil, NewPermissionError(userID, itemID, "item", "add_answer", "not the item owner")
	}

	var choices []models.Choice
	if item.Question != nil {
		choices = item.Question.ChoiceList()
	}

	answer, err := buildAnswer(req, choices, len(item.Answers))
	if err != nil {
		return nil, err
	}
	if err := s.validator.Item().ValidateAnswer(answer); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	answer.ItemID = itemID

	if err := s.repo.Item().CreateAnswer(ctx, answer); err != nil {
		return nil, fmt.Errorf("failed to create answer: %w", err)
	}

	s.answers.Invalidate(ctx, itemID)
	return answer, nil
}

func (s *itemService) UpdateAnswer(ctx context.Context, itemID, answerID uint, req *AnswerRequest, userID string) (*models.Answer, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	item, err := s.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.CreatedBy != userID {
		return nil, NewPermissionError(userID, itemID, "item", "update_answer", "not the item owner")
	}

	var existing *models.Answer
	for i := range item.Answers {
		if item.Answers[i].ID == answerID {
			existing = &item.Answers[i]
			break
		}
	}
	if existing == nil {
		return nil, ErrAnswerNotFound
	}

	var choices []models.Choice
	if item.Question != nil {
		choices = item.Question.ChoiceList()
	}

	updated, err := buildAnswer(req, choices, existing.Order)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Item().ValidateAnswer(updated); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	updated.ID = existing.ID
	updated.ItemID = itemID
	updated.CreatedAt = existing.CreatedAt

	if err := s.repo.Item().UpdateAnswer(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to update answer: %w", err)
	}

	s.answers.Invalidate(ctx, itemID)
	return updated, nil
}

func (s *itemService) DeleteAnswer(ctx context.Context, itemID, answerID uint, userID string) error {
	item, err := s.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item.CreatedBy != userID {
		return NewPermissionError(userID, itemID, "item", "delete_answer", "not the item owner")
	}

	found := false
	for i := range item.Answers {
		if item.Answers[i].ID == answerID {
			found = true
			break
		}
	}
	if !found {
		return ErrAnswerNotFound
	}

	if err := s.repo.Item().DeleteAnswer(ctx, answerID); err != nil {
		return fmt.Errorf("failed to delete answer: %w", err)
	}

	s.answers.Invalidate(ctx, itemID)
	return nil
}

// ===== HELPERS =====

func buildChoices(texts []string) []models.Choice {
	choices := make([]models.Choice, 0, len(texts))
	for i, text := range texts {
		choices = append(choices, models.Choice{
			ID:   uuid.NewString(),
			Text: text,
			Name: fmt.Sprintf("Choice %d", i+1),
		})
	}
	return choices
}

func buildAnswer(req *AnswerRequest, choices []models.Choice, order int) (*models.Answer, error) {
	kind, ok := models.ParseAnswerKind(req.Kind)
	if !ok {
		return nil, ErrUnsupportedKind
	}

	genus := models.AnswerGenus(req.Genus)
	if req.Genus == "" {
		genus = models.GenusRightAnswer
	}

	answer := &models.Answer{
		Kind:           kind,
		Genus:          genus,
		Text:           req.Text,
		FrontFaceValue: req.FrontFaceValue,
		SideFaceValue:  req.SideFaceValue,
		TopFaceValue:   req.TopFaceValue,
		XAngle:         req.XAngle,
		YAngle:         req.YAngle,
		ZAngle:         req.ZAngle,
		Decimal:        req.Decimal,
		Tolerance:      req.Tolerance,
		Feedback:       req.Feedback,
		Order:          order,
	}

	choiceIDs := req.ChoiceIDs
	if req.ChoiceIndex != nil {
		index := *req.ChoiceIndex - 1
		if index < 0 || index >= len(choices) {
			return nil, NewValidationError("choice_index", "out of range for question choices", *req.ChoiceIndex)
		}
		choiceIDs = []string{choices[index].ID}
	}
	answer.ChoiceIDs = models.EncodeStringList(choiceIDs)
	answer.ConfusedLearningObjectiveIDs = models.EncodeStringList(req.ConfusedLearningObjectiveIDs)

	return answer, nil
}
