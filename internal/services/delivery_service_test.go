package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/MC3-2026/assessment-delivery-service/internal/events"
	"github.com/MC3-2026/assessment-delivery-service/internal/models"
	"github.com/MC3-2026/assessment-delivery-service/internal/repositories"
	"github.com/MC3-2026/assessment-delivery-service/internal/scoring"
	"github.com/MC3-2026/assessment-delivery-service/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ===== MOCK REPOSITORIES =====

type MockTakenRepository struct {
	mock.Mock
}

func (m *MockTakenRepository) Create(ctx context.Context, taken *models.Taken) error {
	args := m.Called(ctx, taken)
	return args.Error(0)
}

func (m *MockTakenRepository) GetByID(ctx context.Context, id uint) (*models.Taken, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Taken), args.Error(1)
}

func (m *MockTakenRepository) GetByIDWithOffering(ctx context.Context, id uint) (*models.Taken, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Taken), args.Error(1)
}

func (m *MockTakenRepository) Update(ctx context.Context, taken *models.Taken) error {
	args := m.Called(ctx, taken)
	return args.Error(0)
}

func (m *MockTakenRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTakenRepository) List(ctx context.Context, filters repositories.TakenFilters) ([]*models.Taken, int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.Taken), args.Get(1).(int64), args.Error(2)
}

func (m *MockTakenRepository) CountByOfferingAndTaker(ctx context.Context, offeringID uint, takerID string) (int, error) {
	args := m.Called(ctx, offeringID, takerID)
	return args.Int(0), args.Error(1)
}

type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) Create(ctx context.Context, item *models.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) GetByID(ctx context.Context, id uint) (*models.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockItemRepository) GetByIDWithDetails(ctx context.Context, id uint) (*models.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockItemRepository) GetByQuestionID(ctx context.Context, questionID uint) (*models.Item, error) {
	args := m.Called(ctx, questionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockItemRepository) Update(ctx context.Context, item *models.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockItemRepository) List(ctx context.Context, filters repositories.ItemFilters) ([]*models.Item, int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.Item), args.Get(1).(int64), args.Error(2)
}

func (m *MockItemRepository) GetQuestion(ctx context.Context, itemID uint) (*models.Question, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Question), args.Error(1)
}

func (m *MockItemRepository) GetAnswers(ctx context.Context, itemID uint) ([]models.Answer, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Answer), args.Error(1)
}

func (m *MockItemRepository) CreateAnswer(ctx context.Context, answer *models.Answer) error {
	args := m.Called(ctx, answer)
	return args.Error(0)
}

func (m *MockItemRepository) UpdateAnswer(ctx context.Context, answer *models.Answer) error {
	args := m.Called(ctx, answer)
	return args.Error(0)
}

func (m *MockItemRepository) DeleteAnswer(ctx context.Context, answerID uint) error {
	args := m.Called(ctx, answerID)
	return args.Error(0)
}

func (m *MockItemRepository) UpdateQuestion(ctx context.Context, question *models.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

type MockOfferingRepository struct {
	mock.Mock
}

func (m *MockOfferingRepository) Create(ctx context.Context, offering *models.Offering) error {
	args := m.Called(ctx, offering)
	return args.Error(0)
}

func (m *MockOfferingRepository) GetByID(ctx context.Context, id uint) (*models.Offering, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Offering), args.Error(1)
}

func (m *MockOfferingRepository) Update(ctx context.Context, offering *models.Offering) error {
	args := m.Called(ctx, offering)
	return args.Error(0)
}

func (m *MockOfferingRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOfferingRepository) ListByAssessment(ctx context.Context, assessmentID uint) ([]*models.Offering, error) {
	args := m.Called(ctx, assessmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Offering), args.Error(1)
}

type MockResponseRepository struct {
	mock.Mock
}

func (m *MockResponseRepository) Upsert(ctx context.Context, response *models.Response) error {
	args := m.Called(ctx, response)
	return args.Error(0)
}

func (m *MockResponseRepository) GetByTakenAndQuestion(ctx context.Context, takenID, questionID uint) (*models.Response, error) {
	args := m.Called(ctx, takenID, questionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Response), args.Error(1)
}

func (m *MockResponseRepository) ListByTaken(ctx context.Context, takenID uint) ([]*models.Response, error) {
	args := m.Called(ctx, takenID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Response), args.Error(1)
}

type MockAssessmentRepository struct {
	mock.Mock
}

func (m *MockAssessmentRepository) Create(ctx context.Context, assessment *models.Assessment) error {
	args := m.Called(ctx, assessment)
	return args.Error(0)
}

func (m *MockAssessmentRepository) GetByID(ctx context.Context, id uint) (*models.Assessment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Assessment), args.Error(1)
}

func (m *MockAssessmentRepository) GetByIDWithItems(ctx context.Context, id uint) (*models.Assessment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Assessment), args.Error(1)
}

func (m *MockAssessmentRepository) Update(ctx context.Context, assessment *models.Assessment) error {
	args := m.Called(ctx, assessment)
	return args.Error(0)
}

func (m *MockAssessmentRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAssessmentRepository) ListByBank(ctx context.Context, bankID uint) ([]*models.Assessment, error) {
	args := m.Called(ctx, bankID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Assessment), args.Error(1)
}

func (m *MockAssessmentRepository) AddItem(ctx context.Context, assessmentID, itemID uint, order int) error {
	args := m.Called(ctx, assessmentID, itemID, order)
	return args.Error(0)
}

func (m *MockAssessmentRepository) RemoveItem(ctx context.Context, assessmentID, itemID uint) error {
	args := m.Called(ctx, assessmentID, itemID)
	return args.Error(0)
}

func (m *MockAssessmentRepository) GetItems(ctx context.Context, assessmentID uint) ([]models.AssessmentItem, error) {
	args := m.Called(ctx, assessmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AssessmentItem), args.Error(1)
}

// MockRepository aggregates the sub-repository mocks behind the store contract.
type MockRepository struct {
	taken      *MockTakenRepository
	item       *MockItemRepository
	offering   *MockOfferingRepository
	response   *MockResponseRepository
	assessment *MockAssessmentRepository
}

func newMockRepository() *MockRepository {
	return &MockRepository{
		taken:      new(MockTakenRepository),
		item:       new(MockItemRepository),
		offering:   new(MockOfferingRepository),
		response:   new(MockResponseRepository),
		assessment: new(MockAssessmentRepository),
	}
}

func (m *MockRepository) Bank() repositories.BankRepository             { return nil }
func (m *MockRepository) Item() repositories.ItemRepository             { return m.item }
func (m *MockRepository) Assessment() repositories.AssessmentRepository { return m.assessment }
func (m *MockRepository) Offering() repositories.OfferingRepository    { return m.offering }
func (m *MockRepository) Taken() repositories.TakenRepository          { return m.taken }
func (m *MockRepository) Response() repositories.ResponseRepository    { return m.response }
func (m *MockRepository) User() repositories.UserRepository            { return nil }
func (m *MockRepository) Ping(ctx context.Context) error               { return nil }
func (m *MockRepository) Close() error                                 { return nil }

// ===== TEST FIXTURES =====

func newTestDeliveryService(repo *MockRepository, publisher events.EventPublisher) DeliveryService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewDeliveryService(repo, nil, publisher, logger, validator.New())
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func jsonList(ids ...string) datatypes.JSON { return models.EncodeStringList(ids) }

func testTaken(takerID string) *models.Taken {
	return &models.Taken{
		ID:         1,
		OfferingID: 10,
		TakerID:    takerID,
		StartedAt:  time.Now().Add(-time.Minute),
		Offering: models.Offering{
			ID:           10,
			AssessmentID: 100,
			BankID:       5,
		},
	}
}

func testMultiChoiceItem() (*models.Item, *models.Question) {
	item := &models.Item{
		ID:          20,
		BankID:      5,
		DisplayName: "Projection basics",
	}
	question := &models.Question{
		ID:     30,
		ItemID: 20,
		Kind:   models.KindMultiChoiceEdx,
		Text:   "Which view shows the front face?",
	}
	return item, question
}

// ===== CREATE TAKEN =====

func TestCreateTaken_AttemptLimitExceeded(t *testing.T) {
	repo := newMockRepository()
	service := newTestDeliveryService(repo, nil)
	ctx := context.Background()

	offering := &models.Offering{ID: 10, AssessmentID: 100, MaxAttempts: intPtr(2)}
	repo.offering.On("GetByID", ctx, uint(10)).Return(offering, nil)
	repo.taken.On("CountByOfferingAndTaker", ctx, uint(10), "student-1").Return(2, nil)

	_, err := service.CreateTaken(ctx, 10, "student-1")

	assert.ErrorIs(t, err, ErrAttemptLimitExceeded)
	repo.taken.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateTaken_NotOpenYet(t *testing.T) {
	repo := newMockRepository()
	service := newTestDeliveryService(repo, nil)
	ctx := context.Background()

	start := time.Now().Add(time.Hour)
	offering := &models.Offering{ID: 10, AssessmentID: 100, StartTime: &start}
	repo.offering.On("GetByID", ctx, uint(10)).Return(offering, nil)

	_, err := service.CreateTaken(ctx, 10, "student-1")

	assert.ErrorIs(t, err, ErrOfferingNotOpen)
}

func TestCreateTaken_PublishesEvent(t *testing.T) {
	repo := newMockRepository()
	publisher := events.NewMockEventPublisher(slog.New(slog.NewTextHandler(io.Discard, nil)))
	service := newTestDeliveryService(repo, publisher)
	ctx := context.Background()

	offering := &models.Offering{ID: 10, AssessmentID: 100}
	repo.offering.On("GetByID", ctx, uint(10)).Return(offering, nil)
	repo.taken.On("Create", ctx, mock.AnythingOfType("*models.Taken")).Return(nil)

	taken, err := service.CreateTaken(ctx, 10, "student-1")

	assert.NoError(t, err)
	assert.Equal(t, "student-1", taken.TakerID)
	published := publisher.GetPublishedEvents()
	assert.Len(t, published, 1)
	assert.Equal(t, events.EventTakenCreated, published[0].Type)
}

// ===== OWNERSHIP =====

func TestGetTaken_NotOwned(t *testing.T) {
	repo := newMockRepository()
	service := newTestDeliveryService(repo, nil)
	ctx := context.Background()

	repo.taken.On("GetByIDWithOffering", ctx, uint(1)).Return(testTaken("student-1"), nil)

	_, err := service.GetTaken(ctx, 1, "someone-else")

	assert.True(t, IsUnauthorized(err))
}

// ===== SUBMISSION =====

func TestSubmitResponse_CorrectMultiChoice(t *testing.T) {
	repo := newMockRepository()
	service := newTestDeliveryService(repo, nil)
	ctx := context.Background()

	item, question := testMultiChoiceItem()
	answers := []models.Answer{
		{ID: 1, ItemID: 20, Kind: models.KindMultiChoiceEdx, Genus: models.GenusRightAnswer, ChoiceIDs: jsonList("choice-a")},
		{ID: 2, ItemID: 20, Kind: models.KindMultiChoiceEdx, Genus: models.GenusWrongAnswer, ChoiceIDs: jsonList("choice-b")},
	}

	repo.taken.On("GetByIDWithOffering", ctx, uint(1)).Return(testTaken("student-1"), nil)
	repo.item.On("GetByQuestionID", ctx, uint(30)).Return(item, nil)
	repo.item.On("GetQuestion", ctx, uint(20)).Return(question, nil)
	repo.item.On("GetAnswers", ctx, uint(20)).Return(answers, nil)
	repo.response.On("Upsert", ctx, mock.AnythingOfType("*models.Response")).Return(nil)

	verdict, err := service.SubmitResponse(ctx, 1, 30, map[string]any{
		"type":      "multi-choice-edx",
		"choiceIds": []any{"choice-a"},
	}, "student-1")

	assert.NoError(t, err)
	assert.True(t, verdict.Correct)
	assert.Equal(t, scoring.DefaultFeedback, verdict.Feedback)
}

func TestSubmitResponse_WrongAnswerFeedbackJoined(t *testing.T) {
	repo := newMockRepository()
	service := newTestDeliveryService(repo, nil)
	ctx := context.Background()

	item, question := testMultiChoiceItem()
	answers := []models.Answer{
		{ID: 1, ItemID: 20, Kind: models.KindMultiChoiceEdx, Genus: models.GenusRightAnswer, ChoiceIDs: jsonList("choice-a")},
		{ID: 2, ItemID: 20, Kind: models.KindMultiChoiceEdx, Genus: models.GenusWrongAnswer,
			ChoiceIDs: jsonList("choice-b"), Feedback: strPtr("That is the side view."),
			ConfusedLearningObjectiveIDs: jsonList("lo-1")},
		{ID: 3, ItemID: 20, Kind: models.KindMultiChoiceEdx, Genus: models.GenusWrongAnswer,
			ChoiceIDs: jsonList("choice-c"), Feedback: strPtr("That is the top view."),
			ConfusedLearningObjectiveIDs: jsonList("lo-1", "lo-2")},
	}

	repo.taken.On("GetByIDWithOffering", ctx, uint(1)).Return(testTaken("student-1"), nil)
	repo.item.On("GetByQuestionID", ctx, uint(30)).Return(item, nil)
	repo.item.On("GetQuestion", ctx, uint(20)).Return(question, nil)
	repo.item.On("GetAnswers", ctx, uint(20)).Return(answers, nil)
	repo.response.On("Upsert", ctx, mock.AnythingOfType("*models.Response")).Return(nil)

	verdict, err := service.SubmitResponse(ctx, 1, 30, map[string]any{
		"choiceIds": []any{"choice-b", "choice-c"},
	}, "student-1")

	assert.NoError(t, err)
	assert.False(t, verdict.Correct)
	assert.Equal(t, "That is the side view.; That is the top view.", verdict.Feedback)
	// Concatenated in store order; repeats across answers are kept as-is.
	assert.Equal(t, []string{"lo-1", "lo-1", "lo-2"}, verdict.ConfusedLearningObjectiveIDs)
}

func TestSubmitResponse_SolutionOverlayGatedByOffering(t *testing.T) {
	repo := newMockRepository()
	service := newTestDeliveryService(repo, nil)
	ctx := context.Background()

	item, question := testMultiChoiceItem()
	item.Solution = strPtr("The front view projects along the Z axis.")
	answers := []models.Answer{
		{ID: 1, ItemID: 20, Kind: models.KindMultiChoiceEdx, Genus: models.GenusRightAnswer, ChoiceIDs: jsonList("choice-a")},
	}

	taken := testTaken("student-1")
	taken.Offering.ReviewSolution = true

	repo.taken.On("GetByIDWithOffering", ctx, uint(1)).Return(taken, nil)
	repo.item.On("GetByQuestionID", ctx, uint(30)).Return(item, nil)
	repo.item.On("GetQuestion", ctx, uint(20)).Return(question, nil)
	repo.item.On("GetAnswers", ctx, uint(20)).Return(answers, nil)
	repo.response.On("Upsert", ctx, mock.AnythingOfType("*models.Response")).Return(nil)

	verdict, err := service.SubmitResponse(ctx, 1, 30, map[string]any{
		"choiceIds": []any{"choice-a"},
	}, "student-1")

	assert.NoError(t, err)
	assert.True(t, verdict.Correct)
	assert.Equal(t, "The front view projects along the Z axis.", verdict.Feedback)
}

func TestSubmitResponse_SolutionWithheldWhenReviewDisabled(t *testing.T) {
	repo := newMockRepository()
	service := newTestDeliveryService(repo, nil)
	ctx := context.Background()

	item, question := testMultiChoiceItem()
	item.Solution = strPtr("The front view projects along the Z axis.")
	answers := []models.Answer{
		{ID: 1, ItemID: 20, Kind: models.KindMultiChoiceEdx, Genus: models.GenusRightAnswer, ChoiceIDs: jsonList("choice-a")},
	}

	repo.taken.On("GetByIDWithOffering", ctx, uint(1)).Return(testTaken("student-1"), nil)
	repo.item.On("GetByQuestionID", ctx, uint(30)).Return(item, nil)
	repo.item.On("GetQuestion", ctx, uint(20)).Return(question, nil)
	repo.item.On("GetAnswers", ctx, uint(20)).Return(answers, nil)
	repo.response.On("Upsert", ctx, mock.AnythingOfType("*models.Response")).Return(nil)

	verdict, err := service.SubmitResponse(ctx, 1, 30, map[string]any{
		"choiceIds": []any{"choice-a"},
	}, "student-1")

	assert.NoError(t, err)
	assert.True(t, verdict.Correct)
	assert.Equal(t, scoring.DefaultFeedback, verdict.Feedback)
}

func TestSubmitResponse_SolutionLookupFailureSwallowed(t *testing.T) {
	repo := newMockRepository()
	service := newTestDeliveryService(repo, nil)
	ctx := context.Background()

	item, question := testMultiChoiceItem()
	answers := []models.Answer{
		{ID: 1, ItemID: 20, Kind: models.KindMultiChoiceEdx, Genus: models.GenusRightAnswer, ChoiceIDs: jsonList("choice-a")},
	}

	taken := testTaken("student-1")
	taken.Offering.ReviewSolution = true

	repo.taken.On("GetByIDWithOffering", ctx, uint(1)).Return(taken, nil)
	repo.item.On("GetByQuestionID", ctx, uint(30)).Return(item, nil)
	repo.item.On("GetQuestion", ctx, uint(20)).Return(question, nil)
	repo.item.On("GetAnswers", ctx, uint(20)).Return(answers, nil)
	repo.item.On("GetByID", ctx, uint(20)).Return(nil, gorm.ErrRecordNotFound)
	repo.response.On("Upsert", ctx, mock.AnythingOfType("*models.Response")).Return(nil)

	verdict, err := service.SubmitResponse(ctx, 1, 30, map[string]any{
		"choiceIds": []any{"choice-a"},
	}, "student-1")

	assert.NoError(t, err)
	assert.True(t, verdict.Correct)
	assert.Equal(t, scoring.DefaultFeedback, verdict.Feedback)
}

func TestSubmitResponse_StoresPayloadBeforeEvaluation(t *testing.T) {
	repo := newMockRepository()
	service := newTestDeliveryService(repo, nil)
	ctx := context.Background()

	item, question := testMultiChoiceItem()
	question.Kind = models.KindNumericResponse

	repo.taken.On("GetByIDWithOffering", ctx, uint(1)).Return(testTaken("student-1"), nil)
	repo.item.On("GetByQuestionID", ctx, uint(30)).Return(item, nil)
	repo.item.On("GetQuestion", ctx, uint(20)).Return(question, nil)
	repo.item.On("GetAnswers", ctx, uint(20)).Return([]models.Answer{}, nil)
	repo.response.On("Upsert", ctx, mock.AnythingOfType("*models.Response")).Return(nil)

	// Malformed for the numeric kind: normalization fails after persistence.
	_, err := service.SubmitResponse(ctx, 1, 30, map[string]any{
		"decimalValue": []any{"not-a-number"},
	}, "student-1")

	assert.Error(t, err)
	repo.response.AssertCalled(t, "Upsert", ctx, mock.AnythingOfType("*models.Response"))
}

func TestSubmitResponse_CompletedTakenRejected(t *testing.T) {
	repo := newMockRepository()
	service := newTestDeliveryService(repo, nil)
	ctx := context.Background()

	taken := testTaken("student-1")
	now := time.Now()
	taken.CompletedAt = &now
	repo.taken.On("GetByIDWithOffering", ctx, uint(1)).Return(taken, nil)

	_, err := service.SubmitResponse(ctx, 1, 30, map[string]any{
		"choiceIds": []any{"choice-a"},
	}, "student-1")

	assert.ErrorIs(t, err, ErrTakenCompleted)
}

// ===== STATUS =====

func TestGetQuestionStatus_NotResponded(t *testing.T) {
	repo := newMockRepository()
	service := newTestDeliveryService(repo, nil)
	ctx := context.Background()

	item, question := testMultiChoiceItem()
	repo.taken.On("GetByIDWithOffering", ctx, uint(1)).Return(testTaken("student-1"), nil)
	repo.item.On("GetByQuestionID", ctx, uint(30)).Return(item, nil)
	repo.item.On("GetQuestion", ctx, uint(20)).Return(question, nil)
	repo.response.On("GetByTakenAndQuestion", ctx, uint(1), uint(30)).Return(nil, gorm.ErrRecordNotFound)

	status, err := service.GetQuestionStatus(ctx, 1, 30, "student-1")

	assert.NoError(t, err)
	assert.False(t, status.Responded)
	assert.Nil(t, status.Correct)
}

func TestGetQuestionStatus_ReplaysAgainstCurrentAnswers(t *testing.T) {
	repo := newMockRepository()
	service := newTestDeliveryService(repo, nil)
	ctx := context.Background()

	item, question := testMultiChoiceItem()
	response := &models.Response{
		ID: 40, TakenID: 1, QuestionID: 30,
		Kind:    models.KindMultiChoiceEdx,
		Payload: datatypes.JSON(`{"choiceIds":["choice-a"]}`),
	}

	repo.taken.On("GetByIDWithOffering", ctx, uint(1)).Return(testTaken("student-1"), nil)
	repo.item.On("GetByQuestionID", ctx, uint(30)).Return(item, nil)
	repo.item.On("GetQuestion", ctx, uint(20)).Return(question, nil)
	repo.response.On("GetByTakenAndQuestion", ctx, uint(1), uint(30)).Return(response, nil)

	// The answer key changed after submission: choice-a is no longer right.
	repo.item.On("GetAnswers", ctx, uint(20)).Return([]models.Answer{
		{ID: 1, ItemID: 20, Kind: models.KindMultiChoiceEdx, Genus: models.GenusRightAnswer, ChoiceIDs: jsonList("choice-b")},
	}, nil)

	status, err := service.GetQuestionStatus(ctx, 1, 30, "student-1")

	assert.NoError(t, err)
	assert.True(t, status.Responded)
	if assert.NotNil(t, status.Correct) {
		assert.False(t, *status.Correct)
	}
}

// ===== SURRENDER =====

func TestSurrender_ReturnsAnswersAndMarksResponse(t *testing.T) {
	repo := newMockRepository()
	publisher := events.NewMockEventPublisher(slog.New(slog.NewTextHandler(io.Discard, nil)))
	service := newTestDeliveryService(repo, publisher)
	ctx := context.Background()

	item, question := testMultiChoiceItem()
	answers := []models.Answer{
		{ID: 1, ItemID: 20, Kind: models.KindMultiChoiceEdx, Genus: models.GenusRightAnswer, ChoiceIDs: jsonList("choice-a")},
	}

	repo.taken.On("GetByIDWithOffering", ctx, uint(1)).Return(testTaken("student-1"), nil)
	repo.item.On("GetByQuestionID", ctx, uint(30)).Return(item, nil)
	repo.item.On("GetQuestion", ctx, uint(20)).Return(question, nil)
	repo.item.On("GetAnswers", ctx, uint(20)).Return(answers, nil)
	repo.response.On("Upsert", ctx, mock.MatchedBy(func(r *models.Response) bool {
		return r.Surrendered && r.Payload == nil
	})).Return(nil)

	got, err := service.Surrender(ctx, 1, 30, "student-1")

	assert.NoError(t, err)
	assert.Len(t, got, 1)
	published := publisher.GetPublishedEvents()
	assert.Len(t, published, 1)
	assert.Equal(t, events.EventTakenSurrendered, published[0].Type)
}

func TestGetQuestionStatus_SurrenderedReportsIncorrect(t *testing.T) {
	repo := newMockRepository()
	service := newTestDeliveryService(repo, nil)
	ctx := context.Background()

	item, question := testMultiChoiceItem()
	response := &models.Response{
		ID: 40, TakenID: 1, QuestionID: 30,
		Kind:        models.KindMultiChoiceEdx,
		Surrendered: true,
	}

	repo.taken.On("GetByIDWithOffering", ctx, uint(1)).Return(testTaken("student-1"), nil)
	repo.item.On("GetByQuestionID", ctx, uint(30)).Return(item, nil)
	repo.item.On("GetQuestion", ctx, uint(20)).Return(question, nil)
	repo.response.On("GetByTakenAndQuestion", ctx, uint(1), uint(30)).Return(response, nil)

	status, err := service.GetQuestionStatus(ctx, 1, 30, "student-1")

	assert.NoError(t, err)
	assert.True(t, status.Responded)
	if assert.NotNil(t, status.Correct) {
		assert.False(t, *status.Correct)
	}
	repo.item.AssertNotCalled(t, "GetAnswers", mock.Anything, mock.Anything)
}

// ===== FINISH =====

func TestFinishTaken_AlreadyCompleted(t *testing.T) {
	repo := newMockRepository()
	service := newTestDeliveryService(repo, nil)
	ctx := context.Background()

	taken := testTaken("student-1")
	now := time.Now()
	taken.CompletedAt = &now
	repo.taken.On("GetByIDWithOffering", ctx, uint(1)).Return(taken, nil)

	_, err := service.FinishTaken(ctx, 1, "student-1")

	assert.ErrorIs(t, err, ErrTakenCompleted)
}

func TestFinishTaken_PublishesEvent(t *testing.T) {
	repo := newMockRepository()
	publisher := events.NewMockEventPublisher(slog.New(slog.NewTextHandler(io.Discard, nil)))
	service := newTestDeliveryService(repo, publisher)
	ctx := context.Background()

	repo.taken.On("GetByIDWithOffering", ctx, uint(1)).Return(testTaken("student-1"), nil)
	repo.taken.On("Update", ctx, mock.AnythingOfType("*models.Taken")).Return(nil)

	taken, err := service.FinishTaken(ctx, 1, "student-1")

	assert.NoError(t, err)
	assert.NotNil(t, taken.CompletedAt)
	published := publisher.GetPublishedEvents()
	assert.Len(t, published, 1)
	assert.Equal(t, events.EventTakenCompleted, published[0].Type)
}
