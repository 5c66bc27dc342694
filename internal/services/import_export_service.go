package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/MC3-2026/assessment-delivery-service/internal/events"
	"github.com/MC3-2026/assessment-delivery-service/internal/models"
	"github.com/MC3-2026/assessment-delivery-service/internal/repositories"
	"github.com/xuri/excelize/v2"
)

// ImportExportService handles bulk item import and export for a bank.
type ImportExportService interface {
	ImportItemsFromFile(ctx context.Context, bankID uint, file multipart.File, filename, creatorID string) (*models.ImportSummary, error)
	ImportItemsFromCSV(ctx context.Context, bankID uint, reader io.Reader, creatorID string) (*models.ImportSummary, error)
	ImportItemsFromExcel(ctx context.Context, bankID uint, reader io.Reader, creatorID string) (*models.ImportSummary, error)

	ExportItemsToCSV(ctx context.Context, bankID uint, userID string) ([]byte, error)
	ExportItemsToExcel(ctx context.Context, bankID uint, userID string) ([]byte, error)
}

type importExportService struct {
	items     ItemService
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewImportExportService(items ItemService, repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger) ImportExportService {
	return &importExportService{
		items:     items,
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// Import sheet columns. Choices are pipe-separated texts; right_answers are
// 1-based choice indexes, comma-separated.
var importColumns = []string{
	"display_name", "kind", "question_text", "choices", "right_answers",
	"decimal", "tolerance", "solution", "learning_objectives",
}

// ===== IMPORT OPERATIONS =====

func (s *importExportService) ImportItemsFromFile(ctx context.Context, bankID uint, file multipart.File, filename, creatorID string) (*models.ImportSummary, error) {
	s.logger.Info("Starting item import", "bank_id", bankID, "filename", filename, "creator_id", creatorID)

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".csv":
		return s.ImportItemsFromCSV(ctx, bankID, file, creatorID)
	case ".xlsx", ".xls":
		return s.ImportItemsFromExcel(ctx, bankID, file, creatorID)
	default:
		return nil, NewValidationError("file", "unsupported file format", ext)
	}
}

func (s *importExportService) ImportItemsFromCSV(ctx context.Context, bankID uint, reader io.Reader, creatorID string) (*models.ImportSummary, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return s.importRows(ctx, bankID, records, creatorID)
}

func (s *importExportService) ImportItemsFromExcel(ctx context.Context, bankID uint, reader io.Reader, creatorID string) (*models.ImportSummary, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, NewValidationError("file", "Excel file has no sheets", nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}
	return s.importRows(ctx, bankID, rows, creatorID)
}

func (s *importExportService) importRows(ctx context.Context, bankID uint, rows [][]string, creatorID string) (*models.ImportSummary, error) {
	if len(rows) < 2 {
		return nil, NewValidationError("file", "file must have a header row and at least one data row", len(rows))
	}

	headerMap := make(map[string]int)
	for i, header := range rows[0] {
		headerMap[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, col := range []string{"display_name", "kind", "question_text"} {
		if _, exists := headerMap[col]; !exists {
			return nil, NewValidationError("headers", fmt.Sprintf("missing required column: %s", col), col)
		}
	}

	start := time.Now()
	summary := &models.ImportSummary{TotalRows: len(rows) - 1}

	for rowIndex, row := range rows[1:] {
		rowNum := rowIndex + 2
		req, rowErrors := s.parseRow(row, headerMap, rowNum)
		summary.ProcessedRows++

		if len(rowErrors) > 0 {
			summary.Errors = append(summary.Errors, rowErrors...)
			summary.ErrorCount++
			continue
		}

		item, err := s.items.Create(ctx, bankID, req, creatorID)
		if err != nil {
			summary.Errors = append(summary.Errors, models.ImportValidationError{
				Row: rowNum, Column: "row", Message: err.Error(),
			})
			summary.ErrorCount++
			continue
		}
		summary.CreatedItems = append(summary.CreatedItems, item.ID)
		summary.SuccessCount++
	}

	summary.ProcessingTime = time.Since(start)

	if s.publisher != nil {
		event := events.NewItemsImportedEvent(bankID, creatorID, summary.SuccessCount, summary.ErrorCount)
		if err := s.publisher.PublishDeliveryEvent(ctx, event); err != nil {
			s.logger.Warn("Failed to publish import event", "bank_id", bankID, "error", err)
		}
	}

	s.logger.Info("Item import completed",
		"bank_id", bankID,
		"total_rows", summary.TotalRows,
		"success_count", summary.SuccessCount,
		"error_count", summary.ErrorCount)

	return summary, nil
}

func (s *importExportService) parseRow(row []string, headerMap map[string]int, rowNum int) (*CreateItemRequest, []models.ImportValidationError) {
	var errors []models.ImportValidationError

	getColumn := func(name string) string {
		if index, exists := headerMap[name]; exists && index < len(row) {
			return strings.TrimSpace(row[index])
		}
		return ""
	}

	displayName := getColumn("display_name")
	if displayName == "" {
		errors = append(errors, models.ImportValidationError{
			Row: rowNum, Column: "display_name", Message: "required field",
		})
	}

	kindTag := getColumn("kind")
	kind, ok := models.ParseAnswerKind(kindTag)
	if !ok {
		errors = append(errors, models.ImportValidationError{
			Row: rowNum, Column: "kind", Message: "unsupported question kind", Value: kindTag,
		})
	}

	questionText := getColumn("question_text")
	if questionText == "" {
		errors = append(errors, models.ImportValidationError{
			Row: rowNum, Column: "question_text", Message: "required field",
		})
	}

	if len(errors) > 0 {
		return nil, errors
	}

	req := &CreateItemRequest{
		DisplayName: displayName,
		Question: QuestionRequest{
			Kind: string(kind),
			Text: questionText,
		},
	}

	if solution := getColumn("solution"); solution != "" {
		req.Solution = &solution
	}
	if objectives := getColumn("learning_objectives"); objectives != "" {
		req.LearningObjectiveIDs = splitAndTrim(objectives, ",")
	}

	switch {
	case kind.IsMultipleChoice():
		choices := splitAndTrim(getColumn("choices"), "|")
		if len(choices) < 2 {
			errors = append(errors, models.ImportValidationError{
				Row: rowNum, Column: "choices", Message: "must have at least 2 pipe-separated choices",
			})
			return nil, errors
		}
		req.Question.Choices = choices

		for _, part := range splitAndTrim(getColumn("right_answers"), ",") {
			index, err := strconv.Atoi(part)
			if err != nil || index < 1 || index > len(choices) {
				errors = append(errors, models.ImportValidationError{
					Row: rowNum, Column: "right_answers", Message: "must be a 1-based choice index", Value: part,
				})
				return nil, errors
			}
			choiceIndex := index
			req.Answers = append(req.Answers, AnswerRequest{
				Kind:        string(kind),
				Genus:       string(models.GenusRightAnswer),
				ChoiceIndex: &choiceIndex,
			})
		}
		if len(req.Answers) == 0 {
			errors = append(errors, models.ImportValidationError{
				Row: rowNum, Column: "right_answers", Message: "must specify at least one right answer",
			})
			return nil, errors
		}

	case kind == models.KindNumericResponse:
		decimalStr := getColumn("decimal")
		decimal, err := strconv.ParseFloat(decimalStr, 64)
		if err != nil {
			errors = append(errors, models.ImportValidationError{
				Row: rowNum, Column: "decimal", Message: "must be a number", Value: decimalStr,
			})
			return nil, errors
		}
		answer := AnswerRequest{
			Kind:    string(kind),
			Genus:   string(models.GenusRightAnswer),
			Decimal: &decimal,
		}
		if toleranceStr := getColumn("tolerance"); toleranceStr != "" {
			tolerance, err := strconv.ParseFloat(toleranceStr, 64)
			if err != nil || tolerance < 0 {
				errors = append(errors, models.ImportValidationError{
					Row: rowNum, Column: "tolerance", Message: "must be a non-negative number", Value: toleranceStr,
				})
				return nil, errors
			}
			answer.Tolerance = &tolerance
		}
		req.Answers = append(req.Answers, answer)
	}

	return req, nil
}

// ===== EXPORT OPERATIONS =====

func (s *importExportService) ExportItemsToCSV(ctx context.Context, bankID uint, userID string) ([]byte, error) {
	items, err := s.itemsForExport(ctx, bankID, userID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(importColumns); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, item := range items {
		if err := writer.Write(s.itemToRow(item)); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *importExportService) ExportItemsToExcel(ctx context.Context, bankID uint, userID string) ([]byte, error) {
	items, err := s.itemsForExport(ctx, bankID, userID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheetName := "Items"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)

	for i, header := range importColumns {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}
	for rowIndex, item := range items {
		for colIndex, value := range s.itemToRow(item) {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *importExportService) itemsForExport(ctx context.Context, bankID uint, userID string) ([]*models.Item, error) {
	bank, err := s.repo.Bank().GetByID(ctx, bankID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrBankNotFound
		}
		return nil, fmt.Errorf("failed to get bank: %w", err)
	}
	if bank.CreatedBy != userID {
		return nil, NewPermissionError(userID, bankID, "bank", "export", "not the bank owner")
	}

	filters := repositories.ItemFilters{BankID: &bankID}
	listed, _, err := s.repo.Item().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	// Re-read each with question and answers for the value columns.
	items := make([]*models.Item, 0, len(listed))
	for _, item := range listed {
		detailed, err := s.repo.Item().GetByIDWithDetails(ctx, item.ID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				continue
			}
			return nil, fmt.Errorf("failed to get item %d: %w", item.ID, err)
		}
		items = append(items, detailed)
	}
	return items, nil
}

func (s *importExportService) itemToRow(item *models.Item) []string {
	row := make([]string, len(importColumns))
	row[0] = item.DisplayName

	var choices []models.Choice
	if item.Question != nil {
		row[1] = string(item.Question.Kind)
		row[2] = item.Question.Text
		choices = item.Question.ChoiceList()

		texts := make([]string, len(choices))
		for i, choice := range choices {
			texts[i] = choice.Text
		}
		row[3] = strings.Join(texts, "|")
	}

	choiceIndex := make(map[string]int, len(choices))
	for i, choice := range choices {
		choiceIndex[choice.ID] = i + 1
	}

	var rightAnswers []string
	for i := range item.Answers {
		answer := &item.Answers[i]
		if !models.IsRightAnswer(answer.Genus) {
			continue
		}
		switch {
		case answer.Kind.IsMultipleChoice():
			for _, id := range answer.ChoiceIDList() {
				if index, ok := choiceIndex[id]; ok {
					rightAnswers = append(rightAnswers, strconv.Itoa(index))
				}
			}
		case answer.Kind == models.KindNumericResponse:
			if answer.Decimal != nil {
				row[5] = strconv.FormatFloat(*answer.Decimal, 'f', -1, 64)
			}
			if answer.Tolerance != nil {
				row[6] = strconv.FormatFloat(*answer.Tolerance, 'f', -1, 64)
			}
		}
	}
	row[4] = strings.Join(rightAnswers, ",")

	if item.Solution != nil {
		row[7] = *item.Solution
	}
	row[8] = strings.Join(item.ObjectiveIDs(), ",")

	return row
}

func splitAndTrim(value, sep string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, sep)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
