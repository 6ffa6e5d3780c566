package service

import (
	"context"
	"errors"
	"sync"

	recordserrors "medbook/internal/records/errors"
	"medbook/internal/records/repository"
	"medbook/internal/records/validator"
	"medbook/pkg/auth"
	"medbook/pkg/config"
	apperrors "medbook/pkg/errors"
	"medbook/pkg/model"
	"medbook/pkg/sanitizer"
)

// RecordService manages clinical records. Records are written by business
// members only; clients may read their own history. Records are never
// deleted, amendments update in place with an updated_at trail.
type RecordService interface {
	Create(ctx context.Context, record *model.ClinicalRecord) error
	GetByID(ctx context.Context, id string) (*model.ClinicalRecord, error)
	ListByClient(ctx context.Context, businessID, clientID string, limit int, offset int64) ([]*model.ClinicalRecord, int64, error)
	Update(ctx context.Context, id string, updates *model.ClinicalRecordUpdate) error
}

type recordService struct {
	repo      repository.RecordRepository
	validator *validator.RecordValidator
	cfg       *config.Config
}

func NewRecordService(
	repo repository.RecordRepository,
	validator *validator.RecordValidator,
	cfg *config.Config,
) RecordService {
	return &recordService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *recordService) Create(ctx context.Context, record *model.ClinicalRecord) error {
	if err := requireRecordWriter(ctx, record.BusinessID); err != nil {
		return err
	}

	record.Title = sanitizer.TrimAndNormalize(record.Title)
	record.Notes = sanitizer.NormalizeNotes(record.Notes)

	if err := s.validator.Validate(record); err != nil {
		s.cfg.Log.Warn("Clinical record validation failed", "error", err)
		return apperrors.Validation("Clinical record validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, record); err != nil {
		s.cfg.Log.Error("Failed to create clinical record", "error", err)
		return apperrors.Internal("Failed to create clinical record", err)
	}

	s.cfg.Log.Info("Clinical record created successfully",
		"id", record.ID,
		"business_id", record.BusinessID,
		"client_id", record.ClientID,
	)
	return nil
}

func (s *recordService) GetByID(ctx context.Context, id string) (*model.ClinicalRecord, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Record ID cannot be empty")
	}

	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapErr(err, id)
	}

	if err := authorizeRecordRead(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *recordService) ListByClient(ctx context.Context, businessID, clientID string, limit int, offset int64) ([]*model.ClinicalRecord, int64, error) {
	if businessID == "" || clientID == "" {
		return nil, 0, apperrors.InvalidInput("Business ID and client ID are required")
	}
	if actor, ok := auth.ActorFromContext(ctx); ok {
		if actor.IsClient() {
			if actor.ID != clientID {
				return nil, 0, apperrors.Unauthorized("Clients can only view their own clinical records")
			}
		} else if !actor.IsAdmin() && !actor.SameBusiness(businessID) {
			return nil, 0, apperrors.Unauthorized("Access limited to members of the business")
		}
	}

	var count int64
	var records []*model.ClinicalRecord
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByClient(ctx, businessID, clientID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count clinical records", "client_id", clientID, "error", errCount)
			errCount = apperrors.Internal("Failed to count clinical records", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		records, errFind = s.repo.FindByClient(ctx, businessID, clientID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list clinical records", "client_id", clientID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve clinical records", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return records, count, nil
}

func (s *recordService) Update(ctx context.Context, id string, updates *model.ClinicalRecordUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Record ID cannot be empty")
	}
	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Clinical record update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.mapErr(err, id)
	}
	if err := requireRecordWriter(ctx, existing.BusinessID); err != nil {
		return err
	}

	merged := *existing
	if updates.Title != "" {
		merged.Title = sanitizer.TrimAndNormalize(updates.Title)
	}
	if updates.Notes != "" {
		merged.Notes = sanitizer.NormalizeNotes(updates.Notes)
	}

	if err := s.validator.Validate(&merged); err != nil {
		return apperrors.Validation("Clinical record validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Update(ctx, id, &merged); err != nil {
		return s.mapErr(err, id)
	}

	s.cfg.Log.Info("Clinical record updated successfully", "id", id)
	return nil
}

func (s *recordService) mapErr(err error, id string) error {
	if errors.Is(err, recordserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Clinical record", id)
	}
	if errors.Is(err, recordserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid record ID format")
	}
	return apperrors.Internal("Failed to access clinical record", err)
}

func requireRecordWriter(ctx context.Context, businessID string) error {
	actor, ok := auth.ActorFromContext(ctx)
	if !ok {
		return nil
	}
	if actor.IsClient() {
		return apperrors.Unauthorized("Clients cannot write clinical records")
	}
	if !actor.IsAdmin() && !actor.SameBusiness(businessID) {
		return apperrors.Unauthorized("Access limited to members of the business")
	}
	return nil
}

func authorizeRecordRead(ctx context.Context, record *model.ClinicalRecord) error {
	actor, ok := auth.ActorFromContext(ctx)
	if !ok {
		return nil
	}
	if actor.IsClient() {
		if actor.ID != record.ClientID {
			return apperrors.Unauthorized("Clients can only view their own clinical records")
		}
		return nil
	}
	if !actor.IsAdmin() && !actor.SameBusiness(record.BusinessID) {
		return apperrors.Unauthorized("Access limited to members of the business")
	}
	return nil
}
