package service

import (
	"context"
	"testing"
	"time"

	recordserrors "medbook/internal/records/errors"
	"medbook/internal/records/repository"
	"medbook/internal/records/validator"
	"medbook/pkg/auth"
	"medbook/pkg/config"
	apperrors "medbook/pkg/errors"
	"medbook/pkg/logger"
	"medbook/pkg/model"
)

const (
	testRecordID   = "64a000000000000000000001"
	testBusinessID = "64a000000000000000000002"
	testClientID   = "64a000000000000000000003"
	testSpecID     = "64a000000000000000000004"
	testOtherID    = "64a000000000000000000009"
)

type mockRecordRepository struct {
	createFn        func(ctx context.Context, record *model.ClinicalRecord) error
	findByIDFn      func(ctx context.Context, id string) (*model.ClinicalRecord, error)
	findByClientFn  func(ctx context.Context, businessID, clientID string, limit int, offset int64) ([]*model.ClinicalRecord, error)
	countByClientFn func(ctx context.Context, businessID, clientID string) (int64, error)
	updateFn        func(ctx context.Context, id string, record *model.ClinicalRecord) error
}

func (m *mockRecordRepository) Create(ctx context.Context, record *model.ClinicalRecord) error {
	if m.createFn != nil {
		return m.createFn(ctx, record)
	}
	return nil
}

func (m *mockRecordRepository) FindByID(ctx context.Context, id string) (*model.ClinicalRecord, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return existingRecord(), nil
}

func (m *mockRecordRepository) FindByClient(ctx context.Context, businessID, clientID string, limit int, offset int64) ([]*model.ClinicalRecord, error) {
	if m.findByClientFn != nil {
		return m.findByClientFn(ctx, businessID, clientID, limit, offset)
	}
	return nil, nil
}

func (m *mockRecordRepository) CountByClient(ctx context.Context, businessID, clientID string) (int64, error) {
	if m.countByClientFn != nil {
		return m.countByClientFn(ctx, businessID, clientID)
	}
	return 0, nil
}

func (m *mockRecordRepository) Update(ctx context.Context, id string, record *model.ClinicalRecord) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, record)
	}
	return nil
}

var _ repository.RecordRepository = (*mockRecordRepository)(nil)

func testConfig() *config.Config {
	log := logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	return &config.Config{
		Log:          log,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}

func existingRecord() *model.ClinicalRecord {
	return &model.ClinicalRecord{
		ID:           testRecordID,
		BusinessID:   testBusinessID,
		ClientID:     testClientID,
		SpecialistID: testSpecID,
		Title:        "Initial assessment",
		Notes:        "Full range of motion, mild stiffness.",
	}
}

func newTestService(repo *mockRecordRepository) RecordService {
	cfg := testConfig()
	return NewRecordService(repo, validator.NewRecordValidator(cfg.Log), cfg)
}

func specialistCtx() context.Context {
	return auth.WithActor(context.Background(), auth.Actor{
		ID:         testSpecID,
		Role:       config.RoleSpecialist,
		BusinessID: testBusinessID,
	})
}

func clientCtx(id string) context.Context {
	return auth.WithActor(context.Background(), auth.Actor{ID: id, Role: config.RoleClient})
}

func TestCreate_Success(t *testing.T) {
	var created *model.ClinicalRecord
	repo := &mockRecordRepository{
		createFn: func(_ context.Context, record *model.ClinicalRecord) error {
			created = record
			return nil
		},
	}
	svc := newTestService(repo)

	record := existingRecord()
	record.ID = ""
	record.Title = "  Initial   assessment "
	if err := svc.Create(specialistCtx(), record); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created == nil {
		t.Fatal("repository Create was not called")
	}
	if created.Title != "Initial assessment" {
		t.Errorf("title not normalized: %q", created.Title)
	}
}

func TestCreate_ClientCannotWrite(t *testing.T) {
	svc := newTestService(&mockRecordRepository{})

	err := svc.Create(clientCtx(testClientID), existingRecord())
	if !apperrors.IsCode(err, apperrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestCreate_OtherBusinessStaffCannotWrite(t *testing.T) {
	svc := newTestService(&mockRecordRepository{})

	ctx := auth.WithActor(context.Background(), auth.Actor{
		ID:         testSpecID,
		Role:       config.RoleSpecialist,
		BusinessID: testOtherID,
	})
	err := svc.Create(ctx, existingRecord())
	if !apperrors.IsCode(err, apperrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestCreate_MissingFields(t *testing.T) {
	svc := newTestService(&mockRecordRepository{})

	err := svc.Create(specialistCtx(), &model.ClinicalRecord{BusinessID: testBusinessID})
	if !apperrors.IsCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetByID_ClientReadsOwn(t *testing.T) {
	svc := newTestService(&mockRecordRepository{})

	record, err := svc.GetByID(clientCtx(testClientID), testRecordID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if record.ID != testRecordID {
		t.Errorf("record ID = %q", record.ID)
	}
}

func TestGetByID_ClientCannotReadOthers(t *testing.T) {
	svc := newTestService(&mockRecordRepository{})

	_, err := svc.GetByID(clientCtx(testOtherID), testRecordID)
	if !apperrors.IsCode(err, apperrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo := &mockRecordRepository{
		findByIDFn: func(_ context.Context, _ string) (*model.ClinicalRecord, error) {
			return nil, recordserrors.ErrNotFound
		},
	}
	svc := newTestService(repo)

	_, err := svc.GetByID(specialistCtx(), testRecordID)
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListByClient_ClientSelfOnly(t *testing.T) {
	svc := newTestService(&mockRecordRepository{})

	_, _, err := svc.ListByClient(clientCtx(testOtherID), testBusinessID, testClientID, 10, 0)
	if !apperrors.IsCode(err, apperrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestListByClient_ReturnsCountAndPage(t *testing.T) {
	repo := &mockRecordRepository{
		countByClientFn: func(_ context.Context, _, _ string) (int64, error) { return 3, nil },
		findByClientFn: func(_ context.Context, _, _ string, _ int, _ int64) ([]*model.ClinicalRecord, error) {
			return []*model.ClinicalRecord{existingRecord()}, nil
		},
	}
	svc := newTestService(repo)

	records, count, err := svc.ListByClient(specialistCtx(), testBusinessID, testClientID, 10, 0)
	if err != nil {
		t.Fatalf("ListByClient failed: %v", err)
	}
	if count != 3 || len(records) != 1 {
		t.Errorf("count = %d, page = %d", count, len(records))
	}
}

func TestUpdate_AmendsInPlace(t *testing.T) {
	var updated *model.ClinicalRecord
	repo := &mockRecordRepository{
		updateFn: func(_ context.Context, _ string, record *model.ClinicalRecord) error {
			updated = record
			return nil
		},
	}
	svc := newTestService(repo)

	err := svc.Update(specialistCtx(), testRecordID, &model.ClinicalRecordUpdate{
		Notes: "Improved mobility at follow-up.",
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if updated.Notes != "Improved mobility at follow-up." {
		t.Errorf("notes not amended: %q", updated.Notes)
	}
	if updated.Title != "Initial assessment" {
		t.Errorf("untouched title lost: %q", updated.Title)
	}
}

func TestUpdate_RequiresTitleOrNotes(t *testing.T) {
	svc := newTestService(&mockRecordRepository{})

	err := svc.Update(specialistCtx(), testRecordID, &model.ClinicalRecordUpdate{})
	if !apperrors.IsCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdate_ClientCannotAmend(t *testing.T) {
	svc := newTestService(&mockRecordRepository{})

	err := svc.Update(clientCtx(testClientID), testRecordID, &model.ClinicalRecordUpdate{
		Notes: "self-service edit",
	})
	if !apperrors.IsCode(err, apperrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
