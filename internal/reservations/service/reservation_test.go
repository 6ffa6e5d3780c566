package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	reservationserrors "medbook/internal/reservations/errors"
	"medbook/internal/reservations/validator"
	"medbook/pkg/auth"
	"medbook/pkg/config"
	mongotx "medbook/pkg/db/mongo"
	apperrors "medbook/pkg/errors"
	"medbook/pkg/kafka"
	"medbook/pkg/logger"
	"medbook/pkg/model"
)

const (
	testClientID     = "64a000000000000000000001"
	testBusinessID   = "64a000000000000000000002"
	testSpecialistID = "64a000000000000000000003"
	testServiceID    = "64a000000000000000000004"
	testOtherID      = "64a000000000000000000005"
)

var allWeekdays = []config.Weekday{
	config.Sunday, config.Monday, config.Tuesday, config.Wednesday,
	config.Thursday, config.Friday, config.Saturday,
}

// Mock repositories for testing

type mockReservationRepository struct {
	createFunc          func(ctx context.Context, r *model.Reservation) error
	findByIDFunc        func(ctx context.Context, id string) (*model.Reservation, error)
	findOverlappingFunc func(ctx context.Context, specialistID string, start, end time.Time) ([]*model.Reservation, error)
	updateStatusFunc    func(ctx context.Context, id, fromStatus, toStatus, cancelReason string) error
}

func (m *mockReservationRepository) Create(ctx context.Context, r *model.Reservation) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, r)
	}
	r.ID = testOtherID
	return nil
}

func (m *mockReservationRepository) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, reservationserrors.ErrNotFound
}

func (m *mockReservationRepository) FindOverlapping(ctx context.Context, specialistID string, start, end time.Time) ([]*model.Reservation, error) {
	if m.findOverlappingFunc != nil {
		return m.findOverlappingFunc(ctx, specialistID, start, end)
	}
	return []*model.Reservation{}, nil
}

func (m *mockReservationRepository) FindByClient(ctx context.Context, clientID string, limit int, offset int64) ([]*model.Reservation, error) {
	return []*model.Reservation{}, nil
}

func (m *mockReservationRepository) CountByClient(ctx context.Context, clientID string) (int64, error) {
	return 0, nil
}

func (m *mockReservationRepository) FindByBusiness(ctx context.Context, businessID string, specialistID string, startTime, endTime *time.Time, limit int, offset int64) ([]*model.Reservation, error) {
	return []*model.Reservation{}, nil
}

func (m *mockReservationRepository) CountByBusiness(ctx context.Context, businessID string, specialistID string, startTime, endTime *time.Time) (int64, error) {
	return 0, nil
}

func (m *mockReservationRepository) UpdateStatus(ctx context.Context, id, fromStatus, toStatus, cancelReason string) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, fromStatus, toStatus, cancelReason)
	}
	return nil
}

func (m *mockReservationRepository) FindDueForReminder(ctx context.Context, windowStart, windowEnd time.Time, limit int) ([]*model.Reservation, error) {
	return []*model.Reservation{}, nil
}

func (m *mockReservationRepository) MarkReminderSent(ctx context.Context, id string) error {
	return nil
}

func (m *mockReservationRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockSlotHoldRepository struct {
	createFunc func(ctx context.Context, hold *model.SlotHold) (*model.SlotHold, error)
	deleteFunc func(ctx context.Context, holdID string) error
}

func (m *mockSlotHoldRepository) Create(ctx context.Context, hold *model.SlotHold) (*model.SlotHold, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, hold)
	}
	return hold, nil
}

func (m *mockSlotHoldRepository) Delete(ctx context.Context, holdID string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, holdID)
	}
	return nil
}

type mockCatalogReader struct {
	business   *model.Business
	service    *model.Service
	specialist *model.Specialist
	user       *model.User
}

func (m *mockCatalogReader) FindBusinessByID(ctx context.Context, id string) (*model.Business, error) {
	if m.business == nil {
		return nil, reservationserrors.ErrNotFound
	}
	return m.business, nil
}

func (m *mockCatalogReader) FindServiceByID(ctx context.Context, id string) (*model.Service, error) {
	if m.service == nil {
		return nil, reservationserrors.ErrNotFound
	}
	return m.service, nil
}

func (m *mockCatalogReader) FindSpecialistByID(ctx context.Context, id string) (*model.Specialist, error) {
	if m.specialist == nil {
		return nil, reservationserrors.ErrNotFound
	}
	return m.specialist, nil
}

func (m *mockCatalogReader) FindUserByID(ctx context.Context, id string) (*model.User, error) {
	if m.user == nil {
		return nil, reservationserrors.ErrNotFound
	}
	return m.user, nil
}

type mockPublisher struct {
	events []kafka.ReservationEvent
}

func (m *mockPublisher) Publish(ctx context.Context, event kafka.ReservationEvent) error {
	m.events = append(m.events, event)
	return nil
}

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
		SlotHoldTTL:  10 * time.Second,
	}
}

func healthyCatalog() *mockCatalogReader {
	return &mockCatalogReader{
		business: &model.Business{
			ID:       testBusinessID,
			Name:     "Downtown Clinic",
			TimeZone: "UTC",
			Active:   true,
		},
		service: &model.Service{
			ID:          testServiceID,
			BusinessID:  testBusinessID,
			Name:        "Consultation",
			DurationMin: 60,
			Active:      true,
		},
		specialist: &model.Specialist{
			ID:          testSpecialistID,
			BusinessID:  testBusinessID,
			Name:        "Dr. Example",
			StartOfDay:  "09:00",
			EndOfDay:    "17:00",
			WorkingDays: allWeekdays,
			TimeZone:    "UTC",
			Active:      true,
		},
		user: &model.User{ID: testClientID, Name: "Pat Client"},
	}
}

func newTestService(repo *mockReservationRepository, holds *mockSlotHoldRepository, catalog *mockCatalogReader, publisher EventPublisher) *reservationService {
	cfg := testConfig()
	return &reservationService{
		repo:      repo,
		holdRepo:  holds,
		catalog:   catalog,
		validator: validator.NewReservationValidator(cfg.Log),
		publisher: publisher,
		cfg:       cfg,
	}
}

// futureSlot returns a start time at the given hour (UTC) two days out, well
// inside the default 09:00-17:00 test working window.
func futureSlot(hour int) time.Time {
	day := time.Now().UTC().Add(48 * time.Hour)
	return time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, time.UTC)
}

func validRequest(start time.Time) *model.ReservationRequest {
	return &model.ReservationRequest{
		ClientID:     testClientID,
		BusinessID:   testBusinessID,
		SpecialistID: testSpecialistID,
		ServiceID:    testServiceID,
		StartTime:    start,
	}
}

func duplicateKeyErr() error {
	return mongo.WriteException{
		WriteErrors: []mongo.WriteError{{Code: 11000}},
	}
}

func TestCreate_Success(t *testing.T) {
	publisher := &mockPublisher{}
	svc := newTestService(&mockReservationRepository{}, &mockSlotHoldRepository{}, healthyCatalog(), publisher)

	start := futureSlot(10)
	reservation, err := svc.Create(context.Background(), validRequest(start))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if reservation.Status != config.Pending {
		t.Errorf("expected status %q, got %q", config.Pending, reservation.Status)
	}
	if !reservation.StartTime.Equal(start) {
		t.Errorf("expected start %v, got %v", start, reservation.StartTime)
	}
	if !reservation.EndTime.Equal(start.Add(60 * time.Minute)) {
		t.Errorf("expected end derived from service duration, got %v", reservation.EndTime)
	}
	if len(publisher.events) != 1 || publisher.events[0].EventType != kafka.EventReservationCreated {
		t.Errorf("expected one %s event, got %+v", kafka.EventReservationCreated, publisher.events)
	}
}

func TestCreate_OverlapRejected(t *testing.T) {
	start := futureSlot(10)
	repo := &mockReservationRepository{
		findOverlappingFunc: func(ctx context.Context, specialistID string, s, e time.Time) ([]*model.Reservation, error) {
			return []*model.Reservation{{
				ID:        testOtherID,
				StartTime: start.Add(30 * time.Minute),
				EndTime:   start.Add(90 * time.Minute),
				Status:    config.Confirmed,
			}}, nil
		},
	}
	svc := newTestService(repo, &mockSlotHoldRepository{}, healthyCatalog(), nil)

	_, err := svc.Create(context.Background(), validRequest(start))
	if !apperrors.IsCode(err, apperrors.CodeSlotUnavailable) {
		t.Fatalf("expected slot unavailable error, got %v", err)
	}
}

func TestCreate_BackToBackAllowed(t *testing.T) {
	start := futureSlot(10)
	repo := &mockReservationRepository{
		findOverlappingFunc: func(ctx context.Context, specialistID string, s, e time.Time) ([]*model.Reservation, error) {
			// Ends exactly when the new one starts; half-open intervals
			// make these compatible.
			return []*model.Reservation{{
				ID:        testOtherID,
				StartTime: start.Add(-60 * time.Minute),
				EndTime:   start,
				Status:    config.Confirmed,
			}}, nil
		},
	}
	svc := newTestService(repo, &mockSlotHoldRepository{}, healthyCatalog(), nil)

	if _, err := svc.Create(context.Background(), validRequest(start)); err != nil {
		t.Fatalf("back-to-back slot should be bookable, got %v", err)
	}
}

func TestCreate_InactiveService(t *testing.T) {
	catalog := healthyCatalog()
	catalog.service.Active = false
	svc := newTestService(&mockReservationRepository{}, &mockSlotHoldRepository{}, catalog, nil)

	_, err := svc.Create(context.Background(), validRequest(futureSlot(10)))
	if !apperrors.IsCode(err, apperrors.CodeInactive) {
		t.Fatalf("expected inactive error, got %v", err)
	}
}

func TestCreate_InactiveSpecialist(t *testing.T) {
	catalog := healthyCatalog()
	catalog.specialist.Active = false
	svc := newTestService(&mockReservationRepository{}, &mockSlotHoldRepository{}, catalog, nil)

	_, err := svc.Create(context.Background(), validRequest(futureSlot(10)))
	if !apperrors.IsCode(err, apperrors.CodeInactive) {
		t.Fatalf("expected inactive error, got %v", err)
	}
}

func TestCreate_UnknownService(t *testing.T) {
	catalog := healthyCatalog()
	catalog.service = nil
	svc := newTestService(&mockReservationRepository{}, &mockSlotHoldRepository{}, catalog, nil)

	_, err := svc.Create(context.Background(), validRequest(futureSlot(10)))
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestCreate_PastStartRejected(t *testing.T) {
	svc := newTestService(&mockReservationRepository{}, &mockSlotHoldRepository{}, healthyCatalog(), nil)

	req := validRequest(time.Now().UTC().Add(-2 * time.Hour))
	_, err := svc.Create(context.Background(), req)
	if !apperrors.IsCode(err, apperrors.CodeInvalidInput) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
}

func TestCreate_OutsideWorkingHours(t *testing.T) {
	svc := newTestService(&mockReservationRepository{}, &mockSlotHoldRepository{}, healthyCatalog(), nil)

	_, err := svc.Create(context.Background(), validRequest(futureSlot(20)))
	if !apperrors.IsCode(err, apperrors.CodeSlotUnavailable) {
		t.Fatalf("expected slot unavailable for slot outside working hours, got %v", err)
	}
}

func TestCreate_SlotHoldContention(t *testing.T) {
	holds := &mockSlotHoldRepository{
		createFunc: func(ctx context.Context, hold *model.SlotHold) (*model.SlotHold, error) {
			return nil, duplicateKeyErr()
		},
	}
	svc := newTestService(&mockReservationRepository{}, holds, healthyCatalog(), nil)

	_, err := svc.Create(context.Background(), validRequest(futureSlot(10)))
	if !apperrors.IsCode(err, apperrors.CodeSlotUnavailable) {
		t.Fatalf("expected slot unavailable on hold contention, got %v", err)
	}
}

func TestCreate_UniqueIndexBackstop(t *testing.T) {
	repo := &mockReservationRepository{
		createFunc: func(ctx context.Context, r *model.Reservation) error {
			return duplicateKeyErr()
		},
	}
	svc := newTestService(repo, &mockSlotHoldRepository{}, healthyCatalog(), nil)

	_, err := svc.Create(context.Background(), validRequest(futureSlot(10)))
	if !apperrors.IsCode(err, apperrors.CodeSlotUnavailable) {
		t.Fatalf("expected slot unavailable from duplicate key insert, got %v", err)
	}
}

func TestCreate_ConcurrentSameSlot(t *testing.T) {
	var mu sync.Mutex
	heldSlots := map[string]bool{}
	holds := &mockSlotHoldRepository{
		createFunc: func(ctx context.Context, hold *model.SlotHold) (*model.SlotHold, error) {
			mu.Lock()
			defer mu.Unlock()
			if heldSlots[hold.ID] {
				return nil, duplicateKeyErr()
			}
			heldSlots[hold.ID] = true
			return hold, nil
		},
		deleteFunc: func(ctx context.Context, holdID string) error {
			mu.Lock()
			defer mu.Unlock()
			delete(heldSlots, holdID)
			return nil
		},
	}

	var booked []*model.Reservation
	repo := &mockReservationRepository{
		createFunc: func(ctx context.Context, r *model.Reservation) error {
			mu.Lock()
			defer mu.Unlock()
			for _, existing := range booked {
				if existing.SpecialistID == r.SpecialistID && existing.StartTime.Equal(r.StartTime) {
					return duplicateKeyErr()
				}
			}
			r.ID = testOtherID
			booked = append(booked, r)
			return nil
		},
		findOverlappingFunc: func(ctx context.Context, specialistID string, start, end time.Time) ([]*model.Reservation, error) {
			mu.Lock()
			defer mu.Unlock()
			var overlapping []*model.Reservation
			for _, existing := range booked {
				if existing.StartTime.Before(end) && start.Before(existing.EndTime) {
					overlapping = append(overlapping, existing)
				}
			}
			return overlapping, nil
		},
	}
	svc := newTestService(repo, holds, healthyCatalog(), nil)

	start := futureSlot(10)
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := svc.Create(context.Background(), validRequest(start))
			results <- err
		}()
	}

	var successes, rejections int
	for i := 0; i < 2; i++ {
		err := <-results
		switch {
		case err == nil:
			successes++
		case apperrors.IsCode(err, apperrors.CodeSlotUnavailable):
			rejections++
		default:
			t.Fatalf("unexpected error from concurrent create: %v", err)
		}
	}
	if successes != 1 || rejections != 1 {
		t.Fatalf("expected exactly one booking and one slot-unavailable rejection, got %d and %d", successes, rejections)
	}
	if len(booked) != 1 {
		t.Fatalf("expected exactly one stored reservation, got %d", len(booked))
	}
}

func TestCreate_ReleasesHoldAfterFailure(t *testing.T) {
	var deletedHoldID string
	holds := &mockSlotHoldRepository{
		deleteFunc: func(ctx context.Context, holdID string) error {
			deletedHoldID = holdID
			return nil
		},
	}
	repo := &mockReservationRepository{
		createFunc: func(ctx context.Context, r *model.Reservation) error {
			return duplicateKeyErr()
		},
	}
	svc := newTestService(repo, holds, healthyCatalog(), nil)

	_, _ = svc.Create(context.Background(), validRequest(futureSlot(10)))
	if deletedHoldID == "" {
		t.Fatal("slot hold was not released after a failed create")
	}
}

func TestCreate_ClientCannotBookForOthers(t *testing.T) {
	svc := newTestService(&mockReservationRepository{}, &mockSlotHoldRepository{}, healthyCatalog(), nil)

	ctx := auth.WithActor(context.Background(), auth.Actor{
		ID:   testOtherID,
		Role: config.RoleClient,
	})
	_, err := svc.Create(ctx, validRequest(futureSlot(10)))
	if !apperrors.IsCode(err, apperrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestCreate_MissingFields(t *testing.T) {
	svc := newTestService(&mockReservationRepository{}, &mockSlotHoldRepository{}, healthyCatalog(), nil)

	req := validRequest(futureSlot(10))
	req.SpecialistID = ""
	_, err := svc.Create(context.Background(), req)
	if !apperrors.IsCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateStatus_TransitionTable(t *testing.T) {
	allStatuses := []string{config.Pending, config.Confirmed, config.Cancelled, config.Completed, config.NoShow}
	allowed := map[string]map[string]bool{
		config.Pending:   {config.Confirmed: true, config.Cancelled: true},
		config.Confirmed: {config.Completed: true, config.Cancelled: true, config.NoShow: true},
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			repo := &mockReservationRepository{
				findByIDFunc: func(ctx context.Context, id string) (*model.Reservation, error) {
					return &model.Reservation{
						ID:           testOtherID,
						ClientID:     testClientID,
						BusinessID:   testBusinessID,
						SpecialistID: testSpecialistID,
						ServiceID:    testServiceID,
						Status:       from,
					}, nil
				},
			}
			svc := newTestService(repo, &mockSlotHoldRepository{}, healthyCatalog(), nil)

			_, err := svc.UpdateStatus(context.Background(), testOtherID, &model.StatusUpdate{Status: to})

			if allowed[from][to] {
				if err != nil {
					t.Errorf("%s -> %s should be allowed, got %v", from, to, err)
				}
			} else {
				if !apperrors.IsCode(err, apperrors.CodeInvalidTransition) {
					t.Errorf("%s -> %s should be an invalid transition, got %v", from, to, err)
				}
			}
		}
	}
}

func TestUpdateStatus_ConcurrentChange(t *testing.T) {
	repo := &mockReservationRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Reservation, error) {
			return &model.Reservation{
				ID:         testOtherID,
				ClientID:   testClientID,
				BusinessID: testBusinessID,
				Status:     config.Pending,
			}, nil
		},
		updateStatusFunc: func(ctx context.Context, id, fromStatus, toStatus, cancelReason string) error {
			return reservationserrors.ErrStatusChanged
		},
	}
	svc := newTestService(repo, &mockSlotHoldRepository{}, healthyCatalog(), nil)

	_, err := svc.UpdateStatus(context.Background(), testOtherID, &model.StatusUpdate{Status: config.Confirmed})
	if !apperrors.IsCode(err, apperrors.CodeConflict) {
		t.Fatalf("expected conflict on concurrent status change, got %v", err)
	}
}

func TestUpdateStatus_ClientCanCancelOwn(t *testing.T) {
	publisher := &mockPublisher{}
	repo := &mockReservationRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Reservation, error) {
			return &model.Reservation{
				ID:         testOtherID,
				ClientID:   testClientID,
				BusinessID: testBusinessID,
				Status:     config.Confirmed,
			}, nil
		},
	}
	svc := newTestService(repo, &mockSlotHoldRepository{}, healthyCatalog(), publisher)

	ctx := auth.WithActor(context.Background(), auth.Actor{ID: testClientID, Role: config.RoleClient})
	reservation, err := svc.UpdateStatus(ctx, testOtherID, &model.StatusUpdate{
		Status:       config.Cancelled,
		CancelReason: "can no longer make it",
	})
	if err != nil {
		t.Fatalf("client cancelling own reservation should succeed, got %v", err)
	}
	if reservation.Status != config.Cancelled {
		t.Errorf("expected cancelled status, got %q", reservation.Status)
	}
	if len(publisher.events) != 1 || publisher.events[0].EventType != kafka.EventReservationCancelled {
		t.Errorf("expected one %s event, got %+v", kafka.EventReservationCancelled, publisher.events)
	}
}

func TestUpdateStatus_ClientCannotConfirm(t *testing.T) {
	repo := &mockReservationRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Reservation, error) {
			return &model.Reservation{
				ID:         testOtherID,
				ClientID:   testClientID,
				BusinessID: testBusinessID,
				Status:     config.Pending,
			}, nil
		},
	}
	svc := newTestService(repo, &mockSlotHoldRepository{}, healthyCatalog(), nil)

	ctx := auth.WithActor(context.Background(), auth.Actor{ID: testClientID, Role: config.RoleClient})
	_, err := svc.UpdateStatus(ctx, testOtherID, &model.StatusUpdate{Status: config.Confirmed})
	if !apperrors.IsCode(err, apperrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestUpdateStatus_SameBusinessStaffCanConfirm(t *testing.T) {
	repo := &mockReservationRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Reservation, error) {
			return &model.Reservation{
				ID:           testOtherID,
				ClientID:     testClientID,
				BusinessID:   testBusinessID,
				SpecialistID: testSpecialistID,
				Status:       config.Pending,
			}, nil
		},
	}
	svc := newTestService(repo, &mockSlotHoldRepository{}, healthyCatalog(), nil)

	// A staff account that is not the assigned specialist: transitions are
	// gated on business membership, not on the assignment.
	ctx := auth.WithActor(context.Background(), auth.Actor{
		ID:         testOtherID,
		Role:       config.RoleSpecialist,
		BusinessID: testBusinessID,
	})
	reservation, err := svc.UpdateStatus(ctx, testOtherID, &model.StatusUpdate{Status: config.Confirmed})
	if err != nil {
		t.Fatalf("same-business staff confirming should succeed, got %v", err)
	}
	if reservation.Status != config.Confirmed {
		t.Errorf("expected confirmed status, got %q", reservation.Status)
	}
}

func TestUpdateStatus_SpecialistFromOtherBusiness(t *testing.T) {
	repo := &mockReservationRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Reservation, error) {
			return &model.Reservation{
				ID:         testOtherID,
				ClientID:   testClientID,
				BusinessID: testBusinessID,
				Status:     config.Pending,
			}, nil
		},
	}
	svc := newTestService(repo, &mockSlotHoldRepository{}, healthyCatalog(), nil)

	ctx := auth.WithActor(context.Background(), auth.Actor{
		ID:         testSpecialistID,
		Role:       config.RoleSpecialist,
		BusinessID: testOtherID,
	})
	_, err := svc.UpdateStatus(ctx, testOtherID, &model.StatusUpdate{Status: config.Confirmed})
	if !apperrors.IsCode(err, apperrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestGetByID_ClientCannotReadOthers(t *testing.T) {
	repo := &mockReservationRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Reservation, error) {
			return &model.Reservation{
				ID:         testOtherID,
				ClientID:   testClientID,
				BusinessID: testBusinessID,
				Status:     config.Pending,
			}, nil
		},
	}
	svc := newTestService(repo, &mockSlotHoldRepository{}, healthyCatalog(), nil)

	ctx := auth.WithActor(context.Background(), auth.Actor{ID: testOtherID, Role: config.RoleClient})
	_, err := svc.GetByID(ctx, testOtherID)
	if !apperrors.IsCode(err, apperrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestGetDetail_ResolvesNames(t *testing.T) {
	repo := &mockReservationRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Reservation, error) {
			return &model.Reservation{
				ID:           testOtherID,
				ClientID:     testClientID,
				BusinessID:   testBusinessID,
				SpecialistID: testSpecialistID,
				ServiceID:    testServiceID,
				Status:       config.Confirmed,
			}, nil
		},
	}
	svc := newTestService(repo, &mockSlotHoldRepository{}, healthyCatalog(), nil)

	detail, err := svc.GetDetail(context.Background(), testOtherID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.ClientName != "Pat Client" {
		t.Errorf("expected client name resolved, got %q", detail.ClientName)
	}
	if detail.SpecialistName != "Dr. Example" {
		t.Errorf("expected specialist name resolved, got %q", detail.SpecialistName)
	}
	if detail.ServiceName != "Consultation" {
		t.Errorf("expected service name resolved, got %q", detail.ServiceName)
	}
	if detail.BusinessName != "Downtown Clinic" {
		t.Errorf("expected business name resolved, got %q", detail.BusinessName)
	}
}

func TestCheckAvailability_GeneratesSlots(t *testing.T) {
	day := time.Now().UTC().Add(72 * time.Hour)
	date := day.Format("2006-01-02")
	blockedStart := time.Date(day.Year(), day.Month(), day.Day(), 10, 0, 0, 0, time.UTC)

	repo := &mockReservationRepository{
		findOverlappingFunc: func(ctx context.Context, specialistID string, s, e time.Time) ([]*model.Reservation, error) {
			return []*model.Reservation{{
				ID:        testOtherID,
				StartTime: blockedStart,
				EndTime:   blockedStart.Add(60 * time.Minute),
				Status:    config.Confirmed,
			}}, nil
		},
	}
	svc := newTestService(repo, &mockSlotHoldRepository{}, healthyCatalog(), nil)

	availability, err := svc.CheckAvailability(context.Background(), testSpecialistID, testServiceID, date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 09:00-17:00 with 60-minute slots yields 8 candidates; 10:00 is taken.
	if len(availability.AvailableStarts) != 7 {
		t.Fatalf("expected 7 free slots, got %d: %v", len(availability.AvailableStarts), availability.AvailableStarts)
	}
	for _, start := range availability.AvailableStarts {
		if start.Equal(blockedStart) {
			t.Errorf("blocked slot %v offered as available", start)
		}
	}
	if availability.SlotDurationMin != 60 {
		t.Errorf("expected slot duration 60, got %d", availability.SlotDurationMin)
	}
}

func TestCheckAvailability_NonWorkingDay(t *testing.T) {
	day := time.Now().UTC().Add(72 * time.Hour)
	date := day.Format("2006-01-02")

	catalog := healthyCatalog()
	var workingDays []config.Weekday
	for _, wd := range allWeekdays {
		if string(wd) != day.Weekday().String() {
			workingDays = append(workingDays, wd)
		}
	}
	catalog.specialist.WorkingDays = workingDays

	svc := newTestService(&mockReservationRepository{}, &mockSlotHoldRepository{}, catalog, nil)

	availability, err := svc.CheckAvailability(context.Background(), testSpecialistID, testServiceID, date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(availability.AvailableStarts) != 0 {
		t.Errorf("expected no slots on a non-working day, got %d", len(availability.AvailableStarts))
	}
}

func TestCheckAvailability_PastSlotPolicy(t *testing.T) {
	day := time.Now().UTC().Add(-72 * time.Hour)
	date := day.Format("2006-01-02")

	svc := newTestService(&mockReservationRepository{}, &mockSlotHoldRepository{}, healthyCatalog(), nil)

	availability, err := svc.CheckAvailability(context.Background(), testSpecialistID, testServiceID, date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(availability.AvailableStarts) != 0 {
		t.Errorf("expected past slots excluded by default, got %d", len(availability.AvailableStarts))
	}

	svc.cfg.AvailabilityIncludePast = true
	availability, err = svc.CheckAvailability(context.Background(), testSpecialistID, testServiceID, date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(availability.AvailableStarts) != 8 {
		t.Errorf("expected 8 slots when past slots are included, got %d", len(availability.AvailableStarts))
	}
}

func TestCheckAvailability_InactiveSpecialist(t *testing.T) {
	catalog := healthyCatalog()
	catalog.specialist.Active = false
	svc := newTestService(&mockReservationRepository{}, &mockSlotHoldRepository{}, catalog, nil)

	date := time.Now().UTC().Add(72 * time.Hour).Format("2006-01-02")
	_, err := svc.CheckAvailability(context.Background(), testSpecialistID, testServiceID, date)
	if !apperrors.IsCode(err, apperrors.CodeInactive) {
		t.Fatalf("expected inactive error, got %v", err)
	}
}

func TestCheckAvailability_BadDate(t *testing.T) {
	svc := newTestService(&mockReservationRepository{}, &mockSlotHoldRepository{}, healthyCatalog(), nil)

	_, err := svc.CheckAvailability(context.Background(), testSpecialistID, testServiceID, "28-08-2026")
	if !apperrors.IsCode(err, apperrors.CodeInvalidInput) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
}

func TestOverlaps(t *testing.T) {
	base := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		s1, e1   time.Time
		s2, e2   time.Time
		expected bool
	}{
		{"identical", base, base.Add(time.Hour), base, base.Add(time.Hour), true},
		{"partial overlap", base, base.Add(time.Hour), base.Add(30 * time.Minute), base.Add(90 * time.Minute), true},
		{"contained", base, base.Add(2 * time.Hour), base.Add(30 * time.Minute), base.Add(time.Hour), true},
		{"back to back", base, base.Add(time.Hour), base.Add(time.Hour), base.Add(2 * time.Hour), false},
		{"disjoint", base, base.Add(time.Hour), base.Add(3 * time.Hour), base.Add(4 * time.Hour), false},
	}

	for _, tc := range cases {
		if got := overlaps(tc.s1, tc.e1, tc.s2, tc.e2); got != tc.expected {
			t.Errorf("%s: overlaps() = %v, expected %v", tc.name, got, tc.expected)
		}
	}
}
