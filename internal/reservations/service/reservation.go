package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	reservationserrors "medbook/internal/reservations/errors"
	"medbook/internal/reservations/repository"
	"medbook/internal/reservations/validator"
	"medbook/pkg/auth"
	"medbook/pkg/config"
	apperrors "medbook/pkg/errors"
	"medbook/pkg/kafka"
	"medbook/pkg/model"
	"medbook/pkg/sanitizer"
)

// EventPublisher fans reservation lifecycle events out to interested
// consumers. Publish failures never fail the booking itself.
type EventPublisher interface {
	Publish(ctx context.Context, event kafka.ReservationEvent) error
}

type ReservationService interface {
	Create(ctx context.Context, req *model.ReservationRequest) (*model.Reservation, error)
	GetByID(ctx context.Context, id string) (*model.Reservation, error)
	GetDetail(ctx context.Context, id string) (*model.ReservationDetail, error)
	ListByClient(ctx context.Context, clientID string, limit int, offset int64) ([]*model.Reservation, int64, error)
	ListByBusiness(ctx context.Context, businessID string, specialistID string, startTime, endTime *time.Time, limit int, offset int64) ([]*model.Reservation, int64, error)
	UpdateStatus(ctx context.Context, id string, update *model.StatusUpdate) (*model.Reservation, error)
	CheckAvailability(ctx context.Context, specialistID, serviceID, date string) (*model.Availability, error)
}

// allowedTransitions is the reservation state machine. Anything absent is an
// invalid transition; terminal statuses have no outgoing edges.
var allowedTransitions = map[string][]string{
	config.Pending:   {config.Confirmed, config.Cancelled},
	config.Confirmed: {config.Completed, config.Cancelled, config.NoShow},
}

type reservationService struct {
	repo      repository.ReservationRepository
	holdRepo  repository.SlotHoldRepository
	catalog   repository.CatalogReader
	validator *validator.ReservationValidator
	publisher EventPublisher
	cfg       *config.Config
}

func NewReservationService(
	repo repository.ReservationRepository,
	holdRepo repository.SlotHoldRepository,
	catalog repository.CatalogReader,
	validator *validator.ReservationValidator,
	publisher EventPublisher,
	cfg *config.Config,
) ReservationService {
	return &reservationService{
		repo:      repo,
		holdRepo:  holdRepo,
		catalog:   catalog,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *reservationService) Create(ctx context.Context, req *model.ReservationRequest) (*model.Reservation, error) {
	req.Notes = sanitizer.NormalizeNotes(req.Notes)
	if err := s.validator.ValidateRequest(req); err != nil {
		s.cfg.Log.Warn("Reservation request validation failed", "error", err)
		return nil, apperrors.Validation("Reservation validation failed", map[string]any{"error": err.Error()})
	}

	if actor, ok := auth.ActorFromContext(ctx); ok && actor.IsClient() && actor.ID != req.ClientID {
		return nil, apperrors.Unauthorized("Clients can only book appointments for themselves")
	}

	svc, specialist, err := s.loadBookableTargets(ctx, req)
	if err != nil {
		return nil, err
	}

	startTime := req.StartTime.UTC().Truncate(time.Minute)
	if startTime.Before(time.Now().UTC()) {
		return nil, apperrors.InvalidInput("start_time cannot be in the past")
	}
	endTime := startTime.Add(time.Duration(svc.DurationMin) * time.Minute)

	if err := s.checkWorkingWindow(ctx, specialist, startTime, endTime); err != nil {
		return nil, err
	}

	reservation := &model.Reservation{
		ClientID:     req.ClientID,
		BusinessID:   req.BusinessID,
		SpecialistID: req.SpecialistID,
		ServiceID:    req.ServiceID,
		StartTime:    startTime,
		EndTime:      endTime,
		Status:       config.Pending,
		Notes:        req.Notes,
	}
	if err := s.validator.Validate(reservation); err != nil {
		return nil, apperrors.Validation("Reservation validation failed", map[string]any{"error": err.Error()})
	}

	// Advisory hold serializes concurrent attempts on the same slot before
	// the transaction even starts.
	holdID, err := s.acquireSlotHold(ctx, reservation.SpecialistID, reservation.StartTime)
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := s.releaseSlotHold(ctx, holdID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release slot hold", "hold_id", holdID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyNoOverlap(sessCtx, reservation); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, reservation); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				// Partial unique index on (specialist_id, start_time) for
				// blocking statuses is the storage-level backstop.
				return apperrors.SlotUnavailable("The requested time slot was just taken")
			}
			return apperrors.Internal("Failed to create reservation", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create reservation", "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Reservation created successfully",
		"id", reservation.ID,
		"business_id", reservation.BusinessID,
		"specialist_id", reservation.SpecialistID,
		"start_time", reservation.StartTime,
	)
	s.publishEvent(ctx, kafka.EventReservationCreated, reservation, "")
	return reservation, nil
}

func (s *reservationService) loadBookableTargets(ctx context.Context, req *model.ReservationRequest) (*model.Service, *model.Specialist, error) {
	svc, err := s.catalog.FindServiceByID(ctx, req.ServiceID)
	if err != nil {
		return nil, nil, s.mapCatalogError(err, "Service", req.ServiceID)
	}
	if svc.BusinessID != req.BusinessID {
		return nil, nil, apperrors.InvalidInput("Service does not belong to the given business")
	}
	if !svc.Active {
		return nil, nil, apperrors.Inactive("Service")
	}

	specialist, err := s.catalog.FindSpecialistByID(ctx, req.SpecialistID)
	if err != nil {
		return nil, nil, s.mapCatalogError(err, "Specialist", req.SpecialistID)
	}
	if specialist.BusinessID != req.BusinessID {
		return nil, nil, apperrors.InvalidInput("Specialist does not belong to the given business")
	}
	if !specialist.Active {
		return nil, nil, apperrors.Inactive("Specialist")
	}

	business, err := s.catalog.FindBusinessByID(ctx, req.BusinessID)
	if err != nil {
		return nil, nil, s.mapCatalogError(err, "Business", req.BusinessID)
	}
	if !business.Active {
		return nil, nil, apperrors.Inactive("Business")
	}

	return svc, specialist, nil
}

func (s *reservationService) mapCatalogError(err error, resource, id string) error {
	if errors.Is(err, reservationserrors.ErrNotFound) {
		return apperrors.NotFoundWithID(resource, id)
	}
	if errors.Is(err, reservationserrors.ErrInvalidID) {
		return apperrors.InvalidInput(fmt.Sprintf("Invalid %s ID format", resource))
	}
	return apperrors.Internal(fmt.Sprintf("Failed to retrieve %s", resource), err)
}

// checkWorkingWindow rejects slots that fall outside the specialist's working
// days or daily window, evaluated in the specialist's timezone.
func (s *reservationService) checkWorkingWindow(ctx context.Context, specialist *model.Specialist, start, end time.Time) error {
	loc, err := s.specialistLocation(ctx, specialist)
	if err != nil {
		return err
	}

	localStart := start.In(loc)
	if !s.isWorkingDay(specialist, localStart.Weekday()) {
		return apperrors.SlotUnavailable(fmt.Sprintf("Specialist does not work on %s", localStart.Weekday()))
	}

	dayStart, dayEnd, err := dayWindow(localStart, specialist.StartOfDay, specialist.EndOfDay, loc)
	if err != nil {
		return err
	}
	if start.Before(dayStart) || end.After(dayEnd) {
		return apperrors.SlotUnavailable(fmt.Sprintf(
			"Requested slot is outside working hours (%s - %s)",
			specialist.StartOfDay, specialist.EndOfDay,
		))
	}
	return nil
}

func (s *reservationService) specialistLocation(ctx context.Context, specialist *model.Specialist) (*time.Location, error) {
	tz := specialist.TimeZone
	if tz == "" {
		business, err := s.catalog.FindBusinessByID(ctx, specialist.BusinessID)
		if err != nil {
			return nil, s.mapCatalogError(err, "Business", specialist.BusinessID)
		}
		tz = business.TimeZone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, apperrors.Internal("Invalid specialist timezone", err)
	}
	return loc, nil
}

func (s *reservationService) isWorkingDay(specialist *model.Specialist, weekday time.Weekday) bool {
	for _, day := range specialist.WorkingDays {
		if string(day) == weekday.String() {
			return true
		}
	}
	return false
}

// dayWindow anchors the HH:MM working window onto the calendar day of t.
func dayWindow(t time.Time, startOfDay, endOfDay string, loc *time.Location) (time.Time, time.Time, error) {
	start, err := atDayTime(t, startOfDay, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := atDayTime(t, endOfDay, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func atDayTime(t time.Time, dayTime string, loc *time.Location) (time.Time, error) {
	parsed, err := time.Parse("15:04", dayTime)
	if err != nil {
		return time.Time{}, apperrors.Internal("Invalid working window format", err)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), parsed.Hour(), parsed.Minute(), 0, 0, loc), nil
}

func (s *reservationService) verifyNoOverlap(ctx context.Context, reservation *model.Reservation) error {
	existing, err := s.repo.FindOverlapping(ctx, reservation.SpecialistID, reservation.StartTime, reservation.EndTime)
	if err != nil {
		return apperrors.Internal("Failed to check existing reservations", err)
	}

	for _, r := range existing {
		if r.ID == reservation.ID {
			continue
		}
		if overlaps(r.StartTime, r.EndTime, reservation.StartTime, reservation.EndTime) {
			return apperrors.SlotUnavailable(fmt.Sprintf(
				"Requested slot overlaps an existing reservation (%s - %s)",
				r.StartTime.Format(time.RFC3339),
				r.EndTime.Format(time.RFC3339),
			))
		}
	}
	return nil
}

// overlaps reports whether two half-open intervals [start1, end1) and
// [start2, end2) intersect. Back-to-back slots do not overlap.
func overlaps(start1, end1, start2, end2 time.Time) bool {
	return start1.Before(end2) && end1.After(start2)
}

// acquireSlotHold creates an advisory hold keyed by slot coordinates.
// Returns conflict if another request already holds the slot.
func (s *reservationService) acquireSlotHold(ctx context.Context, specialistID string, startTime time.Time) (string, error) {
	holdID := fmt.Sprintf("slot_hold_%s_%d", specialistID, startTime.Unix())

	hold := &model.SlotHold{
		ID:        holdID,
		ExpiresAt: time.Now().Add(s.cfg.SlotHoldTTL),
	}

	_, err := s.holdRepo.Create(ctx, hold)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.SlotUnavailable("This time slot is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire slot hold", err)
	}

	return holdID, nil
}

func (s *reservationService) releaseSlotHold(ctx context.Context, holdID string) error {
	return s.holdRepo.Delete(ctx, holdID)
}

func (s *reservationService) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	reservation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Reservation", id)
		}
		if errors.Is(err, reservationserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid reservation ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve reservation", err)
	}

	if err := s.authorizeRead(ctx, reservation); err != nil {
		return nil, err
	}
	return reservation, nil
}

func (s *reservationService) GetDetail(ctx context.Context, id string) (*model.ReservationDetail, error) {
	reservation, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &model.ReservationDetail{Reservation: *reservation}

	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		if user, err := s.catalog.FindUserByID(ctx, reservation.ClientID); err == nil {
			detail.ClientName = user.Name
		} else {
			s.cfg.Log.Warn("Failed to resolve client name", "client_id", reservation.ClientID, "error", err)
		}
	}()
	go func() {
		defer wg.Done()
		if specialist, err := s.catalog.FindSpecialistByID(ctx, reservation.SpecialistID); err == nil {
			detail.SpecialistName = specialist.Name
		} else {
			s.cfg.Log.Warn("Failed to resolve specialist name", "specialist_id", reservation.SpecialistID, "error", err)
		}
	}()
	go func() {
		defer wg.Done()
		if svc, err := s.catalog.FindServiceByID(ctx, reservation.ServiceID); err == nil {
			detail.ServiceName = svc.Name
		} else {
			s.cfg.Log.Warn("Failed to resolve service name", "service_id", reservation.ServiceID, "error", err)
		}
	}()
	go func() {
		defer wg.Done()
		if business, err := s.catalog.FindBusinessByID(ctx, reservation.BusinessID); err == nil {
			detail.BusinessName = business.Name
		} else {
			s.cfg.Log.Warn("Failed to resolve business name", "business_id", reservation.BusinessID, "error", err)
		}
	}()

	wg.Wait()
	return detail, nil
}

func (s *reservationService) ListByClient(ctx context.Context, clientID string, limit int, offset int64) ([]*model.Reservation, int64, error) {
	if clientID == "" {
		return nil, 0, apperrors.InvalidInput("Client ID cannot be empty")
	}
	if actor, ok := auth.ActorFromContext(ctx); ok && actor.IsClient() && actor.ID != clientID {
		return nil, 0, apperrors.Unauthorized("Clients can only list their own reservations")
	}

	var count int64
	var reservations []*model.Reservation
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByClient(ctx, clientID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count reservations by client", "client_id", clientID, "error", errCount)
			errCount = apperrors.Internal("Failed to count reservations", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		reservations, errFind = s.repo.FindByClient(ctx, clientID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list reservations by client", "client_id", clientID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve reservations", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return reservations, count, nil
}

func (s *reservationService) ListByBusiness(ctx context.Context, businessID string, specialistID string, startTime, endTime *time.Time, limit int, offset int64) ([]*model.Reservation, int64, error) {
	if businessID == "" {
		return nil, 0, apperrors.InvalidInput("Business ID cannot be empty")
	}
	if actor, ok := auth.ActorFromContext(ctx); ok {
		if actor.IsClient() {
			return nil, 0, apperrors.Unauthorized("Clients cannot list business reservations")
		}
		if !actor.IsAdmin() && !actor.SameBusiness(businessID) {
			return nil, 0, apperrors.Unauthorized("Access limited to members of the business")
		}
	}

	var count int64
	var reservations []*model.Reservation
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.CountByBusiness(ctx, businessID, specialistID, startTime, endTime)
		if err != nil {
			s.cfg.Log.Error("Failed to count reservations by search",
				"business_id", businessID,
				"specialist_id", specialistID,
				"error", err,
			)
			errCount = apperrors.Internal("Failed to count reservations", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		reservations, err = s.repo.FindByBusiness(ctx, businessID, specialistID, startTime, endTime, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to search reservations",
				"business_id", businessID,
				"specialist_id", specialistID,
				"limit", limit,
				"offset", offset,
				"error", err,
			)
			errFind = apperrors.Internal("Failed to search reservations", err)
		}
	}()

	wg.Wait()

	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	s.cfg.Log.Debug("Reservation search completed",
		"business_id", businessID,
		"specialist_id", specialistID,
		"count", len(reservations),
		"total_count", count,
	)
	return reservations, count, nil
}

func (s *reservationService) UpdateStatus(ctx context.Context, id string, update *model.StatusUpdate) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}
	update.CancelReason = sanitizer.NormalizeNotes(update.CancelReason)
	if err := s.validator.ValidateStatusUpdate(update); err != nil {
		s.cfg.Log.Warn("Status update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid status update", map[string]any{"error": err.Error()})
	}

	reservation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Reservation", id)
		}
		if errors.Is(err, reservationserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid reservation ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve reservation", err)
	}

	if err := s.authorizeTransition(ctx, reservation, update.Status); err != nil {
		return nil, err
	}
	if !transitionAllowed(reservation.Status, update.Status) {
		return nil, apperrors.InvalidTransition(reservation.Status, update.Status)
	}

	previous := reservation.Status
	err = s.repo.UpdateStatus(ctx, id, previous, update.Status, update.CancelReason)
	if err != nil {
		if errors.Is(err, reservationserrors.ErrStatusChanged) {
			return nil, apperrors.Conflict("Reservation status changed concurrently, please retry")
		}
		if errors.Is(err, reservationserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Reservation", id)
		}
		return nil, apperrors.Internal("Failed to update reservation status", err)
	}

	reservation.Status = update.Status
	if update.CancelReason != "" {
		reservation.CancelReason = update.CancelReason
	}

	s.cfg.Log.Info("Reservation status updated",
		"id", id,
		"from", previous,
		"to", update.Status,
	)
	s.publishEvent(ctx, eventTypeForStatus(update.Status), reservation, previous)
	return reservation, nil
}

func transitionAllowed(from, to string) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// authorizeTransition enforces who may move a reservation where: clients may
// only cancel their own reservations, business members cover the rest. Staff
// are not matched against the assigned specialist: front-desk accounts confirm
// and close out appointments for the whole business, and identity accounts
// carry no link to catalog specialist records.
func (s *reservationService) authorizeTransition(ctx context.Context, reservation *model.Reservation, toStatus string) error {
	actor, ok := auth.ActorFromContext(ctx)
	if !ok {
		return nil
	}

	if actor.IsClient() {
		if actor.ID != reservation.ClientID {
			return apperrors.Unauthorized("Clients can only modify their own reservations")
		}
		if toStatus != config.Cancelled {
			return apperrors.Unauthorized("Clients can only cancel reservations")
		}
		return nil
	}

	if !actor.IsAdmin() && !actor.SameBusiness(reservation.BusinessID) {
		return apperrors.Unauthorized("Access limited to members of the business")
	}
	return nil
}

func (s *reservationService) authorizeRead(ctx context.Context, reservation *model.Reservation) error {
	actor, ok := auth.ActorFromContext(ctx)
	if !ok {
		return nil
	}
	if actor.IsClient() {
		if actor.ID != reservation.ClientID {
			return apperrors.Unauthorized("Clients can only view their own reservations")
		}
		return nil
	}
	if !actor.IsAdmin() && !actor.SameBusiness(reservation.BusinessID) {
		return apperrors.Unauthorized("Access limited to members of the business")
	}
	return nil
}

func (s *reservationService) CheckAvailability(ctx context.Context, specialistID, serviceID, date string) (*model.Availability, error) {
	if specialistID == "" || serviceID == "" || date == "" {
		return nil, apperrors.InvalidInput("specialist_id, service_id and date are required")
	}

	specialist, err := s.catalog.FindSpecialistByID(ctx, specialistID)
	if err != nil {
		return nil, s.mapCatalogError(err, "Specialist", specialistID)
	}
	if !specialist.Active {
		return nil, apperrors.Inactive("Specialist")
	}

	svc, err := s.catalog.FindServiceByID(ctx, serviceID)
	if err != nil {
		return nil, s.mapCatalogError(err, "Service", serviceID)
	}
	if !svc.Active {
		return nil, apperrors.Inactive("Service")
	}
	if svc.BusinessID != specialist.BusinessID {
		return nil, apperrors.InvalidInput("Service and specialist belong to different businesses")
	}

	loc, err := s.specialistLocation(ctx, specialist)
	if err != nil {
		return nil, err
	}

	day, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return nil, apperrors.InvalidInput("date must be in YYYY-MM-DD format")
	}

	availability := &model.Availability{
		SpecialistID:    specialistID,
		ServiceID:       serviceID,
		Date:            date,
		SlotDurationMin: svc.DurationMin,
		AvailableStarts: []time.Time{},
	}

	if !s.isWorkingDay(specialist, day.Weekday()) {
		return availability, nil
	}

	dayStart, dayEnd, err := dayWindow(day, specialist.StartOfDay, specialist.EndOfDay, loc)
	if err != nil {
		return nil, err
	}

	blocking, err := s.repo.FindOverlapping(ctx, specialistID, dayStart.UTC(), dayEnd.UTC())
	if err != nil {
		return nil, apperrors.Internal("Failed to load existing reservations", err)
	}

	availability.AvailableStarts = s.generateSlots(dayStart, dayEnd, svc.DurationMin, blocking)
	return availability, nil
}

// generateSlots walks the working window in duration-sized steps and keeps
// every start whose slot fits the window and overlaps no blocking
// reservation. Past slots are excluded unless configured otherwise.
func (s *reservationService) generateSlots(dayStart, dayEnd time.Time, durationMin int, blocking []*model.Reservation) []time.Time {
	duration := time.Duration(durationMin) * time.Minute
	now := time.Now()

	slots := []time.Time{}
	for start := dayStart; !start.Add(duration).After(dayEnd); start = start.Add(duration) {
		if !s.cfg.AvailabilityIncludePast && start.Before(now) {
			continue
		}

		end := start.Add(duration)
		free := true
		for _, r := range blocking {
			if overlaps(r.StartTime, r.EndTime, start.UTC(), end.UTC()) {
				free = false
				break
			}
		}
		if free {
			slots = append(slots, start.UTC())
		}
	}
	return slots
}

func eventTypeForStatus(status string) string {
	switch status {
	case config.Confirmed:
		return kafka.EventReservationConfirmed
	case config.Cancelled:
		return kafka.EventReservationCancelled
	case config.Completed:
		return kafka.EventReservationCompleted
	case config.NoShow:
		return kafka.EventReservationNoShow
	default:
		return kafka.EventReservationCreated
	}
}

func (s *reservationService) publishEvent(ctx context.Context, eventType string, reservation *model.Reservation, previousStatus string) {
	if s.publisher == nil {
		return
	}

	event := kafka.ReservationEvent{
		EventType:      eventType,
		ReservationID:  reservation.ID,
		ClientID:       reservation.ClientID,
		BusinessID:     reservation.BusinessID,
		SpecialistID:   reservation.SpecialistID,
		ServiceID:      reservation.ServiceID,
		StartTime:      reservation.StartTime,
		EndTime:        reservation.EndTime,
		Status:         reservation.Status,
		PreviousStatus: previousStatus,
		CancelReason:   reservation.CancelReason,
		OccurredAt:     time.Now().UTC(),
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.cfg.Log.Warn("Failed to publish reservation event",
			"event_type", eventType,
			"reservation_id", reservation.ID,
			"error", err,
		)
	}
}
