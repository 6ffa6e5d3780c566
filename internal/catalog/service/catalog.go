package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	catalogerrors "medbook/internal/catalog/errors"
	"medbook/internal/catalog/repository"
	"medbook/internal/catalog/validator"
	"medbook/pkg/auth"
	"medbook/pkg/config"
	apperrors "medbook/pkg/errors"
	"medbook/pkg/locale"
	"medbook/pkg/model"
	"medbook/pkg/sanitizer"
)

// CatalogService manages the bookable inventory: businesses, the services
// they offer and the specialists who deliver them. Deactivation is the only
// removal path so historical reservations keep resolving.
type CatalogService interface {
	CreateBusiness(ctx context.Context, business *model.Business) error
	GetBusiness(ctx context.Context, id string) (*model.Business, error)
	ListBusinesses(ctx context.Context, limit int, offset int64) ([]*model.Business, int64, error)
	UpdateBusiness(ctx context.Context, id string, updates *model.BusinessUpdate) error

	CreateService(ctx context.Context, service *model.Service) error
	GetService(ctx context.Context, id string) (*model.Service, error)
	ListServices(ctx context.Context, businessID string, limit int, offset int64) ([]*model.Service, int64, error)
	UpdateService(ctx context.Context, id string, updates *model.ServiceUpdate) error

	CreateSpecialist(ctx context.Context, specialist *model.Specialist) error
	GetSpecialist(ctx context.Context, id string) (*model.Specialist, error)
	ListSpecialists(ctx context.Context, businessID string, limit int, offset int64) ([]*model.Specialist, int64, error)
	UpdateSpecialist(ctx context.Context, id string, updates *model.SpecialistUpdate) error
}

type catalogService struct {
	businessRepo   repository.BusinessRepository
	serviceRepo    repository.ServiceRepository
	specialistRepo repository.SpecialistRepository
	validator      *validator.CatalogValidator
	cfg            *config.Config
}

func NewCatalogService(
	businessRepo repository.BusinessRepository,
	serviceRepo repository.ServiceRepository,
	specialistRepo repository.SpecialistRepository,
	validator *validator.CatalogValidator,
	cfg *config.Config,
) CatalogService {
	return &catalogService{
		businessRepo:   businessRepo,
		serviceRepo:    serviceRepo,
		specialistRepo: specialistRepo,
		validator:      validator,
		cfg:            cfg,
	}
}

func (s *catalogService) mapErr(err error, resource, id string) error {
	if errors.Is(err, catalogerrors.ErrNotFound) {
		if id == "" {
			return apperrors.NotFound(resource)
		}
		return apperrors.NotFoundWithID(resource, id)
	}
	if errors.Is(err, catalogerrors.ErrInvalidID) {
		return apperrors.InvalidInput(fmt.Sprintf("Invalid %s ID format", resource))
	}
	return apperrors.Internal(fmt.Sprintf("Failed to access %s", resource), err)
}

// requireAdmin gates business-level mutations.
func requireAdmin(ctx context.Context) error {
	actor, ok := auth.ActorFromContext(ctx)
	if !ok {
		return nil
	}
	if !actor.IsAdmin() {
		return apperrors.Unauthorized("Only admins can manage businesses")
	}
	return nil
}

// requireBusinessMember gates service and specialist mutations.
func requireBusinessMember(ctx context.Context, businessID string) error {
	actor, ok := auth.ActorFromContext(ctx)
	if !ok {
		return nil
	}
	if actor.IsClient() {
		return apperrors.Unauthorized("Clients cannot manage the catalog")
	}
	if !actor.IsAdmin() && !actor.SameBusiness(businessID) {
		return apperrors.Unauthorized("Access limited to members of the business")
	}
	return nil
}

// --- Businesses ---

func (s *catalogService) CreateBusiness(ctx context.Context, business *model.Business) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}

	business.Name = sanitizer.NormalizeName(business.Name)
	business.Phone = sanitizer.NormalizePhone(business.Phone)
	business.Website = sanitizer.NormalizeURL(business.Website)
	business.Specialties = sanitizer.NormalizeSpecialties(business.Specialties)
	business.Active = true

	if business.TimeZone == "" {
		business.TimeZone = locale.InferTimezoneFromPhone(business.Phone)
		s.cfg.Log.Info("Inferred business timezone from phone", "time_zone", business.TimeZone)
	}

	if err := s.validator.ValidateBusiness(business); err != nil {
		s.cfg.Log.Warn("Business validation failed", "error", err)
		return apperrors.Validation("Business validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.businessRepo.Create(ctx, business); err != nil {
		s.cfg.Log.Error("Failed to create business", "error", err)
		return apperrors.Internal("Failed to create business", err)
	}

	s.cfg.Log.Info("Business created successfully", "id", business.ID, "name", business.Name)
	return nil
}

func (s *catalogService) GetBusiness(ctx context.Context, id string) (*model.Business, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Business ID cannot be empty")
	}
	business, err := s.businessRepo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapErr(err, "Business", id)
	}
	return business, nil
}

func (s *catalogService) ListBusinesses(ctx context.Context, limit int, offset int64) ([]*model.Business, int64, error) {
	var count int64
	var businesses []*model.Business
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.businessRepo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count businesses", "error", errCount)
			errCount = apperrors.Internal("Failed to count businesses", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		businesses, errFind = s.businessRepo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list businesses", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve businesses", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	return businesses, count, nil
}

func (s *catalogService) UpdateBusiness(ctx context.Context, id string, updates *model.BusinessUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Business ID cannot be empty")
	}
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	if err := s.validator.ValidateBusinessUpdate(updates); err != nil {
		s.cfg.Log.Warn("Business update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	existing, err := s.businessRepo.FindByID(ctx, id)
	if err != nil {
		return s.mapErr(err, "Business", id)
	}

	merged := s.mergeBusinessUpdates(existing, updates)
	if err := s.validator.ValidateBusiness(merged); err != nil {
		return apperrors.Validation("Business validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.businessRepo.Update(ctx, id, merged); err != nil {
		return s.mapErr(err, "Business", id)
	}

	s.cfg.Log.Info("Business updated successfully", "id", id)
	return nil
}

func (s *catalogService) mergeBusinessUpdates(existing *model.Business, updates *model.BusinessUpdate) *model.Business {
	merged := *existing

	if updates.Name != "" {
		merged.Name = sanitizer.NormalizeName(updates.Name)
	}
	if updates.Phone != "" {
		merged.Phone = sanitizer.NormalizePhone(updates.Phone)
	}
	if updates.Website != "" {
		merged.Website = sanitizer.NormalizeURL(updates.Website)
	}
	if updates.Specialties != nil {
		merged.Specialties = sanitizer.NormalizeSpecialties(*updates.Specialties)
	}
	if updates.TimeZone != "" {
		merged.TimeZone = updates.TimeZone
	}
	if updates.Active != nil {
		merged.Active = *updates.Active
	}

	return &merged
}

// --- Services ---

func (s *catalogService) CreateService(ctx context.Context, service *model.Service) error {
	if err := requireBusinessMember(ctx, service.BusinessID); err != nil {
		return err
	}

	service.Name = sanitizer.NormalizeName(service.Name)
	service.Active = true

	if err := s.validator.ValidateService(service); err != nil {
		s.cfg.Log.Warn("Service validation failed", "error", err)
		return apperrors.Validation("Service validation failed", map[string]any{"error": err.Error()})
	}

	// The owning business must exist and be active.
	business, err := s.businessRepo.FindByID(ctx, service.BusinessID)
	if err != nil {
		return s.mapErr(err, "Business", service.BusinessID)
	}
	if !business.Active {
		return apperrors.Inactive("Business")
	}

	if err := s.serviceRepo.Create(ctx, service); err != nil {
		if errors.Is(err, catalogerrors.ErrDuplicateName) {
			return apperrors.Conflict("A service with this name already exists for the business")
		}
		s.cfg.Log.Error("Failed to create service", "error", err)
		return apperrors.Internal("Failed to create service", err)
	}

	s.cfg.Log.Info("Service created successfully", "id", service.ID, "business_id", service.BusinessID)
	return nil
}

func (s *catalogService) GetService(ctx context.Context, id string) (*model.Service, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Service ID cannot be empty")
	}
	service, err := s.serviceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapErr(err, "Service", id)
	}
	return service, nil
}

func (s *catalogService) ListServices(ctx context.Context, businessID string, limit int, offset int64) ([]*model.Service, int64, error) {
	if businessID == "" {
		return nil, 0, apperrors.InvalidInput("Business ID cannot be empty")
	}

	var count int64
	var services []*model.Service
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.serviceRepo.CountByBusiness(ctx, businessID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count services", "business_id", businessID, "error", errCount)
			errCount = apperrors.Internal("Failed to count services", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		services, errFind = s.serviceRepo.FindByBusiness(ctx, businessID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list services", "business_id", businessID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve services", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	return services, count, nil
}

func (s *catalogService) UpdateService(ctx context.Context, id string, updates *model.ServiceUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Service ID cannot be empty")
	}
	if err := s.validator.ValidateServiceUpdate(updates); err != nil {
		s.cfg.Log.Warn("Service update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	existing, err := s.serviceRepo.FindByID(ctx, id)
	if err != nil {
		return s.mapErr(err, "Service", id)
	}
	if err := requireBusinessMember(ctx, existing.BusinessID); err != nil {
		return err
	}

	merged := *existing
	if updates.Name != "" {
		merged.Name = sanitizer.NormalizeName(updates.Name)
	}
	if updates.DurationMin != nil {
		merged.DurationMin = *updates.DurationMin
	}
	if updates.Price != nil {
		merged.Price = *updates.Price
	}
	if updates.Active != nil {
		merged.Active = *updates.Active
	}

	if err := s.validator.ValidateService(&merged); err != nil {
		return apperrors.Validation("Service validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.serviceRepo.Update(ctx, id, &merged); err != nil {
		return s.mapErr(err, "Service", id)
	}

	s.cfg.Log.Info("Service updated successfully", "id", id)
	return nil
}

// --- Specialists ---

func (s *catalogService) CreateSpecialist(ctx context.Context, specialist *model.Specialist) error {
	if err := requireBusinessMember(ctx, specialist.BusinessID); err != nil {
		return err
	}

	specialist.Name = sanitizer.NormalizeName(specialist.Name)
	s.applySpecialistDefaults(specialist)

	if err := s.validator.ValidateSpecialist(specialist); err != nil {
		s.cfg.Log.Warn("Specialist validation failed", "error", err)
		return apperrors.Validation("Specialist validation failed", map[string]any{"error": err.Error()})
	}

	business, err := s.businessRepo.FindByID(ctx, specialist.BusinessID)
	if err != nil {
		return s.mapErr(err, "Business", specialist.BusinessID)
	}
	if !business.Active {
		return apperrors.Inactive("Business")
	}

	if err := s.specialistRepo.Create(ctx, specialist); err != nil {
		if errors.Is(err, catalogerrors.ErrDuplicateName) {
			return apperrors.Conflict("A specialist with this name already exists for the business")
		}
		s.cfg.Log.Error("Failed to create specialist", "error", err)
		return apperrors.Internal("Failed to create specialist", err)
	}

	s.cfg.Log.Info("Specialist created successfully", "id", specialist.ID, "business_id", specialist.BusinessID)
	return nil
}

func (s *catalogService) applySpecialistDefaults(specialist *model.Specialist) {
	specialist.Active = true
	if specialist.StartOfDay == "" {
		specialist.StartOfDay = s.cfg.DefaultStartOfDay
	}
	if specialist.EndOfDay == "" {
		specialist.EndOfDay = s.cfg.DefaultEndOfDay
	}
	if len(specialist.WorkingDays) == 0 {
		specialist.WorkingDays = []config.Weekday{
			config.Monday, config.Tuesday, config.Wednesday, config.Thursday, config.Friday,
		}
	}
}

func (s *catalogService) GetSpecialist(ctx context.Context, id string) (*model.Specialist, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Specialist ID cannot be empty")
	}
	specialist, err := s.specialistRepo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapErr(err, "Specialist", id)
	}
	return specialist, nil
}

func (s *catalogService) ListSpecialists(ctx context.Context, businessID string, limit int, offset int64) ([]*model.Specialist, int64, error) {
	if businessID == "" {
		return nil, 0, apperrors.InvalidInput("Business ID cannot be empty")
	}

	var count int64
	var specialists []*model.Specialist
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.specialistRepo.CountByBusiness(ctx, businessID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count specialists", "business_id", businessID, "error", errCount)
			errCount = apperrors.Internal("Failed to count specialists", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		specialists, errFind = s.specialistRepo.FindByBusiness(ctx, businessID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list specialists", "business_id", businessID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve specialists", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	return specialists, count, nil
}

func (s *catalogService) UpdateSpecialist(ctx context.Context, id string, updates *model.SpecialistUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Specialist ID cannot be empty")
	}
	if err := s.validator.ValidateSpecialistUpdate(updates); err != nil {
		s.cfg.Log.Warn("Specialist update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	existing, err := s.specialistRepo.FindByID(ctx, id)
	if err != nil {
		return s.mapErr(err, "Specialist", id)
	}
	if err := requireBusinessMember(ctx, existing.BusinessID); err != nil {
		return err
	}

	merged := *existing
	if updates.Name != "" {
		merged.Name = sanitizer.NormalizeName(updates.Name)
	}
	if updates.StartOfDay != "" {
		merged.StartOfDay = updates.StartOfDay
	}
	if updates.EndOfDay != "" {
		merged.EndOfDay = updates.EndOfDay
	}
	if updates.WorkingDays != nil {
		merged.WorkingDays = updates.WorkingDays
	}
	if updates.TimeZone != "" {
		merged.TimeZone = updates.TimeZone
	}
	if updates.Active != nil {
		merged.Active = *updates.Active
	}

	if err := s.validator.ValidateSpecialist(&merged); err != nil {
		return apperrors.Validation("Specialist validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.specialistRepo.Update(ctx, id, &merged); err != nil {
		return s.mapErr(err, "Specialist", id)
	}

	s.cfg.Log.Info("Specialist updated successfully", "id", id)
	return nil
}
