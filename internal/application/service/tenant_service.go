package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/mkamau/storesight-api/internal/domain/entity"
	"github.com/mkamau/storesight-api/internal/domain/repository"
	"github.com/mkamau/storesight-api/internal/infrastructure/cache"
	"github.com/mkamau/storesight-api/pkg/apperror"
	"github.com/mkamau/storesight-api/pkg/pagination"
	"github.com/mkamau/storesight-api/pkg/utils"
)

// TenantService handles store onboarding and membership operations
type TenantService struct {
	tenantRepo repository.TenantRepository
	drafts     *cache.DraftStore
}

// NewTenantService creates a new tenant service
func NewTenantService(tenantRepo repository.TenantRepository, drafts *cache.DraftStore) *TenantService {
	return &TenantService{tenantRepo: tenantRepo, drafts: drafts}
}

// CreateTenantInput represents input for creating a tenant
type CreateTenantInput struct {
	Name     string
	Slug     string
	OwnerID  uuid.UUID
	Settings *entity.TenantSettings
}

// CreateTenant creates a new store. The owner becomes its first member and
// any onboarding draft the owner had saved is discarded.
func (s *TenantService) CreateTenant(ctx context.Context, input *CreateTenantInput) (*entity.Tenant, error) {
	slug := input.Slug
	if slug == "" {
		slug = utils.Slugify(input.Name)
	}

	existing, err := s.tenantRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Store name already taken")
	}

	settings := entity.DefaultTenantSettings()
	if input.Settings != nil {
		settings = *input.Settings
	}

	tenant := &entity.Tenant{
		Name:     input.Name,
		Slug:     slug,
		OwnerID:  input.OwnerID,
		Settings: settings,
	}

	if err := s.tenantRepo.Create(ctx, tenant); err != nil {
		return nil, err
	}

	// Add owner as member
	membership := &entity.TenantMembership{
		TenantID: tenant.ID,
		UserID:   input.OwnerID,
		Role:     "owner",
	}
	_ = s.tenantRepo.AddMember(ctx, membership)

	// Onboarding is complete, drop any saved draft.
	_ = s.drafts.Delete(ctx, input.OwnerID)

	return tenant, nil
}

// SaveOnboardingDraft stores partial onboarding progress for the user
func (s *TenantService) SaveOnboardingDraft(ctx context.Context, userID uuid.UUID, draft *cache.OnboardingDraft) error {
	return s.drafts.Save(ctx, userID, draft)
}

// GetOnboardingDraft returns the user's saved onboarding progress, if any
func (s *TenantService) GetOnboardingDraft(ctx context.Context, userID uuid.UUID) (*cache.OnboardingDraft, error) {
	return s.drafts.Get(ctx, userID)
}

// GetTenant retrieves a tenant by ID
func (s *TenantService) GetTenant(ctx context.Context, id uuid.UUID) (*entity.Tenant, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, apperror.ErrNotFound
	}
	return tenant, nil
}

// GetUserTenants retrieves all tenants a user belongs to
func (s *TenantService) GetUserTenants(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams) ([]entity.Tenant, int64, error) {
	return s.tenantRepo.GetUserTenants(ctx, userID, params)
}

// UpdateTenantInput represents input for updating a tenant
type UpdateTenantInput struct {
	ID       uuid.UUID
	Name     string
	Settings *entity.TenantSettings
}

// UpdateTenant updates a tenant's name or settings
func (s *TenantService) UpdateTenant(ctx context.Context, input *UpdateTenantInput) (*entity.Tenant, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, apperror.ErrNotFound
	}

	if input.Name != "" {
		tenant.Name = input.Name
	}
	if input.Settings != nil {
		tenant.Settings = *input.Settings
	}

	if err := s.tenantRepo.Update(ctx, tenant); err != nil {
		return nil, err
	}

	return tenant, nil
}

// InviteMemberInput represents input for inviting a user to a tenant
type InviteMemberInput struct {
	TenantID uuid.UUID
	UserID   uuid.UUID
	Role     string
}

// InviteMember adds a user to a tenant
func (s *TenantService) InviteMember(ctx context.Context, input *InviteMemberInput) error {
	// Check if user is already a member
	isMember, _ := s.tenantRepo.IsMember(ctx, input.TenantID, input.UserID)
	if isMember {
		return apperror.NewConflictError("User is already a member of this store")
	}

	role := input.Role
	if role == "" {
		role = "member"
	}

	membership := &entity.TenantMembership{
		TenantID: input.TenantID,
		UserID:   input.UserID,
		Role:     role,
	}

	return s.tenantRepo.AddMember(ctx, membership)
}

// RemoveMember removes a user from a tenant
func (s *TenantService) RemoveMember(ctx context.Context, tenantID, userID uuid.UUID) error {
	membership, err := s.tenantRepo.GetMembership(ctx, tenantID, userID)
	if err != nil {
		return err
	}
	if membership == nil {
		return apperror.ErrNotFound
	}
	if membership.Role == "owner" {
		return apperror.NewBadRequestError("The store owner cannot be removed")
	}
	return s.tenantRepo.RemoveMember(ctx, tenantID, userID)
}

// GetTenantMembers retrieves all members of a tenant
func (s *TenantService) GetTenantMembers(ctx context.Context, tenantID uuid.UUID) ([]entity.TenantMembership, error) {
	members, err := s.tenantRepo.GetMembers(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	// Populate user details for JSON response
	for i := range members {
		members[i].PopulateUserDetails()
	}

	return members, nil
}

// UpdateMemberRole updates a member's role in a tenant
func (s *TenantService) UpdateMemberRole(ctx context.Context, tenantID, userID uuid.UUID, role string) error {
	membership, err := s.tenantRepo.GetMembership(ctx, tenantID, userID)
	if err != nil {
		return err
	}
	if membership == nil {
		return apperror.ErrNotFound
	}
	return s.tenantRepo.UpdateMemberRole(ctx, tenantID, userID, role)
}
