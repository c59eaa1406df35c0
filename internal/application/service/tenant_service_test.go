package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkamau/storesight-api/internal/domain/entity"
	"github.com/mkamau/storesight-api/internal/infrastructure/cache"
	"github.com/mkamau/storesight-api/pkg/pagination"
)

type stubTenantRepo struct {
	tenants     []entity.Tenant
	memberships []entity.TenantMembership
}

func (r *stubTenantRepo) Create(ctx context.Context, tenant *entity.Tenant) error {
	if tenant.ID == uuid.Nil {
		tenant.ID = uuid.New()
	}
	r.tenants = append(r.tenants, *tenant)
	return nil
}

func (r *stubTenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Tenant, error) {
	for i := range r.tenants {
		if r.tenants[i].ID == id {
			return &r.tenants[i], nil
		}
	}
	return nil, nil
}

func (r *stubTenantRepo) GetBySlug(ctx context.Context, slug string) (*entity.Tenant, error) {
	for i := range r.tenants {
		if r.tenants[i].Slug == slug {
			return &r.tenants[i], nil
		}
	}
	return nil, nil
}

func (r *stubTenantRepo) Update(ctx context.Context, tenant *entity.Tenant) error { return nil }
func (r *stubTenantRepo) Delete(ctx context.Context, id uuid.UUID) error          { return nil }

func (r *stubTenantRepo) GetUserTenants(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams) ([]entity.Tenant, int64, error) {
	var out []entity.Tenant
	for _, m := range r.memberships {
		if m.UserID == userID {
			for _, t := range r.tenants {
				if t.ID == m.TenantID {
					out = append(out, t)
				}
			}
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubTenantRepo) AddMember(ctx context.Context, membership *entity.TenantMembership) error {
	r.memberships = append(r.memberships, *membership)
	return nil
}

func (r *stubTenantRepo) RemoveMember(ctx context.Context, tenantID, userID uuid.UUID) error {
	for i, m := range r.memberships {
		if m.TenantID == tenantID && m.UserID == userID {
			r.memberships = append(r.memberships[:i], r.memberships[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *stubTenantRepo) GetMembers(ctx context.Context, tenantID uuid.UUID) ([]entity.TenantMembership, error) {
	var out []entity.TenantMembership
	for _, m := range r.memberships {
		if m.TenantID == tenantID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *stubTenantRepo) IsMember(ctx context.Context, tenantID, userID uuid.UUID) (bool, error) {
	m, _ := r.GetMembership(ctx, tenantID, userID)
	return m != nil, nil
}

func (r *stubTenantRepo) GetMembership(ctx context.Context, tenantID, userID uuid.UUID) (*entity.TenantMembership, error) {
	for i := range r.memberships {
		if r.memberships[i].TenantID == tenantID && r.memberships[i].UserID == userID {
			return &r.memberships[i], nil
		}
	}
	return nil, nil
}

func (r *stubTenantRepo) UpdateMemberRole(ctx context.Context, tenantID, userID uuid.UUID, role string) error {
	for i := range r.memberships {
		if r.memberships[i].TenantID == tenantID && r.memberships[i].UserID == userID {
			r.memberships[i].Role = role
		}
	}
	return nil
}

func (r *stubTenantRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	t, _ := r.GetBySlug(ctx, slug)
	return t != nil, nil
}

func newTenantFixture(t *testing.T, repo *stubTenantRepo) (*TenantService, *cache.DraftStore) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	drafts := cache.NewDraftStore(client)
	return NewTenantService(repo, drafts), drafts
}

func TestCreateTenantSlugifiesNameAndAddsOwner(t *testing.T) {
	repo := &stubTenantRepo{}
	svc, _ := newTenantFixture(t, repo)

	ownerID := uuid.New()
	tenant, err := svc.CreateTenant(context.Background(), &CreateTenantInput{
		Name:    "Mama Njeri's Shop",
		OwnerID: ownerID,
	})
	require.NoError(t, err)

	assert.Equal(t, "mama-njeris-shop", tenant.Slug)
	assert.Equal(t, "KES", tenant.Settings.Currency)

	membership, err := repo.GetMembership(context.Background(), tenant.ID, ownerID)
	require.NoError(t, err)
	require.NotNil(t, membership)
	assert.Equal(t, "owner", membership.Role)
}

func TestCreateTenantRejectsTakenSlug(t *testing.T) {
	repo := &stubTenantRepo{}
	svc, _ := newTenantFixture(t, repo)

	_, err := svc.CreateTenant(context.Background(), &CreateTenantInput{
		Name:    "Duka Lako",
		OwnerID: uuid.New(),
	})
	require.NoError(t, err)

	_, err = svc.CreateTenant(context.Background(), &CreateTenantInput{
		Name:    "Duka Lako",
		OwnerID: uuid.New(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already taken")
}

func TestOnboardingDraftRoundTrip(t *testing.T) {
	svc, _ := newTenantFixture(t, &stubTenantRepo{})
	ctx := context.Background()
	userID := uuid.New()

	got, err := svc.GetOnboardingDraft(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, got)

	draft := &cache.OnboardingDraft{
		StoreName: "Duka Lako",
		Currency:  "KES",
		Step:      2,
		UpdatedAt: time.Now(),
	}
	require.NoError(t, svc.SaveOnboardingDraft(ctx, userID, draft))

	got, err = svc.GetOnboardingDraft(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Duka Lako", got.StoreName)
	assert.Equal(t, 2, got.Step)
}

func TestCreateTenantDiscardsDraft(t *testing.T) {
	svc, _ := newTenantFixture(t, &stubTenantRepo{})
	ctx := context.Background()
	ownerID := uuid.New()

	require.NoError(t, svc.SaveOnboardingDraft(ctx, ownerID, &cache.OnboardingDraft{
		StoreName: "Duka Lako",
		Step:      3,
	}))

	_, err := svc.CreateTenant(ctx, &CreateTenantInput{
		Name:    "Duka Lako",
		OwnerID: ownerID,
	})
	require.NoError(t, err)

	draft, err := svc.GetOnboardingDraft(ctx, ownerID)
	require.NoError(t, err)
	assert.Nil(t, draft)
}

func TestRemoveMemberProtectsOwner(t *testing.T) {
	repo := &stubTenantRepo{}
	svc, _ := newTenantFixture(t, repo)
	ctx := context.Background()

	ownerID := uuid.New()
	tenant, err := svc.CreateTenant(ctx, &CreateTenantInput{
		Name:    "Duka Lako",
		OwnerID: ownerID,
	})
	require.NoError(t, err)

	memberID := uuid.New()
	require.NoError(t, svc.InviteMember(ctx, &InviteMemberInput{
		TenantID: tenant.ID,
		UserID:   memberID,
	}))

	require.Error(t, svc.RemoveMember(ctx, tenant.ID, ownerID))
	require.NoError(t, svc.RemoveMember(ctx, tenant.ID, memberID))
}
