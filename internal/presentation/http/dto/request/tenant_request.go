package request

// CreateTenantRequest represents a store creation request
type CreateTenantRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=255"`
	Slug     string `json:"slug" binding:"omitempty,min=2,max=100,lowercase"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	Currency string `json:"currency" binding:"omitempty,len=3"`
	Timezone string `json:"timezone"`
}

// UpdateTenantRequest represents a store settings update request
type UpdateTenantRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=2,max=255"`
	Address  *string `json:"address"`
	Phone    *string `json:"phone"`
	Currency *string `json:"currency" binding:"omitempty,len=3"`
	Timezone *string `json:"timezone"`
}

// InviteMemberRequest represents a member invitation request
type InviteMemberRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
	Role   string `json:"role" binding:"omitempty,oneof=admin member"`
}

// UpdateMemberRoleRequest represents a member role change request
type UpdateMemberRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin member"`
}

// OnboardingDraftRequest represents a partially completed store setup
// form. Every field is optional so the client can save at any step.
type OnboardingDraftRequest struct {
	StoreName    string `json:"store_name"`
	StoreAddress string `json:"store_address"`
	StorePhone   string `json:"store_phone"`
	Currency     string `json:"currency"`
	Timezone     string `json:"timezone"`
	Step         int    `json:"step" binding:"min=0"`
}
