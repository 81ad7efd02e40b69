package rules

import "github.com/google/uuid"

type CreateRuleRequest struct {
	RoleID    uuid.UUID `json:"role_id" validate:"required"`
	ElementID uuid.UUID `json:"element_id" validate:"required"`
	Read      bool      `json:"read_permission"`
	ReadAll   bool      `json:"read_all_permission"`
	Create    bool      `json:"create_permission"`
	Update    bool      `json:"update_permission"`
	UpdateAll bool      `json:"update_all_permission"`
	Delete    bool      `json:"delete_permission"`
	DeleteAll bool      `json:"delete_all_permission"`
}

type UpdateRuleRequest struct {
	Read      *bool `json:"read_permission,omitempty"`
	ReadAll   *bool `json:"read_all_permission,omitempty"`
	Create    *bool `json:"create_permission,omitempty"`
	Update    *bool `json:"update_permission,omitempty"`
	UpdateAll *bool `json:"update_all_permission,omitempty"`
	Delete    *bool `json:"delete_permission,omitempty"`
	DeleteAll *bool `json:"delete_all_permission,omitempty"`
}

func (req CreateRuleRequest) flags() PermissionFlags {
	return PermissionFlags{
		Read:      req.Read,
		ReadAll:   req.ReadAll,
		Create:    req.Create,
		Update:    req.Update,
		UpdateAll: req.UpdateAll,
		Delete:    req.Delete,
		DeleteAll: req.DeleteAll,
	}
}

func (req UpdateRuleRequest) apply(f PermissionFlags) PermissionFlags {
	if req.Read != nil {
		f.Read = *req.Read
	}
	if req.ReadAll != nil {
		f.ReadAll = *req.ReadAll
	}
	if req.Create != nil {
		f.Create = *req.Create
	}
	if req.Update != nil {
		f.Update = *req.Update
	}
	if req.UpdateAll != nil {
		f.UpdateAll = *req.UpdateAll
	}
	if req.Delete != nil {
		f.Delete = *req.Delete
	}
	if req.DeleteAll != nil {
		f.DeleteAll = *req.DeleteAll
	}
	return f
}
