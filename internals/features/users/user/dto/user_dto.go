package dto

import "strings"

// UpdateUserRequest: field nil tidak diubah.
type UpdateUserRequest struct {
	Active       *bool   `json:"active"`
	SlotLocation *string `json:"slot_location" validate:"omitempty,max=255"`
	Role         *string `json:"role" validate:"omitempty,oneof=user admin"`
}

func (r *UpdateUserRequest) Normalize() {
	if r.SlotLocation != nil {
		v := strings.TrimSpace(*r.SlotLocation)
		r.SlotLocation = &v
	}
	if r.Role != nil {
		v := strings.ToLower(strings.TrimSpace(*r.Role))
		r.Role = &v
	}
}

func (r UpdateUserRequest) Empty() bool {
	return r.Active == nil && r.SlotLocation == nil && r.Role == nil
}

// Changes: kolom yang diupdate.
func (r UpdateUserRequest) Changes() map[string]any {
	m := map[string]any{}
	if r.Active != nil {
		m["active"] = *r.Active
	}
	if r.SlotLocation != nil {
		m["slot_location"] = *r.SlotLocation
	}
	if r.Role != nil {
		m["role"] = *r.Role
	}
	return m
}
