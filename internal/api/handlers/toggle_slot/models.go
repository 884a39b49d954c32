package toggle_slot

// ToggleSlotRequest тело PATCH /availability/{id}/toggle
type ToggleSlotRequest struct {
	IsAvailable *bool `json:"isAvailable" validate:"required"`
}
