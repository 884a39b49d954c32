package calendar

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTransition возвращается при попытке открыть диалог, когда открыт другой
var ErrInvalidTransition = errors.New("calendar: invalid dialog transition")

// Mode режим диалога календаря
type Mode string

const (
	ModeIdle     Mode = "idle"
	ModeAdding   Mode = "adding"
	ModeEditing  Mode = "editing"
	ModeDeleting Mode = "deleting"
)

// DialogState состояние диалогов календаря.
// Одновременно открыт не больше одного диалога; adding привязан к дате,
// editing и deleting к конкретному слоту.
type DialogState struct {
	Mode     Mode
	TargetID string
	Date     time.Time
}

// Idle закрытое состояние
func Idle() DialogState {
	return DialogState{Mode: ModeIdle}
}

// IsOpen returns true if any dialog is open
func (s DialogState) IsOpen() bool {
	return s.Mode != ModeIdle && s.Mode != ""
}

// StartAdding открывает диалог добавления слота на дату
func (s DialogState) StartAdding(date time.Time) (DialogState, error) {
	if s.IsOpen() {
		return s, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.Mode, ModeAdding)
	}
	if date.IsZero() {
		return s, fmt.Errorf("%w: date is required", ErrInvalidTransition)
	}
	return DialogState{Mode: ModeAdding, Date: date}, nil
}

// StartEditing открывает диалог редактирования слота
func (s DialogState) StartEditing(slotID string) (DialogState, error) {
	return s.openForSlot(ModeEditing, slotID)
}

// StartDeleting открывает диалог подтверждения удаления слота
func (s DialogState) StartDeleting(slotID string) (DialogState, error) {
	return s.openForSlot(ModeDeleting, slotID)
}

// Close закрывает любой открытый диалог
func (s DialogState) Close() DialogState {
	return Idle()
}

func (s DialogState) openForSlot(mode Mode, slotID string) (DialogState, error) {
	if s.IsOpen() {
		return s, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.Mode, mode)
	}
	if slotID == "" {
		return s, fmt.Errorf("%w: slot id is required", ErrInvalidTransition)
	}
	return DialogState{Mode: mode, TargetID: slotID}, nil
}
