package model

import "fmt"

// Slot names a field of FilterState that a control is bound to.
type Slot string

// Known slots.
const (
	SlotCountry     Slot = "country"
	SlotSelectedSex Slot = "selectedSex"
)

// FilterState holds the current filter selections. The empty string means
// "no filter" for either field.
type FilterState struct {
	Country     string `json:"country"`
	SelectedSex string `json:"selectedSex"`
}

// Get returns the value held by slot.
func (s *FilterState) Get(slot Slot) (string, error) {
	switch slot {
	case SlotCountry:
		return s.Country, nil
	case SlotSelectedSex:
		return s.SelectedSex, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSlot, slot)
	}
}

// Set stores value in slot.
func (s *FilterState) Set(slot Slot, value string) error {
	switch slot {
	case SlotCountry:
		s.Country = value
	case SlotSelectedSex:
		s.SelectedSex = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSlot, slot)
	}
	return nil
}

// Toggle clears slot when it already holds key and sets it to key otherwise.
// It returns the new value of the slot.
func (s *FilterState) Toggle(slot Slot, key string) (string, error) {
	current, err := s.Get(slot)
	if err != nil {
		return "", err
	}
	next := key
	if current == key {
		next = ""
	}
	if err := s.Set(slot, next); err != nil {
		return "", err
	}
	return next, nil
}

// SexLabel is the text shown in the selected-sex status node.
func (s FilterState) SexLabel() string {
	if s.SelectedSex == "" {
		return "None"
	}
	return s.SelectedSex
}
