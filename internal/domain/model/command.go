package model

import (
	"fmt"
	"time"
)

// CommandKind tags what a Command asks the dispatcher to do.
type CommandKind string

// Command kinds.
const (
	KindSetCountry CommandKind = "set_country"
	KindToggle     CommandKind = "toggle"
	KindDataLoaded CommandKind = "data_loaded"
	KindLoadFailed CommandKind = "load_failed"
)

// Command is a typed UI or lifecycle event applied by the single dispatcher.
type Command struct {
	ID   string
	Kind CommandKind

	Slot  Slot   // toggle
	Value string // set_country: country id ("" = all); toggle: key

	Records []Record   // data_loaded
	Report  LoadReport // data_loaded
	Err     error      // load_failed

	EnqueuedAt time.Time

	// Ack, when non-nil, is closed after the command's render cycle finished.
	Ack chan struct{}
}

// LoadReport summarizes how the loader treated the source rows.
type LoadReport struct {
	Rows    int    `json:"rows"`
	Kept    int    `json:"kept"`
	Invalid int    `json:"invalid"`
	Dropped int    `json:"dropped"`
	Policy  string `json:"policy"`
}

// SetCountry selects a country; an empty id clears the country filter.
func SetCountry(id string) Command {
	return Command{Kind: KindSetCountry, Slot: SlotCountry, Value: id}
}

// Toggle flips slot between key and "no filter".
func Toggle(slot Slot, key string) Command {
	return Command{Kind: KindToggle, Slot: slot, Value: key}
}

// ToggleSex is Toggle bound to the selected-sex slot.
func ToggleSex(key string) Command {
	return Toggle(SlotSelectedSex, key)
}

// DataLoaded hands the parsed dataset to the dispatcher.
func DataLoaded(records []Record, report LoadReport) Command {
	return Command{Kind: KindDataLoaded, Records: records, Report: report}
}

// LoadFailed reports that the single dataset load failed.
func LoadFailed(err error) Command {
	return Command{Kind: KindLoadFailed, Err: err}
}

// Validate checks the fields required by the command kind.
func (c *Command) Validate() error {
	switch c.Kind {
	case KindSetCountry, KindDataLoaded:
		return nil
	case KindToggle:
		if c.Value == "" {
			return fmt.Errorf("%w: toggle needs a key", ErrInvalidCommand)
		}
		_, err := (&FilterState{}).Get(c.Slot)
		return err
	case KindLoadFailed:
		if c.Err == nil {
			return fmt.Errorf("%w: load_failed needs an error", ErrInvalidCommand)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, c.Kind)
	}
}
