package reschedule

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed availability.yaml
var availabilityYAML []byte

// Availability is the date → slots table offered in the reschedule dialog.
// It is a static mock: the backend exposes no slot endpoint yet, so the
// table ships embedded with the binary.
type Availability struct {
	slots map[string][]string
}

type availabilityFile struct {
	Days []struct {
		Date  string   `yaml:"date"`
		Slots []string `yaml:"slots"`
	} `yaml:"days"`
}

// LoadAvailability parses the embedded slot table.
func LoadAvailability() (*Availability, error) {
	return parseAvailability(availabilityYAML)
}

func parseAvailability(data []byte) (*Availability, error) {
	var file availabilityFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse availability table: %w", err)
	}

	slots := make(map[string][]string, len(file.Days))
	for _, day := range file.Days {
		if day.Date == "" || len(day.Slots) == 0 {
			continue
		}
		slots[day.Date] = day.Slots
	}
	return &Availability{slots: slots}, nil
}

// Dates returns the offerable dates in ascending order.
func (a *Availability) Dates() []string {
	dates := make([]string, 0, len(a.slots))
	for date := range a.slots {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

// SlotsFor returns the time slots for a date, nil when the date is not offered.
func (a *Availability) SlotsFor(date string) []string {
	return a.slots[date]
}

// HasSlot reports whether the date offers the given slot.
func (a *Availability) HasSlot(date, slot string) bool {
	for _, s := range a.slots[date] {
		if s == slot {
			return true
		}
	}
	return false
}
