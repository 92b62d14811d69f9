package model

import (
	"fmt"
	"sort"
)

type Availability string

const (
	AvailabilityUnset      Availability = ""
	AvailabilityWeekdays   Availability = "weekdays"
	AvailabilityWeekends   Availability = "weekends"
	AvailabilityEvenings   Availability = "evenings"
	AvailabilityFlexible   Availability = "flexible"
	AvailabilityOccasional Availability = "occasional"
)

// AvailabilityOptions lists the selectable availabilities in display order
var AvailabilityOptions = []Availability{
	AvailabilityWeekdays,
	AvailabilityWeekends,
	AvailabilityEvenings,
	AvailabilityFlexible,
	AvailabilityOccasional,
}

func (a Availability) IsValid() bool {
	switch a {
	case AvailabilityWeekdays, AvailabilityWeekends, AvailabilityEvenings, AvailabilityFlexible, AvailabilityOccasional:
		return true
	}
	return false
}

// Label returns the human-readable option text shown in the select control
func (a Availability) Label() string {
	switch a {
	case AvailabilityWeekdays:
		return "Weekdays"
	case AvailabilityWeekends:
		return "Weekends"
	case AvailabilityEvenings:
		return "Evenings"
	case AvailabilityFlexible:
		return "Flexible"
	case AvailabilityOccasional:
		return "Occasional Events"
	}
	return ""
}

// ParseAvailability converts a submitted select value into an Availability.
// An empty value is accepted and means no selection has been made yet.
func ParseAvailability(value string) (Availability, error) {
	a := Availability(value)
	if a == AvailabilityUnset || a.IsValid() {
		return a, nil
	}
	return AvailabilityUnset, fmt.Errorf("unknown availability %q", value)
}

// InterestCatalog is the fixed set of interest areas a volunteer can pick from
var InterestCatalog = []string{
	"Education & Literacy",
	"Environmental Conservation",
	"Community Development",
	"Healthcare Support",
	"Technology Training",
	"Event Organization",
	"Fundraising",
	"Administrative Support",
}

var catalogIndex = func() map[string]int {
	idx := make(map[string]int, len(InterestCatalog))
	for i, label := range InterestCatalog {
		idx[label] = i
	}
	return idx
}()

// IsCatalogInterest reports whether label is one of the InterestCatalog entries
func IsCatalogInterest(label string) bool {
	_, ok := catalogIndex[label]
	return ok
}

// InterestSet is a set of interest area labels drawn from InterestCatalog
type InterestSet map[string]struct{}

func (s InterestSet) Has(label string) bool {
	_, ok := s[label]
	return ok
}

func (s InterestSet) Len() int {
	return len(s)
}

// Labels returns the members in catalog order
func (s InterestSet) Labels() []string {
	labels := make([]string, 0, len(s))
	for label := range s {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		return catalogIndex[labels[i]] < catalogIndex[labels[j]]
	})
	return labels
}

// Clone returns an independent copy of the set
func (s InterestSet) Clone() InterestSet {
	out := make(InterestSet, len(s))
	for label := range s {
		out[label] = struct{}{}
	}
	return out
}

// ApplicationDraft is the in-progress, unsaved volunteer application
type ApplicationDraft struct {
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	Location     string
	Availability Availability
	Interests    InterestSet
	Experience   string
	Motivation   string
	AgreeToTerms bool
}

// NewApplicationDraft returns a draft with every field at its default
func NewApplicationDraft() ApplicationDraft {
	return ApplicationDraft{Interests: InterestSet{}}
}

// Clone returns a deep copy of the draft
func (d ApplicationDraft) Clone() ApplicationDraft {
	out := d
	out.Interests = d.Interests.Clone()
	return out
}

// IsDefault reports whether every field still holds its default value
func (d ApplicationDraft) IsDefault() bool {
	return d.FirstName == "" &&
		d.LastName == "" &&
		d.Email == "" &&
		d.Phone == "" &&
		d.Location == "" &&
		d.Availability == AvailabilityUnset &&
		d.Interests.Len() == 0 &&
		d.Experience == "" &&
		d.Motivation == "" &&
		!d.AgreeToTerms
}
