package domain

import (
	"fmt"
	"strings"
)

// LessonType identifies a lesson offering of the coach
type LessonType string

const (
	LessonQuickJourney       LessonType = "quick-journey"
	LessonDualQuest          LessonType = "dual-quest"
	LessonDeepDive           LessonType = "deep-dive"
	LessonPartnerProgression LessonType = "partner-progression"
)

// LessonOffering duration and price of a lesson type
type LessonOffering struct {
	Type            LessonType
	Name            string
	DurationMinutes int
	PriceCents      int64
}

// lessonCatalog fixed offerings of the business
var lessonCatalog = map[LessonType]LessonOffering{
	LessonQuickJourney: {
		Type:            LessonQuickJourney,
		Name:            "Quick Journey",
		DurationMinutes: 30,
		PriceCents:      4000,
	},
	LessonDualQuest: {
		Type:            LessonDualQuest,
		Name:            "Dual Quest",
		DurationMinutes: 30,
		PriceCents:      5000,
	},
	LessonDeepDive: {
		Type:            LessonDeepDive,
		Name:            "Deep Dive",
		DurationMinutes: 60,
		PriceCents:      6000,
	},
	LessonPartnerProgression: {
		Type:            LessonPartnerProgression,
		Name:            "Partner Progression",
		DurationMinutes: 60,
		PriceCents:      8000,
	},
}

// ParseLessonType parses a lesson type key case-insensitively
func ParseLessonType(s string) (LessonType, error) {
	lt := LessonType(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := lessonCatalog[lt]; !ok {
		return "", fmt.Errorf("%w: unknown lesson type %q", ErrValidation, s)
	}
	return lt, nil
}

// Offering returns the catalog entry; ok is false for unknown types
func (t LessonType) Offering() (LessonOffering, bool) {
	o, ok := lessonCatalog[t]
	return o, ok
}

// DurationMinutes returns the lesson length, 0 for unknown types
func (t LessonType) DurationMinutes() int {
	return lessonCatalog[t].DurationMinutes
}

func (t LessonType) String() string {
	return string(t)
}
