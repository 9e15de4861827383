package journal

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownCategory = errors.New("unknown emotion category")
)

// Category is a primary emotion key.
type Category string

const (
	CategoryJoy      Category = "joy"
	CategorySadness  Category = "sadness"
	CategoryAnger    Category = "anger"
	CategoryFear     Category = "fear"
	CategoryLove     Category = "love"
	CategorySurprise Category = "surprise"
	CategoryDisgust  Category = "disgust"
	CategoryCalm     Category = "calm"
)

// categoryOrder is the display order of the emotion wheel.
var categoryOrder = []Category{
	CategoryJoy,
	CategorySadness,
	CategoryAnger,
	CategoryFear,
	CategoryLove,
	CategorySurprise,
	CategoryDisgust,
	CategoryCalm,
}

var emotionGroups = map[Category][]string{
	CategoryJoy:      {"Happiness", "Excitement", "Contentment", "Bliss", "Elation", "Euphoria", "Delight"},
	CategorySadness:  {"Melancholy", "Grief", "Sorrow", "Despair", "Gloom", "Dejection", "Heartbreak"},
	CategoryAnger:    {"Frustration", "Rage", "Irritation", "Fury", "Resentment", "Indignation", "Annoyance"},
	CategoryFear:     {"Anxiety", "Worry", "Panic", "Dread", "Terror", "Nervousness", "Apprehension"},
	CategoryLove:     {"Affection", "Compassion", "Tenderness", "Adoration", "Devotion", "Warmth", "Care"},
	CategorySurprise: {"Wonder", "Amazement", "Astonishment", "Curiosity", "Awe", "Bewilderment", "Shock"},
	CategoryDisgust:  {"Aversion", "Revulsion", "Contempt", "Loathing", "Distaste", "Repulsion", "Scorn"},
	CategoryCalm:     {"Peace", "Serenity", "Tranquility", "Relaxation", "Stillness", "Composure", "Balance"},
}

// labelIndex maps every specific label back to its category.
var labelIndex = func() map[string]Category {
	idx := make(map[string]Category)
	for cat, labels := range emotionGroups {
		for _, label := range labels {
			idx[label] = cat
		}
	}
	return idx
}()

// Taxonomy is the fixed emotion wheel. The zero value is ready to use.
type Taxonomy struct{}

// Categories returns the primary categories in display order.
func (Taxonomy) Categories() []Category {
	out := make([]Category, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

// SpecificEmotionsFor returns a copy of the ordered labels of a category.
func (Taxonomy) SpecificEmotionsFor(category Category) ([]string, error) {
	labels, ok := emotionGroups[category]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	out := make([]string, len(labels))
	copy(out, labels)
	return out, nil
}

func (Taxonomy) IsSpecificEmotion(label string) bool {
	_, ok := labelIndex[label]
	return ok
}

// CategoryOf returns the primary category of a specific label.
func (Taxonomy) CategoryOf(label string) (Category, bool) {
	cat, ok := labelIndex[label]
	return cat, ok
}
