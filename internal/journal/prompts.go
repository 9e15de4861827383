package journal

import "math/rand/v2"

var journalPrompts = []string{
	"What emotions am I experiencing right now, and what might have triggered them?",
	"How did my body feel throughout the day, and what does it need?",
	"What am I grateful for in this moment?",
	"What patterns am I noticing in my thoughts and feelings?",
	"How can I show myself compassion today?",
	"What would I tell a friend experiencing what I'm going through?",
	"What do I need to let go of to move forward?",
	"How did I grow or learn something new today?",
}

var wellnessTips = []string{
	"Take three deep breaths before starting your day",
	"Gratitude can shift your perspective in moments",
	"Your feelings are valid and temporary",
	"Small steps lead to meaningful change",
	"Self-compassion is a form of strength",
	"Every emotion has something to teach you",
	"Progress isn't always linear, and that's okay",
	"Mindful moments can happen anywhere, anytime",
	"Your mental health matters as much as your physical health",
	"Reflection helps transform experience into wisdom",
}

// RandomPrompt picks a writing prompt for the reflection step.
func RandomPrompt() string {
	return journalPrompts[rand.IntN(len(journalPrompts))]
}

// RandomTip picks a wellness tip.
func RandomTip() string {
	return wellnessTips[rand.IntN(len(wellnessTips))]
}
