package journal

import (
	"fmt"
	"slices"
)

const (
	MinIntensity     = 0
	MaxIntensity     = 10
	DefaultIntensity = 5
)

// Step is the position in the capture flow.
type Step int

const (
	StepEmotionSelection Step = 1
	StepIntensityRating  Step = 2
	StepWriting          Step = 3
)

func (s Step) String() string {
	switch s {
	case StepEmotionSelection:
		return "emotion_selection"
	case StepIntensityRating:
		return "intensity_rating"
	case StepWriting:
		return "writing"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// Dimension names one of the intensity sliders.
type Dimension string

const (
	DimensionStress   Dimension = "stress"
	DimensionEnergy   Dimension = "energy"
	DimensionSocial   Dimension = "social"
	DimensionPhysical Dimension = "physical"
	DimensionClarity  Dimension = "clarity"
)

// Dimensions lists the sliders in display order.
var Dimensions = []Dimension{DimensionStress, DimensionEnergy, DimensionSocial, DimensionPhysical, DimensionClarity}

// Intensities holds the five slider values.
type Intensities struct {
	Stress   int `json:"stress"`
	Energy   int `json:"energy"`
	Social   int `json:"social"`
	Physical int `json:"physical"`
	Clarity  int `json:"clarity"`
}

func DefaultIntensities() Intensities {
	return Intensities{
		Stress:   DefaultIntensity,
		Energy:   DefaultIntensity,
		Social:   DefaultIntensity,
		Physical: DefaultIntensity,
		Clarity:  DefaultIntensity,
	}
}

func (in *Intensities) field(d Dimension) (*int, error) {
	switch d {
	case DimensionStress:
		return &in.Stress, nil
	case DimensionEnergy:
		return &in.Energy, nil
	case DimensionSocial:
		return &in.Social, nil
	case DimensionPhysical:
		return &in.Physical, nil
	case DimensionClarity:
		return &in.Clarity, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDimension, d)
}

// Get returns the value of a dimension.
func (in Intensities) Get(d Dimension) (int, error) {
	p, err := in.field(d)
	if err != nil {
		return 0, err
	}
	return *p, nil
}

// Set overwrites a dimension. Values outside [MinIntensity, MaxIntensity] are rejected.
func (in *Intensities) Set(d Dimension, value int) error {
	p, err := in.field(d)
	if err != nil {
		return err
	}
	if value < MinIntensity || value > MaxIntensity {
		return fmt.Errorf("%w: %s=%d", ErrOutOfRange, d, value)
	}
	*p = value
	return nil
}

// Draft is the in-progress state of one capture session.
type Draft struct {
	SelectedEmotions []string    `json:"selected_emotions"`
	Intensities      Intensities `json:"intensities"`
	Text             string      `json:"text"`
	CurrentStep      Step        `json:"current_step"`
}

func NewDraft() Draft {
	return Draft{
		SelectedEmotions: []string{},
		Intensities:      DefaultIntensities(),
		CurrentStep:      StepEmotionSelection,
	}
}

// Clone returns a deep copy so callers cannot alias the controller's slice.
func (d Draft) Clone() Draft {
	d.SelectedEmotions = slices.Clone(d.SelectedEmotions)
	if d.SelectedEmotions == nil {
		d.SelectedEmotions = []string{}
	}
	return d
}

// toggle selects label when absent and deselects it when present.
func (d *Draft) toggle(label string) {
	if i := slices.Index(d.SelectedEmotions, label); i >= 0 {
		d.SelectedEmotions = slices.Delete(d.SelectedEmotions, i, i+1)
		return
	}
	d.SelectedEmotions = append(d.SelectedEmotions, label)
}

// WordCount counts whitespace-separated words in the draft text.
func (d Draft) WordCount() int {
	return wordCount(d.Text)
}
