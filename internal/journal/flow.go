package journal

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const (
	submitKeyDraft = "draft"
	submitKeyFinal = "final"
)

// Controller drives one user's draft through the capture steps. It owns the draft;
// callers only ever see copies.
type Controller struct {
	owner uuid.UUID
	repo  Repository

	mu         sync.Mutex
	draft      Draft
	generation uint64
	// finalizing is set while a final submission is being stored; the draft is
	// frozen until it completes.
	finalizing bool

	// submits collapses duplicate submissions of the same kind; submitMu keeps
	// submissions of different kinds from interleaving.
	submits  singleflight.Group
	submitMu sync.Mutex
}

func NewController(owner uuid.UUID, repo Repository) *Controller {
	return &Controller{
		owner: owner,
		repo:  repo,
		draft: NewDraft(),
	}
}

func (c *Controller) Owner() uuid.UUID { return c.owner }

// Draft returns a snapshot of the current draft.
func (c *Controller) Draft() Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.Clone()
}

// Reset discards the draft and returns to emotion selection.
func (c *Controller) Reset() Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
	return c.draft.Clone()
}

func (c *Controller) resetLocked() {
	c.draft = NewDraft()
	c.generation++
}

// ToggleEmotion selects or deselects a specific emotion label.
func (c *Controller) ToggleEmotion(label string) (Draft, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkStepLocked(StepEmotionSelection); err != nil {
		return c.draft.Clone(), err
	}
	if !(Taxonomy{}).IsSpecificEmotion(label) {
		return c.draft.Clone(), fmt.Errorf("%w: %q", ErrUnknownEmotion, label)
	}
	c.draft.toggle(label)
	return c.draft.Clone(), nil
}

// SetIntensity overwrites one slider value.
func (c *Controller) SetIntensity(d Dimension, value int) (Draft, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkStepLocked(StepIntensityRating); err != nil {
		return c.draft.Clone(), err
	}
	if err := c.draft.Intensities.Set(d, value); err != nil {
		return c.draft.Clone(), err
	}
	return c.draft.Clone(), nil
}

// SetText replaces the reflection text.
func (c *Controller) SetText(text string) (Draft, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkStepLocked(StepWriting); err != nil {
		return c.draft.Clone(), err
	}
	c.draft.Text = text
	return c.draft.Clone(), nil
}

// Next advances one step. Leaving emotion selection requires a selection.
func (c *Controller) Next() (Draft, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.finalizing {
		return c.draft.Clone(), ErrSubmitInFlight
	}
	switch c.draft.CurrentStep {
	case StepEmotionSelection:
		if len(c.draft.SelectedEmotions) == 0 {
			return c.draft.Clone(), ErrNoEmotionsSelected
		}
		c.draft.CurrentStep = StepIntensityRating
	case StepIntensityRating:
		c.draft.CurrentStep = StepWriting
	default:
		return c.draft.Clone(), ErrWrongStep
	}
	return c.draft.Clone(), nil
}

// Back moves to the previous step. From the first step it reports abandoned and
// leaves the draft alone; what happens next is up to the caller. While a final
// submission is being stored Back does nothing.
func (c *Controller) Back() (draft Draft, abandoned bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.finalizing {
		return c.draft.Clone(), false
	}
	if c.draft.CurrentStep <= StepEmotionSelection {
		return c.draft.Clone(), true
	}
	c.draft.CurrentStep--
	return c.draft.Clone(), false
}

// CheckStep reports whether a mutation of the given step is allowed right now.
func (c *Controller) CheckStep(step Step) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.checkStepLocked(step)
}

func (c *Controller) checkStepLocked(step Step) error {
	if c.finalizing {
		return ErrSubmitInFlight
	}
	if c.draft.CurrentStep != step {
		return ErrWrongStep
	}
	return nil
}

// SubmitDraft saves the draft as-is with IsDraft=true. The draft stays in place.
func (c *Controller) SubmitDraft(ctx context.Context) (*Entry, error) {
	return c.submit(ctx, submitKeyDraft, func(store context.Context) (*Entry, error) {
		entry := newEntry(c.owner, c.Draft(), true)
		if _, err := c.repo.Append(store, entry); err != nil {
			return nil, &PersistenceError{Op: "save draft", Err: err}
		}
		return entry, nil
	})
}

// SubmitFinal validates, classifies and persists the draft as a finalized entry,
// then resets the flow. On failure the draft is left unchanged. Edits are rejected
// with ErrSubmitInFlight until the store completes.
func (c *Controller) SubmitFinal(ctx context.Context) (*Entry, error) {
	return c.submit(ctx, submitKeyFinal, func(store context.Context) (*Entry, error) {
		c.mu.Lock()
		d := c.draft.Clone()
		gen := c.generation
		if len(d.SelectedEmotions) == 0 {
			c.mu.Unlock()
			return nil, ErrNoEmotionsSelected
		}
		if strings.TrimSpace(d.Text) == "" {
			c.mu.Unlock()
			return nil, ErrEmptyText
		}
		c.finalizing = true
		c.mu.Unlock()

		entry := newEntry(c.owner, d, false)
		entry.Sentiment = Classify(d.Text)
		_, err := c.repo.Append(store, entry)

		c.mu.Lock()
		defer c.mu.Unlock()
		c.finalizing = false
		if err != nil {
			return nil, &PersistenceError{Op: "save entry", Err: err}
		}
		// A Reset during the store already replaced the draft.
		if c.generation == gen {
			c.resetLocked()
		}
		return entry, nil
	})
}

// submit runs fn at most once per in-flight key. The write runs on a context that
// ignores the caller's cancellation so it always completes or fails as a whole; a
// cancelled caller just stops waiting for the result.
func (c *Controller) submit(ctx context.Context, key string, fn func(context.Context) (*Entry, error)) (*Entry, error) {
	store := context.WithoutCancel(ctx)
	ch := c.submits.DoChan(key, func() (any, error) {
		c.submitMu.Lock()
		defer c.submitMu.Unlock()
		return fn(store)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		entry := cloneEntry(*res.Val.(*Entry))
		return &entry, nil
	}
}
