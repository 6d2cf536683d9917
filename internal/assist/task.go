package assist

import (
	"context"
	"fmt"

	"github.com/jonathan/resume-builder/internal/store"
	"github.com/jonathan/resume-builder/internal/types"
)

// Task is a bullet draft for one entity, bound to a cancellation token.
// Its result reaches the store only while the token is live, so a request
// that outlives its form never overwrites newer edits.
type Task struct {
	ctx     context.Context
	cancel  context.CancelFunc
	section types.AssistSection
	id      string
	done    chan struct{}
	draft   Draft
	err     error
}

// Start begins drafting bullets for the entity id in the background
func (c *Client) Start(ctx context.Context, section types.AssistSection, id string, data types.DescriptionData) *Task {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{
		ctx:     ctx,
		cancel:  cancel,
		section: section,
		id:      id,
		done:    make(chan struct{}),
	}
	go func() {
		defer close(t.done)
		t.draft, t.err = c.DraftBullets(ctx, section, data)
	}()
	return t
}

// Cancel invalidates the task. A later Apply does nothing.
func (t *Task) Cancel() {
	t.cancel()
}

// Wait blocks until the draft is finished
func (t *Task) Wait() (Draft, error) {
	<-t.done
	return t.draft, t.err
}

// Apply waits for the draft and writes it to the entity's description and
// bullets. It reports false without touching the store when the task was
// cancelled or failed.
func (t *Task) Apply(s *store.Store) (bool, error) {
	draft, err := t.Wait()
	defer t.cancel()
	if t.ctx.Err() != nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := applyDraft(s, t.section, t.id, draft); err != nil {
		return false, err
	}
	return true, nil
}

// applyDraft stores the draft text as the description and its lines as the
// explicit bullets of the entity.
func applyDraft(s *store.Store, section types.AssistSection, id string, draft Draft) error {
	switch section {
	case types.AssistExperience:
		return s.UpdateExperience(id, store.ExperiencePatch{Description: &draft.Content, Bullets: draft.Bullets})
	case types.AssistProject:
		return s.UpdateProject(id, store.ProjectPatch{Description: &draft.Content, Bullets: draft.Bullets})
	}
	return fmt.Errorf("no bullet target for section %q", section)
}
