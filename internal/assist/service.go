package assist

import (
	"context"

	"github.com/jonathan/resume-builder/internal/store"
	"github.com/jonathan/resume-builder/internal/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds parallel proxy calls in FillAll
const DefaultConcurrency = 4

// Service drafts bullets for many entities of a document
type Service struct {
	client *Client
	limit  int
	logger *zap.Logger
}

// NewService creates a service; limit <= 0 uses DefaultConcurrency
func NewService(client *Client, limit int, logger *zap.Logger) *Service {
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, limit: limit, logger: logger}
}

type fillJob struct {
	section types.AssistSection
	id      string
	data    types.DescriptionData
	draft   Draft
}

// FillResult summarizes a FillAll run
type FillResult struct {
	Applied  int
	Fallback int
}

// FillAll drafts bullets for every experience and project that has none
// and applies them in document order. With overwrite set, entities that
// already have bullets are redrafted too.
func (s *Service) FillAll(ctx context.Context, st *store.Store, overwrite bool) (FillResult, error) {
	doc := st.Snapshot()

	var jobs []*fillJob
	for _, e := range doc.Experience {
		if overwrite || len(e.Bullets) == 0 {
			jobs = append(jobs, &fillJob{section: types.AssistExperience, id: e.ID, data: ExperienceData(e)})
		}
	}
	for _, p := range doc.Projects {
		if overwrite || len(p.Bullets) == 0 {
			jobs = append(jobs, &fillJob{section: types.AssistProject, id: p.ID, data: ProjectData(p)})
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.limit)
	for _, job := range jobs {
		g.Go(func() error {
			draft, err := s.client.DraftBullets(gctx, job.section, job.data)
			if err != nil {
				return err
			}
			job.draft = draft
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return FillResult{}, err
	}

	var result FillResult
	for _, job := range jobs {
		if err := applyDraft(st, job.section, job.id, job.draft); err != nil {
			return result, err
		}
		result.Applied++
		if job.draft.Fallback {
			result.Fallback++
		}
	}

	s.logger.Info("drafted bullets",
		zap.Int("applied", result.Applied),
		zap.Int("fallback", result.Fallback))
	return result, nil
}
