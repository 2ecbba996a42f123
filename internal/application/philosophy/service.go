package philosophy

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/insuregov/governance/internal/application"
	appaudit "github.com/insuregov/governance/internal/application/audit"
	"github.com/insuregov/governance/internal/domain/ai"
	"github.com/insuregov/governance/internal/domain/audit"
	domain "github.com/insuregov/governance/internal/domain/philosophy"
	"github.com/insuregov/governance/internal/infra/ai/prompt"
	"github.com/insuregov/governance/internal/infra/jsonfile"
)

// Service manages governance philosophy documents. History is append-only;
// each save adds a new entry and reads surface the newest first.
type Service struct {
	Log   *jsonfile.EventLog
	AI    ai.Client // nil disables LLM gap filling
	Audit *appaudit.Logger
	Clock application.Clock
}

// Save appends a philosophy entry. When fillGaps is set and an AI client is
// configured, empty sections are generated first; a section whose generation
// fails stays empty rather than failing the save, except quota exhaustion
// which aborts so the caller can report it.
func (s *Service) Save(ctx context.Context, p domain.Philosophy, fillGaps bool) (domain.Philosophy, error) {
	if err := p.Validate(); err != nil {
		return domain.Philosophy{}, err
	}
	now := s.Clock.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	if fillGaps && s.AI != nil {
		if err := s.fillGaps(ctx, &p); err != nil {
			return domain.Philosophy{}, err
		}
	}

	rec, err := jsonfile.ToRecord(p)
	if err != nil {
		return domain.Philosophy{}, err
	}
	if err := s.Log.Append(rec); err != nil {
		return domain.Philosophy{}, err
	}
	if err := s.Audit.Record(audit.Entry{
		ActionType: "create_philosophy",
		EntityType: "philosophy",
		EntityID:   fmt.Sprintf("%s_%s", p.Scope, p.ScopeRef),
		NewValue:   rec,
	}); err != nil {
		return domain.Philosophy{}, err
	}
	return p, nil
}

func (s *Service) fillGaps(ctx context.Context, p *domain.Philosophy) error {
	for _, sec := range domain.Sections {
		if p.SectionValue(sec.Field) != "" {
			continue
		}
		text, err := s.AI.Complete(ctx,
			prompt.GetSystemPrompt(),
			prompt.GetSectionPrompt(string(p.Scope), p.ScopeRef, sec.Title))
		if err != nil {
			if errors.Is(err, ai.ErrQuotaExceeded) {
				return err
			}
			log.Printf("philosophy: generating %q: %v", sec.Title, err)
			continue
		}
		p.SetSection(sec.Field, text)
		p.GeneratedByLLM = true
	}
	return nil
}

// ListFilter narrows a philosophy listing; zero values mean no constraint.
type ListFilter struct {
	Scope    string
	ScopeRef string
}

// List returns philosophy entries matching the filter, most recently updated
// first.
func (s *Service) List(f ListFilter) ([]jsonfile.Record, error) {
	attrs := jsonfile.Record{}
	if f.Scope != "" {
		attrs["scope"] = f.Scope
	}
	if f.ScopeRef != "" {
		attrs["scope_ref"] = f.ScopeRef
	}
	records, err := s.Log.Filter(attrs)
	if err != nil {
		return nil, err
	}
	jsonfile.SortDescending(records, "updated_at")
	return records, nil
}
