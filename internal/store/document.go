package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jonathan/resume-builder/internal/content"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/sections"
	"github.com/jonathan/resume-builder/internal/types"
)

// ExportDocument returns the current document as indented JSON
func (s *Store) ExportDocument() ([]byte, error) {
	snapshot := s.Snapshot()
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	return data, nil
}

// ImportDocument replaces the whole document with the JSON in raw.
// On any error the current document is left untouched.
func (s *Store) ImportDocument(raw []byte) error {
	if err := schemas.ValidateDocument(raw); err != nil {
		return &ValidationError{Field: "document", Message: "invalid document shape", Cause: err}
	}

	var doc types.ResumeData
	if err := json.Unmarshal(raw, &doc); err != nil {
		return &ValidationError{Field: "document", Message: "failed to decode document", Cause: err}
	}
	return s.ReplaceDocument(doc)
}

// ReplaceDocument installs doc after filling defaults, assigning missing ids
// and validating every entity. The document's own lastUpdated is kept when set.
func (s *Store) ReplaceDocument(doc types.ResumeData) error {
	doc = doc.Clone()
	if err := s.prepare(&doc); err != nil {
		return err
	}
	return s.commit(func(draft *types.ResumeData) (bool, error) {
		*draft = doc
		return true, nil
	}, false)
}

// ResetDocument discards all content and restores the defaults
func (s *Store) ResetDocument() {
	_ = s.mutate(func(doc *types.ResumeData) (bool, error) {
		*doc = types.NewResumeData(s.now())
		return true, nil
	})
}

// prepare brings an externally supplied document to the invariants the
// store maintains for its own mutations.
func (s *Store) prepare(doc *types.ResumeData) error {
	defaults := types.NewResumeData(s.now())

	meta := &doc.ResumeMetadata
	if meta.Template == "" {
		meta.Template = defaults.ResumeMetadata.Template
	}
	if meta.ColorScheme == "" {
		meta.ColorScheme = defaults.ResumeMetadata.ColorScheme
	}
	if meta.FontSize == "" {
		meta.FontSize = defaults.ResumeMetadata.FontSize
	}
	meta.SectionOrder = sections.NormalizeOrder(meta.SectionOrder, types.DefaultSectionOrder)
	if meta.LastUpdated == "" {
		meta.LastUpdated = defaults.ResumeMetadata.LastUpdated
	}
	if doc.CustomSections == nil {
		doc.CustomSections = map[string]types.CustomSection{}
	}
	custom := make(map[string]types.CustomSection, len(doc.CustomSections))
	for key, cs := range doc.CustomSections {
		cs.Bullets = content.Normalize(cs.Content, cs.Bullets)
		normalized := sections.NormalizeKey(key)
		if normalized == "" {
			normalized = key
		}
		// an entry already stored under its canonical key wins
		if _, taken := custom[normalized]; taken && normalized != key {
			continue
		}
		custom[normalized] = cs
	}
	doc.CustomSections = custom

	if err := prepareList(s, &doc.Experience, experienceOps); err != nil {
		return err
	}
	if err := prepareList(s, &doc.Education, educationOps); err != nil {
		return err
	}
	if err := prepareList(s, &doc.Projects, projectOps); err != nil {
		return err
	}
	if err := prepareList(s, &doc.Certifications, certificationOps); err != nil {
		return err
	}
	if err := prepareList(s, &doc.Languages, languageOps); err != nil {
		return err
	}
	if err := prepareList(s, &doc.Achievements, achievementOps); err != nil {
		return err
	}
	if err := prepareList(s, &doc.ExtraCurriculars, extraCurricularOps); err != nil {
		return err
	}

	for _, category := range types.SkillCategories {
		bucket := doc.Skills.Bucket(category)
		skillOps := listOps[types.Skill, *types.Skill]{
			field: "skills." + string(category),
			prep:  func(sk *types.Skill) { sk.Category = category },
		}
		if err := prepareList(s, bucket, skillOps); err != nil {
			return err
		}
	}
	return nil
}

func prepareList[T any, P entity[T]](s *Store, list *[]T, ops listOps[T, P]) error {
	if *list == nil {
		*list = []T{}
	}
	items := *list
	explicit := make(map[string]bool, len(items))
	for i := range items {
		if id := *P(&items[i]).EntityID(); id != "" {
			explicit[id] = true
		}
	}
	assigned := make(map[string]bool, len(items))
	for i := range items {
		p := P(&items[i])
		id := p.EntityID()
		if *id == "" || assigned[*id] {
			*id = ""
			s.assignID(id, func(candidate string) bool {
				return assigned[candidate] || explicit[candidate]
			})
		}
		assigned[*id] = true
		if ops.prep != nil {
			ops.prep(p)
		}
		if err := s.check(items[i]); err != nil {
			var ve *ValidationError
			if errors.As(err, &ve) {
				ve.Field = fmt.Sprintf("%s[%d].%s", ops.field, i, ve.Field)
			}
			return err
		}
	}
	return nil
}
