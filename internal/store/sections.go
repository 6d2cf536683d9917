package store

import (
	"slices"
	"strings"

	"github.com/jonathan/resume-builder/internal/sections"
	"github.com/jonathan/resume-builder/internal/types"
	"go.uber.org/zap"
)

// SectionOrder returns the current section keys in render order
func (s *Store) SectionOrder() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.doc.ResumeMetadata.SectionOrder)
}

// AddSection registers a custom section under the key derived from
// displayName and returns that key.
func (s *Store) AddSection(displayName string) (string, error) {
	name := strings.TrimSpace(displayName)
	if name == "" {
		return "", &ValidationError{Field: "sectionName", Message: "is required"}
	}
	key := sections.DeriveKey(name)

	err := s.mutate(func(doc *types.ResumeData) (bool, error) {
		order := &doc.ResumeMetadata.SectionOrder
		if slices.Contains(*order, key) {
			return false, &DuplicateSectionError{Key: key}
		}
		*order = append(*order, key)
		if !sections.IsCore(key) {
			if _, ok := doc.CustomSections[key]; !ok {
				doc.CustomSections[key] = types.CustomSection{Title: name, Bullets: []string{}}
			}
		}
		return true, nil
	})
	if err != nil {
		return "", err
	}
	return key, nil
}

// RemoveSection drops a custom section and its content. Core sections are
// protected and the call is ignored.
func (s *Store) RemoveSection(key string) {
	if sections.IsCore(key) {
		s.logger.Warn("refusing to remove core section", zap.String("section", key))
		return
	}
	_ = s.mutate(func(doc *types.ResumeData) (bool, error) {
		order := doc.ResumeMetadata.SectionOrder
		i := slices.Index(order, key)
		_, hasContent := doc.CustomSections[key]
		if i < 0 && !hasContent {
			return false, nil
		}
		if i >= 0 {
			doc.ResumeMetadata.SectionOrder = removeAt(order, i)
		}
		delete(doc.CustomSections, key)
		return true, nil
	})
}

// MoveSection moves the section at index from to index to
func (s *Store) MoveSection(from, to int) error {
	return s.mutate(func(doc *types.ResumeData) (bool, error) {
		moved, err := move(doc.ResumeMetadata.SectionOrder, from, to, "sectionOrder")
		if err != nil {
			return false, err
		}
		doc.ResumeMetadata.SectionOrder = moved
		return from != to, nil
	})
}

// UpdateCustomSection patches the content of a custom section present in the order
func (s *Store) UpdateCustomSection(key string, patch CustomSectionPatch) error {
	return s.mutate(func(doc *types.ResumeData) (bool, error) {
		if sections.IsCore(key) || !slices.Contains(doc.ResumeMetadata.SectionOrder, key) {
			return false, &ValidationError{Field: "section", Message: "unknown custom section " + key}
		}
		cs, ok := doc.CustomSections[key]
		if !ok {
			cs = types.CustomSection{Title: sections.DisplayName(key), Bullets: []string{}}
		}
		patch.apply(&cs)
		doc.CustomSections[key] = cs
		return true, nil
	})
}

// UpdatePersonalInfo merges the set fields of patch into the personal info block
func (s *Store) UpdatePersonalInfo(patch PersonalInfoPatch) {
	_ = s.mutate(func(doc *types.ResumeData) (bool, error) {
		patch.apply(&doc.PersonalInfo)
		return true, nil
	})
}

// UpdateMetadata merges the set fields of patch into the document metadata
func (s *Store) UpdateMetadata(patch MetadataPatch) {
	_ = s.mutate(func(doc *types.ResumeData) (bool, error) {
		patch.apply(&doc.ResumeMetadata)
		return true, nil
	})
}
