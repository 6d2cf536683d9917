package store

import (
	"fmt"

	"github.com/jonathan/resume-builder/internal/types"
)

func skillBucket(doc *types.ResumeData, category types.SkillCategory) (*[]types.Skill, error) {
	bucket := doc.Skills.Bucket(category)
	if bucket == nil {
		return nil, &ValidationError{
			Field:   "category",
			Message: fmt.Sprintf("unknown skill category %q", category),
		}
	}
	return bucket, nil
}

// AddSkill appends a skill to the bucket named by category. The skill's own
// Category field is overwritten with the bucket name.
func (s *Store) AddSkill(category types.SkillCategory, skill types.Skill) (string, error) {
	var id string
	err := s.mutate(func(doc *types.ResumeData) (bool, error) {
		bucket, err := skillBucket(doc, category)
		if err != nil {
			return false, err
		}
		skill.Category = category
		s.assignID(&skill.ID, func(candidate string) bool {
			return indexOf[types.Skill](*bucket, candidate) >= 0
		})
		if err := s.check(skill); err != nil {
			return false, err
		}
		*bucket = append(*bucket, skill)
		id = skill.ID
		return true, nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// AddSkills adds a batch of skills, each into the bucket named by its
// Category. Skills with an unknown category, an id already present in their
// bucket, or an invalid name are skipped. It returns the number added.
func (s *Store) AddSkills(skills []types.Skill) int {
	added := 0
	_ = s.mutate(func(doc *types.ResumeData) (bool, error) {
		for _, skill := range skills {
			bucket := doc.Skills.Bucket(skill.Category)
			if bucket == nil {
				s.logger.Debug("skipping skill with unknown category")
				continue
			}
			if skill.ID != "" && indexOf[types.Skill](*bucket, skill.ID) >= 0 {
				continue
			}
			s.assignID(&skill.ID, func(candidate string) bool {
				return indexOf[types.Skill](*bucket, candidate) >= 0
			})
			if s.check(skill) != nil {
				continue
			}
			*bucket = append(*bucket, skill)
			added++
		}
		return added > 0, nil
	})
	return added
}

// UpdateSkill patches a skill in place; a missing id is ignored
func (s *Store) UpdateSkill(category types.SkillCategory, id string, patch SkillPatch) error {
	return s.mutate(func(doc *types.ResumeData) (bool, error) {
		bucket, err := skillBucket(doc, category)
		if err != nil {
			return false, err
		}
		i := indexOf[types.Skill](*bucket, id)
		if i < 0 {
			return false, nil
		}
		skill := (*bucket)[i]
		patch.apply(&skill)
		if err := s.check(skill); err != nil {
			return false, err
		}
		(*bucket)[i] = skill
		return true, nil
	})
}

// RemoveSkill deletes a skill from its bucket. Unknown categories and ids are ignored.
func (s *Store) RemoveSkill(category types.SkillCategory, id string) {
	_ = s.mutate(func(doc *types.ResumeData) (bool, error) {
		bucket := doc.Skills.Bucket(category)
		if bucket == nil {
			return false, nil
		}
		i := indexOf[types.Skill](*bucket, id)
		if i < 0 {
			return false, nil
		}
		*bucket = removeAt(*bucket, i)
		return true, nil
	})
}
