package store

import (
	"fmt"

	"github.com/jonathan/resume-builder/internal/content"
	"github.com/jonathan/resume-builder/internal/types"
)

// entity is a pointer to a list item that exposes its id
type entity[T any] interface {
	*T
	EntityID() *string
}

func indexOf[T any, P entity[T]](list []T, id string) int {
	for i := range list {
		if *P(&list[i]).EntityID() == id {
			return i
		}
	}
	return -1
}

// assignID keeps a provided id when it is unused, otherwise draws fresh ids
// until one is.
func (s *Store) assignID(id *string, exists func(string) bool) {
	for *id == "" || exists(*id) {
		*id = s.newID()
	}
}

func removeAt[T any](list []T, i int) []T {
	out := make([]T, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...)
}

// move relocates the element at from to index to
func move[T any](list []T, from, to int, field string) ([]T, error) {
	if from < 0 || from >= len(list) || to < 0 || to >= len(list) {
		return nil, &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("reorder indices %d -> %d out of range [0,%d)", from, to, len(list)),
		}
	}
	item := list[from]
	out := removeAt(list, from)
	out = append(out[:to], append([]T{item}, out[to:]...)...)
	return out, nil
}

// listOps implements add/update/remove/reorder for one list section of the document
type listOps[T any, P entity[T]] struct {
	field string
	list  func(doc *types.ResumeData) *[]T
	prep  func(item P)
}

func (o listOps[T, P]) add(s *Store, item T) (string, error) {
	var id string
	err := s.mutate(func(doc *types.ResumeData) (bool, error) {
		list := o.list(doc)
		p := P(&item)
		s.assignID(p.EntityID(), func(candidate string) bool {
			return indexOf[T, P](*list, candidate) >= 0
		})
		if o.prep != nil {
			o.prep(p)
		}
		if err := s.check(item); err != nil {
			return false, err
		}
		*list = append(*list, item)
		id = *p.EntityID()
		return true, nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

func (o listOps[T, P]) update(s *Store, id string, apply func(P)) error {
	return s.mutate(func(doc *types.ResumeData) (bool, error) {
		list := o.list(doc)
		i := indexOf[T, P](*list, id)
		if i < 0 {
			s.logger.Debug("update of missing entity ignored")
			return false, nil
		}
		item := (*list)[i]
		apply(P(&item))
		if err := s.check(item); err != nil {
			return false, err
		}
		(*list)[i] = item
		return true, nil
	})
}

func (o listOps[T, P]) remove(s *Store, id string) {
	_ = s.mutate(func(doc *types.ResumeData) (bool, error) {
		list := o.list(doc)
		i := indexOf[T, P](*list, id)
		if i < 0 {
			return false, nil
		}
		*list = removeAt(*list, i)
		return true, nil
	})
}

func (o listOps[T, P]) reorder(s *Store, from, to int) error {
	return s.mutate(func(doc *types.ResumeData) (bool, error) {
		list := o.list(doc)
		moved, err := move(*list, from, to, o.field)
		if err != nil {
			return false, err
		}
		*list = moved
		return from != to, nil
	})
}

var (
	experienceOps = listOps[types.Experience, *types.Experience]{
		field: "experience",
		list:  func(d *types.ResumeData) *[]types.Experience { return &d.Experience },
		prep:  func(e *types.Experience) { e.Bullets = content.Normalize(e.Description, e.Bullets) },
	}
	educationOps = listOps[types.Education, *types.Education]{
		field: "education",
		list:  func(d *types.ResumeData) *[]types.Education { return &d.Education },
		prep:  func(e *types.Education) { e.Bullets = content.Normalize(e.Description, e.Bullets) },
	}
	projectOps = listOps[types.Project, *types.Project]{
		field: "projects",
		list:  func(d *types.ResumeData) *[]types.Project { return &d.Projects },
		prep: func(p *types.Project) {
			if p.TechStack == nil {
				p.TechStack = []string{}
			}
			p.Bullets = content.Normalize(p.Description, p.Bullets)
		},
	}
	certificationOps = listOps[types.Certification, *types.Certification]{
		field: "certifications",
		list:  func(d *types.ResumeData) *[]types.Certification { return &d.Certifications },
	}
	languageOps = listOps[types.Language, *types.Language]{
		field: "languages",
		list:  func(d *types.ResumeData) *[]types.Language { return &d.Languages },
	}
	achievementOps = listOps[types.Achievement, *types.Achievement]{
		field: "achievements",
		list:  func(d *types.ResumeData) *[]types.Achievement { return &d.Achievements },
		prep:  func(a *types.Achievement) { a.Bullets = content.Normalize(a.Description, a.Bullets) },
	}
	extraCurricularOps = listOps[types.ExtraCurricular, *types.ExtraCurricular]{
		field: "extraCurriculars",
		list:  func(d *types.ResumeData) *[]types.ExtraCurricular { return &d.ExtraCurriculars },
		prep:  func(x *types.ExtraCurricular) { x.Bullets = content.Normalize(x.Description, x.Bullets) },
	}
)

// AddExperience appends an experience entry and returns its id
func (s *Store) AddExperience(e types.Experience) (string, error) {
	return experienceOps.add(s, e)
}

// UpdateExperience patches the entry with the given id; missing ids are ignored
func (s *Store) UpdateExperience(id string, patch ExperiencePatch) error {
	return experienceOps.update(s, id, patch.apply)
}

// RemoveExperience deletes the entry with the given id
func (s *Store) RemoveExperience(id string) { experienceOps.remove(s, id) }

// ReorderExperience moves the entry at from to position to
func (s *Store) ReorderExperience(from, to int) error { return experienceOps.reorder(s, from, to) }

// AddEducation appends an education entry after validating its grade
func (s *Store) AddEducation(e types.Education) (string, error) {
	return educationOps.add(s, e)
}

// UpdateEducation patches the entry with the given id; missing ids are ignored
func (s *Store) UpdateEducation(id string, patch EducationPatch) error {
	return educationOps.update(s, id, patch.apply)
}

// RemoveEducation deletes the entry with the given id
func (s *Store) RemoveEducation(id string) { educationOps.remove(s, id) }

// ReorderEducation moves the entry at from to position to
func (s *Store) ReorderEducation(from, to int) error { return educationOps.reorder(s, from, to) }

// AddProject appends a project
func (s *Store) AddProject(p types.Project) (string, error) {
	return projectOps.add(s, p)
}

// UpdateProject patches the project with the given id
func (s *Store) UpdateProject(id string, patch ProjectPatch) error {
	return projectOps.update(s, id, patch.apply)
}

// RemoveProject deletes the project with the given id
func (s *Store) RemoveProject(id string) { projectOps.remove(s, id) }

// ReorderProjects moves the project at from to position to
func (s *Store) ReorderProjects(from, to int) error { return projectOps.reorder(s, from, to) }

// AddCertification appends a certification
func (s *Store) AddCertification(c types.Certification) (string, error) {
	return certificationOps.add(s, c)
}

// UpdateCertification patches the certification with the given id
func (s *Store) UpdateCertification(id string, patch CertificationPatch) error {
	return certificationOps.update(s, id, patch.apply)
}

// RemoveCertification deletes the certification with the given id
func (s *Store) RemoveCertification(id string) { certificationOps.remove(s, id) }

// ReorderCertifications moves the certification at from to position to
func (s *Store) ReorderCertifications(from, to int) error {
	return certificationOps.reorder(s, from, to)
}

// AddLanguage appends a spoken language
func (s *Store) AddLanguage(l types.Language) (string, error) {
	return languageOps.add(s, l)
}

// UpdateLanguage patches the language with the given id
func (s *Store) UpdateLanguage(id string, patch LanguagePatch) error {
	return languageOps.update(s, id, patch.apply)
}

// RemoveLanguage deletes the language with the given id
func (s *Store) RemoveLanguage(id string) { languageOps.remove(s, id) }

// ReorderLanguages moves the language at from to position to
func (s *Store) ReorderLanguages(from, to int) error { return languageOps.reorder(s, from, to) }

// AddAchievement appends an achievement
func (s *Store) AddAchievement(a types.Achievement) (string, error) {
	return achievementOps.add(s, a)
}

// UpdateAchievement patches the achievement with the given id
func (s *Store) UpdateAchievement(id string, patch ActivityPatch) error {
	return achievementOps.update(s, id, patch.applyAchievement)
}

// RemoveAchievement deletes the achievement with the given id
func (s *Store) RemoveAchievement(id string) { achievementOps.remove(s, id) }

// ReorderAchievements moves the achievement at from to position to
func (s *Store) ReorderAchievements(from, to int) error { return achievementOps.reorder(s, from, to) }

// AddExtraCurricular appends an extracurricular activity
func (s *Store) AddExtraCurricular(x types.ExtraCurricular) (string, error) {
	return extraCurricularOps.add(s, x)
}

// UpdateExtraCurricular patches the activity with the given id
func (s *Store) UpdateExtraCurricular(id string, patch ActivityPatch) error {
	return extraCurricularOps.update(s, id, patch.applyExtraCurricular)
}

// RemoveExtraCurricular deletes the activity with the given id
func (s *Store) RemoveExtraCurricular(id string) { extraCurricularOps.remove(s, id) }

// ReorderExtraCurriculars moves the activity at from to position to
func (s *Store) ReorderExtraCurriculars(from, to int) error {
	return extraCurricularOps.reorder(s, from, to)
}
