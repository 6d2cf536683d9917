package store

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/jonathan/resume-builder/internal/content"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestStore() *Store {
	return New(WithClock(func() time.Time { return fixedTime }), WithIDGenerator(sequentialIDs()))
}

func TestNew_DefaultDocument(t *testing.T) {
	s := newTestStore()
	doc := s.Snapshot()

	assert.Equal(t, types.DefaultSectionOrder, doc.ResumeMetadata.SectionOrder)
	assert.Equal(t, types.TemplateModern, doc.ResumeMetadata.Template)
	assert.Equal(t, "2024-03-01T12:00:00Z", doc.ResumeMetadata.LastUpdated)
	assert.Empty(t, doc.Experience)
	assert.NotNil(t, doc.Experience)
	assert.NotNil(t, doc.CustomSections)
}

func TestAddThenRemove_RestoresList(t *testing.T) {
	s := newTestStore()
	_, err := s.AddExperience(types.Experience{Company: "Globex"})
	require.NoError(t, err)
	before := s.Snapshot().Experience

	id, err := s.AddExperience(types.Experience{Company: "Acme"})
	require.NoError(t, err)
	assert.Len(t, s.Snapshot().Experience, 2)

	s.RemoveExperience(id)
	assert.ElementsMatch(t, before, s.Snapshot().Experience)
}

func TestAddThenRemove_EveryList(t *testing.T) {
	s := newTestStore()

	tests := []struct {
		name   string
		add    func() (string, error)
		remove func(string)
		count  func() int
	}{
		{"education", func() (string, error) { return s.AddEducation(types.Education{Institution: "MIT"}) }, s.RemoveEducation, func() int { return len(s.Snapshot().Education) }},
		{"project", func() (string, error) { return s.AddProject(types.Project{Title: "CLI"}) }, s.RemoveProject, func() int { return len(s.Snapshot().Projects) }},
		{"certification", func() (string, error) { return s.AddCertification(types.Certification{Name: "CKA"}) }, s.RemoveCertification, func() int { return len(s.Snapshot().Certifications) }},
		{"language", func() (string, error) { return s.AddLanguage(types.Language{Name: "French"}) }, s.RemoveLanguage, func() int { return len(s.Snapshot().Languages) }},
		{"achievement", func() (string, error) { return s.AddAchievement(types.Achievement{Title: "Award"}) }, s.RemoveAchievement, func() int { return len(s.Snapshot().Achievements) }},
		{"extracurricular", func() (string, error) { return s.AddExtraCurricular(types.ExtraCurricular{Title: "Chess"}) }, s.RemoveExtraCurricular, func() int { return len(s.Snapshot().ExtraCurriculars) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := tt.add()
			require.NoError(t, err)
			assert.NotEmpty(t, id)
			assert.Equal(t, 1, tt.count())

			tt.remove(id)
			assert.Equal(t, 0, tt.count())
		})
	}
}

func TestAdd_KeepsUniqueIDAndReplacesDuplicate(t *testing.T) {
	s := newTestStore()

	id, err := s.AddProject(types.Project{ID: "p1", Title: "One"})
	require.NoError(t, err)
	assert.Equal(t, "p1", id)

	id, err = s.AddProject(types.Project{ID: "p1", Title: "Two"})
	require.NoError(t, err)
	assert.Equal(t, "id-1", id)
}

func TestUpdate_MissingIDIsNoop(t *testing.T) {
	s := newTestStore()
	_, err := s.AddExperience(types.Experience{Company: "Acme"})
	require.NoError(t, err)
	before := s.Snapshot()

	notified := 0
	s.Subscribe(func(types.ResumeData) { notified++ })

	err = s.UpdateExperience("does-not-exist", ExperiencePatch{Company: Ptr("Initech")})
	require.NoError(t, err)
	assert.Equal(t, before, s.Snapshot())
	assert.Zero(t, notified)
}

func TestUpdate_MergesSetFields(t *testing.T) {
	s := newTestStore()
	id, err := s.AddExperience(types.Experience{Company: "Acme", Position: "Engineer", Location: "Remote"})
	require.NoError(t, err)

	require.NoError(t, s.UpdateExperience(id, ExperiencePatch{Position: Ptr("Staff Engineer")}))

	got := s.Snapshot().Experience[0]
	assert.Equal(t, "Acme", got.Company)
	assert.Equal(t, "Staff Engineer", got.Position)
	assert.Equal(t, "Remote", got.Location)
	assert.Equal(t, id, got.ID)
}

func TestReorder_InverseRestoresOrder(t *testing.T) {
	s := newTestStore()
	for _, c := range []string{"A", "B", "C", "D"} {
		_, err := s.AddExperience(types.Experience{Company: c})
		require.NoError(t, err)
	}
	original := s.Snapshot().Experience

	for i := 0; i < len(original); i++ {
		for j := 0; j < len(original); j++ {
			require.NoError(t, s.ReorderExperience(i, j))
			require.NoError(t, s.ReorderExperience(j, i))
			assert.Equal(t, original, s.Snapshot().Experience, "reorder(%d,%d) then reorder(%d,%d)", i, j, j, i)
		}
	}
}

func TestReorder_OutOfRange(t *testing.T) {
	s := newTestStore()
	_, err := s.AddLanguage(types.Language{Name: "German"})
	require.NoError(t, err)

	err = s.ReorderLanguages(0, 3)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "languages", ve.Field)
}

func TestAddEducation_GradeValidation(t *testing.T) {
	tests := []struct {
		name      string
		gradeType types.GradeType
		value     float64
		wantError bool
	}{
		{"percentage above range", types.GradePercentage, 150, true},
		{"percentage in range", types.GradePercentage, 87.5, false},
		{"cgpa in range", types.GradeCGPA, 9.2, false},
		{"cgpa above range", types.GradeCGPA, 10.5, true},
		{"negative", types.GradeCGPA, -1, true},
		{"default type is cgpa", "", 11, true},
		{"not a number", types.GradePercentage, math.NaN(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore()
			_, err := s.AddEducation(types.Education{GradeType: tt.gradeType, GradeValue: Ptr(tt.value)})
			if !tt.wantError {
				require.NoError(t, err)
				assert.Len(t, s.Snapshot().Education, 1)
				return
			}
			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, "gradeValue", ve.Field)
			assert.Empty(t, s.Snapshot().Education)
		})
	}
}

func TestUpdateEducation_RejectsOutOfRangeAndKeepsState(t *testing.T) {
	s := newTestStore()
	id, err := s.AddEducation(types.Education{GradeType: types.GradePercentage, GradeValue: Ptr(80.0)})
	require.NoError(t, err)

	err = s.UpdateEducation(id, EducationPatch{GradeValue: Ptr(101.0)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Percentage must be between 0 and 100")
	assert.InDelta(t, 80.0, *s.Snapshot().Education[0].GradeValue, 0.001)

	require.NoError(t, s.UpdateEducation(id, EducationPatch{ClearGradeValue: true}))
	assert.Nil(t, s.Snapshot().Education[0].GradeValue)
}

func TestLanguage_RejectsUnknownProficiency(t *testing.T) {
	s := newTestStore()
	_, err := s.AddLanguage(types.Language{Name: "Spanish", Proficiency: "Fluent"})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "proficiency", ve.Field)
}

func TestCurrentExperience_RendersPresent(t *testing.T) {
	s := newTestStore()
	_, err := s.AddExperience(types.Experience{
		Company:   "Acme",
		Position:  "Engineer",
		StartDate: "01/2020",
		Current:   true,
	})
	require.NoError(t, err)

	exp := s.GetResumeData().Experience[0]
	assert.True(t, exp.Current)
	assert.Equal(t, "Jan 2020 – Present", content.DateRange(exp.StartDate, exp.EndDate, exp.Current))
}

func TestBullets_NormalizedAtBoundary(t *testing.T) {
	s := newTestStore()
	id, err := s.AddExperience(types.Experience{Description: "• Shipped v1\n• Cut latency"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Shipped v1", "Cut latency"}, s.Snapshot().Experience[0].Bullets)

	// derived bullets follow a new description
	require.NoError(t, s.UpdateExperience(id, ExperiencePatch{Description: Ptr("Led a team of four")}))
	assert.Equal(t, []string{"Led a team of four"}, s.Snapshot().Experience[0].Bullets)

	// explicit bullets win and survive a description change
	require.NoError(t, s.UpdateExperience(id, ExperiencePatch{Bullets: []string{"Explicit"}}))
	require.NoError(t, s.UpdateExperience(id, ExperiencePatch{Description: Ptr("Something else")}))
	assert.Equal(t, []string{"Explicit"}, s.Snapshot().Experience[0].Bullets)

	// clearing bullets falls back to the description
	require.NoError(t, s.UpdateExperience(id, ExperiencePatch{Bullets: []string{}}))
	assert.Equal(t, []string{"Something else"}, s.Snapshot().Experience[0].Bullets)
}

func TestSkills(t *testing.T) {
	s := newTestStore()

	id, err := s.AddSkill(types.SkillLanguages, types.Skill{Name: "Go", Category: types.SkillTools})
	require.NoError(t, err)
	got := s.Snapshot().Skills.Languages
	require.Len(t, got, 1)
	assert.Equal(t, types.SkillLanguages, got[0].Category)

	_, err = s.AddSkill("databases", types.Skill{Name: "Postgres"})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "category", ve.Field)

	_, err = s.AddSkill(types.SkillTools, types.Skill{})
	require.Error(t, err)

	added := s.AddSkills([]types.Skill{
		{ID: id, Name: "Go again", Category: types.SkillLanguages},
		{Name: "React", Category: types.SkillFrameworks},
		{Name: "Docker", Category: types.SkillTools},
		{Name: "Mystery", Category: "other"},
	})
	assert.Equal(t, 2, added)
	assert.Len(t, s.Snapshot().Skills.All(), 3)

	require.NoError(t, s.UpdateSkill(types.SkillLanguages, id, SkillPatch{Name: Ptr("Golang")}))
	assert.Equal(t, "Golang", s.Snapshot().Skills.Languages[0].Name)

	s.RemoveSkill(types.SkillLanguages, id)
	assert.Empty(t, s.Snapshot().Skills.Languages)
}

func TestAddSection_Duplicate(t *testing.T) {
	s := newTestStore()

	key, err := s.AddSection("Hobbies")
	require.NoError(t, err)
	assert.Equal(t, "hobbies", key)

	_, err = s.AddSection("hobbies")
	var dup *DuplicateSectionError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "hobbies", dup.Key)

	count := 0
	for _, k := range s.SectionOrder() {
		if k == "hobbies" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestAddSection_EmptyName(t *testing.T) {
	s := newTestStore()
	_, err := s.AddSection("   ")
	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestRemoveSection_CoreIsNoop(t *testing.T) {
	s := newTestStore()
	before := s.Snapshot()

	s.RemoveSection("experience")

	assert.Contains(t, s.SectionOrder(), "experience")
	assert.Equal(t, before, s.Snapshot())
}

func TestRemoveSection_CustomDropsContent(t *testing.T) {
	s := newTestStore()
	key, err := s.AddSection("Volunteer Work")
	require.NoError(t, err)
	require.NoError(t, s.UpdateCustomSection(key, CustomSectionPatch{Content: Ptr("Food bank")}))
	assert.Equal(t, []string{"Food bank"}, s.Snapshot().CustomSections[key].Bullets)

	s.RemoveSection(key)

	assert.NotContains(t, s.SectionOrder(), key)
	assert.NotContains(t, s.Snapshot().CustomSections, key)
}

func TestUpdateCustomSection_UnknownKey(t *testing.T) {
	s := newTestStore()
	var ve *ValidationError
	assert.True(t, errors.As(s.UpdateCustomSection("hobbies", CustomSectionPatch{}), &ve))
	assert.True(t, errors.As(s.UpdateCustomSection("experience", CustomSectionPatch{}), &ve))
}

func TestMoveSection(t *testing.T) {
	s := newTestStore()
	require.NoError(t, s.MoveSection(1, 0))
	assert.Equal(t, []string{"experience", "personal"}, s.SectionOrder()[:2])

	assert.Error(t, s.MoveSection(0, 42))
}

func TestUpdateMetadata_SectionOrderKeepsCoreKeys(t *testing.T) {
	tests := []struct {
		name  string
		order []string
		want  []string
	}{
		{
			name:  "case duplicates collapse",
			order: []string{"hobbies", "Hobbies"},
			want:  append([]string{"hobbies"}, types.DefaultSectionOrder...),
		},
		{
			name:  "missing core keys appended",
			order: []string{"personal"},
			want:  types.DefaultSectionOrder,
		},
		{
			name:  "core keys matched case-insensitively",
			order: []string{"Education", "EXPERIENCE", "Side Projects"},
			want: []string{"education", "experience", "side_projects", "personal", "skills", "projects",
				"certifications", "languages", "achievements", "extraCurriculars"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore()
			s.UpdateMetadata(MetadataPatch{SectionOrder: tt.order})
			assert.Equal(t, tt.want, s.SectionOrder())
		})
	}
}

func TestUpdateMetadata_ExperienceStillRendersAfterNarrowOrder(t *testing.T) {
	s := newTestStore()
	s.UpdateMetadata(MetadataPatch{SectionOrder: []string{"personal"}})
	_, err := s.AddExperience(types.Experience{Company: "Acme"})
	require.NoError(t, err)

	doc := s.Snapshot()
	assert.Contains(t, doc.ResumeMetadata.SectionOrder, "experience")

	p, err := rendering.NewPreviewer()
	require.NoError(t, err)
	html, err := p.Render(doc)
	require.NoError(t, err)
	assert.Contains(t, html, "Acme")

	tex, err := rendering.RenderLaTeX(doc)
	require.NoError(t, err)
	assert.Contains(t, tex, "Acme")
}

func TestExportImport_RoundTrip(t *testing.T) {
	s := newTestStore()
	s.UpdatePersonalInfo(PersonalInfoPatch{Name: Ptr("Ada Lovelace"), Email: Ptr("ada@example.com")})
	_, err := s.AddExperience(types.Experience{Company: "Acme", StartDate: "2020-01", Current: true, Description: "• Built the engine"})
	require.NoError(t, err)
	_, err = s.AddEducation(types.Education{Institution: "Cambridge", GradeType: types.GradeCGPA, GradeValue: Ptr(9.2)})
	require.NoError(t, err)
	_, err = s.AddProject(types.Project{Title: "Notes", TechStack: []string{"Go"}, URL: "https://example.com"})
	require.NoError(t, err)
	_, err = s.AddSkill(types.SkillTools, types.Skill{Name: "Make"})
	require.NoError(t, err)
	_, err = s.AddCertification(types.Certification{Name: "CKA", CredentialID: "X1"})
	require.NoError(t, err)
	_, err = s.AddLanguage(types.Language{Name: "French", Proficiency: types.ProficiencyAdvanced})
	require.NoError(t, err)
	_, err = s.AddAchievement(types.Achievement{Title: "Prize"})
	require.NoError(t, err)
	_, err = s.AddExtraCurricular(types.ExtraCurricular{Title: "Choir", Description: "Tenor"})
	require.NoError(t, err)
	key, err := s.AddSection("Hobbies")
	require.NoError(t, err)
	require.NoError(t, s.UpdateCustomSection(key, CustomSectionPatch{Content: Ptr("Chess")}))

	original := s.Snapshot()
	raw, err := s.ExportDocument()
	require.NoError(t, err)

	fresh := New(WithClock(func() time.Time { return fixedTime.Add(time.Hour) }))
	require.NoError(t, fresh.ImportDocument(raw))

	assert.Equal(t, original, fresh.Snapshot())
}

func TestImport_FillsDefaultsAndIDs(t *testing.T) {
	s := newTestStore()
	err := s.ImportDocument([]byte(`{"experience": [{"company": "Acme"}, {"company": "Globex"}]}`))
	require.NoError(t, err)

	doc := s.Snapshot()
	require.Len(t, doc.Experience, 2)
	assert.Equal(t, "id-1", doc.Experience[0].ID)
	assert.Equal(t, "id-2", doc.Experience[1].ID)
	assert.Equal(t, types.DefaultSectionOrder, doc.ResumeMetadata.SectionOrder)
	assert.NotNil(t, doc.Skills.Tools)
	assert.NotNil(t, doc.Experience[0].Bullets)
}

func TestImport_EmptySectionOrderGetsCoreKeys(t *testing.T) {
	s := newTestStore()
	err := s.ImportDocument([]byte(`{"resumeMetadata": {"sectionOrder": []}}`))
	require.NoError(t, err)
	assert.Equal(t, types.DefaultSectionOrder, s.SectionOrder())
}

func TestImport_NormalizesSectionOrderAndCustomKeys(t *testing.T) {
	s := newTestStore()
	err := s.ImportDocument([]byte(`{
		"resumeMetadata": {"sectionOrder": ["Hobbies", "hobbies", "Experience"]},
		"customSections": {"Hobbies": {"title": "Hobbies", "content": "Chess"}}
	}`))
	require.NoError(t, err)

	order := s.SectionOrder()
	assert.Equal(t, []string{"hobbies", "experience"}, order[:2])
	assert.Len(t, order, len(types.DefaultSectionOrder)+1)
	assert.Contains(t, s.Snapshot().CustomSections, "hobbies")
}

func TestImport_GeneratedIDsAvoidLaterExplicitIDs(t *testing.T) {
	s := newTestStore()
	err := s.ImportDocument([]byte(`{"experience": [{"company": "A"}, {"id": "id-1", "company": "B"}, {"id": "id-1", "company": "C"}]}`))
	require.NoError(t, err)

	doc := s.Snapshot()
	require.Len(t, doc.Experience, 3)
	assert.Equal(t, "id-2", doc.Experience[0].ID)
	assert.Equal(t, "id-1", doc.Experience[1].ID)
	assert.Equal(t, "id-3", doc.Experience[2].ID)
}

func TestImport_InvalidLeavesStateIntact(t *testing.T) {
	s := newTestStore()
	_, err := s.AddExperience(types.Experience{Company: "Acme"})
	require.NoError(t, err)
	before := s.Snapshot()

	tests := []struct {
		name string
		raw  string
	}{
		{"malformed", `{"experience": [`},
		{"wrong shape", `{"experience": {"company": "Acme"}}`},
		{"invalid grade", `{"education": [{"gradeType": "percentage", "gradeValue": 150}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.ImportDocument([]byte(tt.raw))
			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, before, s.Snapshot())
		})
	}
}

func TestResetDocument(t *testing.T) {
	s := newTestStore()
	_, err := s.AddExperience(types.Experience{Company: "Acme"})
	require.NoError(t, err)

	s.ResetDocument()
	assert.Empty(t, s.Snapshot().Experience)
}

func TestSubscribe_OrderAndFailures(t *testing.T) {
	s := newTestStore()

	var calls []string
	s.Subscribe(func(types.ResumeData) { calls = append(calls, "first") })
	unsubscribe := s.Subscribe(func(types.ResumeData) { calls = append(calls, "second") })

	_, err := s.AddExperience(types.Experience{Company: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, calls)

	calls = nil
	_, err = s.AddEducation(types.Education{GradeType: types.GradePercentage, GradeValue: Ptr(150.0)})
	require.Error(t, err)
	assert.Empty(t, calls)

	unsubscribe()
	unsubscribe()
	s.UpdatePersonalInfo(PersonalInfoPatch{Name: Ptr("Ada")})
	assert.Equal(t, []string{"first"}, calls)
}

func TestSubscribe_ReceivesPrivateSnapshot(t *testing.T) {
	s := newTestStore()
	s.Subscribe(func(doc types.ResumeData) {
		doc.ResumeMetadata.SectionOrder[0] = "tampered"
	})

	s.UpdatePersonalInfo(PersonalInfoPatch{Name: Ptr("Ada")})
	assert.Equal(t, "personal", s.SectionOrder()[0])
}

func TestMutation_StampsLastUpdated(t *testing.T) {
	now := fixedTime
	s := New(WithClock(func() time.Time { return now }))

	now = now.Add(time.Minute)
	s.UpdateMetadata(MetadataPatch{Template: Ptr(types.TemplateBasic)})

	meta := s.Snapshot().ResumeMetadata
	assert.Equal(t, types.TemplateBasic, meta.Template)
	assert.Equal(t, "2024-03-01T12:01:00Z", meta.LastUpdated)
}

func TestSnapshot_IsDeepCopy(t *testing.T) {
	s := newTestStore()
	_, err := s.AddProject(types.Project{Title: "X", TechStack: []string{"Go"}})
	require.NoError(t, err)

	snap := s.Snapshot()
	snap.Projects[0].TechStack[0] = "Rust"

	assert.Equal(t, "Go", s.Snapshot().Projects[0].TechStack[0])
}
