package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"unidoc/internal/model"
)

func orgActor(id string, role model.Role, department, faculty string) model.Actor {
	return model.Actor{ID: id, Role: role, Department: department, Faculty: faculty, IsActive: true}
}

func TestCanCreateFor(t *testing.T) {
	student := orgActor("s1", model.RoleStudent, "cs", "engineering")
	otherStudent := orgActor("s2", model.RoleStudent, "math", "science")

	tests := []struct {
		name    string
		creator model.Actor
		author  model.Actor
		want    bool
	}{
		{"admin for anyone", orgActor("a1", model.RoleAdmin, "", ""), otherStudent, true},
		{"dean within same faculty", orgActor("d1", model.RoleDean, "", "engineering"), student, true},
		{"dean across faculties", orgActor("d1", model.RoleDean, "", "engineering"), otherStudent, false},
		{"head within same department", orgActor("h1", model.RoleDepartmentHead, "cs", ""), student, true},
		{"head across departments", orgActor("h1", model.RoleDepartmentHead, "cs", ""), otherStudent, false},
		{"teacher for own department student", orgActor("t1", model.RoleTeacher, "cs", ""), student, true},
		{"teacher for other department student", orgActor("t1", model.RoleTeacher, "cs", ""), otherStudent, false},
		{"teacher for non-student", orgActor("t1", model.RoleTeacher, "cs", ""), orgActor("t2", model.RoleTeacher, "cs", ""), false},
		{"student for self", student, student, true},
		{"student for other student", student, otherStudent, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanCreateFor(tt.creator, tt.author))
		})
	}
}

func TestAllowedDocumentTypes(t *testing.T) {
	t.Run("student may not create faculty paperwork", func(t *testing.T) {
		types := AllowedDocumentTypes(model.RoleStudent)
		assert.Contains(t, types, "thesis")
		assert.NotContains(t, types, "faculty_report")
		assert.NotContains(t, types, "order")
	})

	t.Run("dean set covers faculty paperwork", func(t *testing.T) {
		types := AllowedDocumentTypes(model.RoleDean)
		assert.Contains(t, types, "faculty_report")
		assert.Contains(t, types, "academic_plan")
		assert.Contains(t, types, "order")
		assert.NotContains(t, types, "thesis")
	})

	t.Run("teaching material types belong to teachers", func(t *testing.T) {
		teacher := AllowedDocumentTypes(model.RoleTeacher)
		assert.Contains(t, teacher, "methodological_guide")
		assert.Contains(t, teacher, "syllabus")
		assert.Contains(t, teacher, "test_assignment")

		head := AllowedDocumentTypes(model.RoleDepartmentHead)
		assert.NotContains(t, head, "methodological_guide")
		assert.NotContains(t, head, "syllabus")
	})

	t.Run("admin set spans roles without teaching-only types", func(t *testing.T) {
		admin := AllowedDocumentTypes(model.RoleAdmin)
		assert.Contains(t, admin, "thesis")
		assert.Contains(t, admin, "methodological_guide")
		assert.Contains(t, admin, "department_report")
		assert.Contains(t, admin, "faculty_report")
		assert.NotContains(t, admin, "syllabus")
		assert.NotContains(t, admin, "test_assignment")
		assert.NotContains(t, admin, "academic_plan")
	})

	t.Run("unknown role gets nothing", func(t *testing.T) {
		assert.Empty(t, AllowedDocumentTypes(model.Role("visitor")))
	})
}
