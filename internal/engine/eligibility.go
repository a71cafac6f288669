package engine

import "unidoc/internal/model"

// CanCreateFor reports whether creator may create a document on behalf of
// author. This gates document creation only: it is independent from the
// transition guards, and an approver assigned to a document they could not
// have created for is still a valid assignment.
func CanCreateFor(creator, author model.Actor) bool {
	switch creator.Role {
	case model.RoleAdmin:
		return true
	case model.RoleDean:
		return author.Faculty == creator.Faculty
	case model.RoleDepartmentHead:
		return author.Department == creator.Department
	case model.RoleTeacher:
		return author.Role == model.RoleStudent && author.Department == creator.Department
	default:
		return creator.ID == author.ID
	}
}

// AllowedDocumentTypes returns the document types a role may create, mapped
// to display labels. The type "other" is accepted for every role even when
// not listed.
func AllowedDocumentTypes(role model.Role) map[string]string {
	switch role {
	case model.RoleStudent:
		return map[string]string{
			"diploma_project":    "Diploma project",
			"course_work":        "Course work",
			"thesis":             "Master's thesis",
			"scientific_article": "Scientific article",
			"application":        "Application (scholarship, academic)",
			"other":              "Other",
		}
	case model.RoleTeacher:
		return map[string]string{
			"diploma_project":      "Diploma project",
			"course_work":          "Course work",
			"thesis":               "Master's thesis",
			"scientific_article":   "Scientific article",
			"methodological_guide": "Methodological guide",
			"syllabus":             "Syllabus",
			"test_assignment":      "Test assignment",
			"report":               "Report (research, academic)",
			"application":          "Application",
			"other":                "Other",
		}
	case model.RoleDepartmentHead:
		return map[string]string{
			"department_report":  "Department report",
			"work_plan":          "Work plan",
			"protocol":           "Protocol",
			"order":              "Order",
			"scientific_article": "Scientific article",
			"report":             "Report",
			"application":        "Application",
			"other":              "Other",
		}
	case model.RoleDean:
		return map[string]string{
			"faculty_report": "Faculty report",
			"order":          "Order",
			"protocol":       "Protocol",
			"work_plan":      "Work plan",
			"academic_plan":  "Academic plan",
			"report":         "Report",
			"application":    "Application",
			"other":          "Other",
		}
	case model.RoleAdmin:
		return map[string]string{
			"diploma_project":      "Diploma project",
			"course_work":          "Course work",
			"thesis":               "Master's thesis",
			"scientific_article":   "Scientific article",
			"methodological_guide": "Methodological guide",
			"department_report":    "Department report",
			"faculty_report":       "Faculty report",
			"work_plan":            "Work plan",
			"protocol":             "Protocol",
			"order":                "Order",
			"report":               "Report",
			"application":          "Application",
			"other":                "Other",
		}
	default:
		return map[string]string{}
	}
}
