package fetch

import (
	"strconv"
	"strings"

	"vacfetch/pkg/hh"
)

// FlatRow is the fixed-schema tabular form of one vacancy, ready for
// persistence. All fields are rendered strings; absent values are empty.
type FlatRow struct {
	ID                      string `json:"id"`
	Name                    string `json:"name"`
	AlternateURL            string `json:"alternate_url"`
	EmployerID              string `json:"employer_id"`
	EmployerName            string `json:"employer_name"`
	AreaID                  string `json:"area_id"`
	AreaName                string `json:"area_name"`
	SalaryFrom              string `json:"salary_from"`
	SalaryTo                string `json:"salary_to"`
	SalaryCurrency          string `json:"salary_currency"`
	SalaryGross             string `json:"salary_gross"`
	PublishedAt             string `json:"published_at"`
	Schedule                string `json:"schedule"`
	Employment              string `json:"employment"`
	Requirement             string `json:"requirement"`
	Responsibility          string `json:"responsibility"`
	DetailDescriptionHTML   string `json:"detail_description_html"`
	DetailKeySkills         string `json:"detail_key_skills"`
	DetailProfessionalRoles string `json:"detail_professional_roles"`
}

// Columns returns the output column names in their fixed order.
func Columns() []string {
	return []string{
		"id",
		"name",
		"alternate_url",
		"employer_id",
		"employer_name",
		"area_id",
		"area_name",
		"salary_from",
		"salary_to",
		"salary_currency",
		"salary_gross",
		"published_at",
		"schedule",
		"employment",
		"requirement",
		"responsibility",
		"detail_description_html",
		"detail_key_skills",
		"detail_professional_roles",
	}
}

// Values returns the row fields in Columns order.
func (r FlatRow) Values() []string {
	return []string{
		r.ID,
		r.Name,
		r.AlternateURL,
		r.EmployerID,
		r.EmployerName,
		r.AreaID,
		r.AreaName,
		r.SalaryFrom,
		r.SalaryTo,
		r.SalaryCurrency,
		r.SalaryGross,
		r.PublishedAt,
		r.Schedule,
		r.Employment,
		r.Requirement,
		r.Responsibility,
		r.DetailDescriptionHTML,
		r.DetailKeySkills,
		r.DetailProfessionalRoles,
	}
}

// Flatten merges one vacancy and its optional detail into a FlatRow.
// A nil detail leaves the detail_* columns empty.
func Flatten(v hh.Vacancy, detail *hh.VacancyDetail) FlatRow {
	row := FlatRow{
		ID:           v.ID,
		Name:         v.Name,
		AlternateURL: v.AlternateURL,
		PublishedAt:  v.PublishedAt,
	}

	if v.Employer != nil {
		row.EmployerID = v.Employer.ID
		row.EmployerName = v.Employer.Name
	}
	if v.Area != nil {
		row.AreaID = v.Area.ID
		row.AreaName = v.Area.Name
	}
	if v.Salary != nil {
		row.SalaryFrom = intParam(v.Salary.From)
		row.SalaryTo = intParam(v.Salary.To)
		row.SalaryCurrency = v.Salary.Currency
		row.SalaryGross = boolParam(v.Salary.Gross)
	}
	if v.Schedule != nil {
		row.Schedule = v.Schedule.Name
	}
	if v.Employment != nil {
		row.Employment = v.Employment.Name
	}
	if v.Snippet != nil {
		row.Requirement = v.Snippet.Requirement
		row.Responsibility = v.Snippet.Responsibility
	}

	if detail != nil {
		row.DetailDescriptionHTML = detail.Description
		row.DetailKeySkills = joinNames(detail.KeySkills)
		row.DetailProfessionalRoles = joinNames(detail.ProfessionalRoles)
	}

	return row
}

func intParam(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func boolParam(v *bool) string {
	if v == nil {
		return ""
	}
	return strconv.FormatBool(*v)
}

// joinNames serializes a multi-valued dictionary field as a single
// ", "-joined string.
func joinNames(names []hh.Named) string {
	parts := make([]string, 0, len(names))
	for _, n := range names {
		parts = append(parts, n.Name)
	}
	return strings.Join(parts, ", ")
}
