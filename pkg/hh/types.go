// Package hh mirrors the hh.ru public API payloads consumed by the fetcher
// and provides the per-vacancy detail enricher.
package hh

// API paths.
const (
	// VacanciesPath is the paginated search endpoint.
	VacanciesPath = "/vacancies"
)

// IDName is the id/name pair hh.ru uses for dictionary references
// (employer, area, schedule, employment).
type IDName struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Named is a name-only dictionary entry (key skills, professional roles).
type Named struct {
	Name string `json:"name"`
}

// Salary describes the offered compensation. All fields are optional in the
// API; pointer fields distinguish absent from zero.
type Salary struct {
	From     *int   `json:"from"`
	To       *int   `json:"to"`
	Currency string `json:"currency"`
	Gross    *bool  `json:"gross"`
}

// Snippet carries the highlighted requirement/responsibility fragments of a
// search result.
type Snippet struct {
	Requirement    string `json:"requirement"`
	Responsibility string `json:"responsibility"`
}

// Vacancy is one item of the paginated search response.
type Vacancy struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	AlternateURL string   `json:"alternate_url"`
	Employer     *IDName  `json:"employer"`
	Area         *IDName  `json:"area"`
	Salary       *Salary  `json:"salary"`
	PublishedAt  string   `json:"published_at"`
	Schedule     *IDName  `json:"schedule"`
	Employment   *IDName  `json:"employment"`
	Snippet      *Snippet `json:"snippet"`
}

// SearchPage is the top-level search response. Pages defaults to zero when
// the field is missing, which the pagination driver reads as "no results".
type SearchPage struct {
	Items   []Vacancy `json:"items"`
	Found   int       `json:"found"`
	Pages   int       `json:"pages"`
	Page    int       `json:"page"`
	PerPage int       `json:"per_page"`
}

// VacancyDetail holds the extended fields only available from the
// per-vacancy endpoint.
type VacancyDetail struct {
	ID                string  `json:"id"`
	Description       string  `json:"description"`
	KeySkills         []Named `json:"key_skills"`
	ProfessionalRoles []Named `json:"professional_roles"`
}

// DetailPath returns the detail endpoint path for one vacancy.
func DetailPath(id string) string {
	return VacanciesPath + "/" + id
}
