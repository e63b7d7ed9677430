// Package pagination holds the page/per_page conventions shared by list
// endpoints and their backing queries.
package pagination

// Bounds applied by Clamp.
const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Params holds pagination parameters for a list request.
type Params struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// DefaultParams returns the first page with the default page size.
func DefaultParams() Params {
	return Params{
		Page:    1,
		PerPage: DefaultPerPage,
	}
}

// Clamp normalizes out-of-range values: page is raised to 1, per_page falls
// back to the default when non-positive and is capped at MaxPerPage.
func (p Params) Clamp() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

// Offset returns the row offset of the current page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PerPage
}
