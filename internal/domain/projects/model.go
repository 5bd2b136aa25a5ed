// internal/domain/projects/model.go
package projects

// Filters is the transient listing filter set, rebuilt on every filter change.
type Filters struct {
	TechStack string
	MinBudget *int
	MaxBudget *int
}

// Page is the pagination window. The paginator does not track a total count;
// it is the caller's job to disable "next" when a short page comes back.
type Page struct {
	Skip  int
	Limit int
}

const DefaultLimit = 10
