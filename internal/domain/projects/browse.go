// internal/domain/projects/browse.go
package projects

import (
	"sync"

	"devmarket-gateway/internal/upstream"
)

// BrowseState holds the current query and its result set. Fetches carry a
// generation number; a result that arrives for an older generation is
// discarded so a stale response never overwrites fresher state.
type BrowseState struct {
	mu sync.Mutex

	filters Filters
	page    Page
	list    []upstream.Project
	current *upstream.Project
	loading bool
	errMsg  string
	gen     uint64
}

func NewBrowseState() *BrowseState {
	return &BrowseState{
		page: Page{Skip: 0, Limit: DefaultLimit},
	}
}

// SetFilters replaces the filter set and always resets pagination to the
// first page; an out-of-range page never survives a filter change.
func (b *BrowseState) SetFilters(f Filters) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.filters = f
	b.page.Skip = 0
}

func (b *BrowseState) NextPage() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.page.Skip += b.page.Limit
}

func (b *BrowseState) PrevPage() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.page.Skip -= b.page.Limit
	if b.page.Skip < 0 {
		b.page.Skip = 0
	}
}

// BeginFetch resets the loading/error flags and returns the generation the
// caller must present when applying the outcome.
func (b *BrowseState) BeginFetch() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.gen++
	b.loading = true
	b.errMsg = ""
	return b.gen
}

// ApplyResult replaces the held list. It reports false, leaving state
// untouched, when the generation is stale.
func (b *BrowseState) ApplyResult(gen uint64, list []upstream.Project) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.gen {
		return false
	}
	b.list = list
	b.loading = false
	b.errMsg = ""
	return true
}

func (b *BrowseState) ApplyError(gen uint64, msg string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.gen {
		return false
	}
	b.loading = false
	b.errMsg = msg
	return true
}

func (b *BrowseState) Query() upstream.Query {
	b.mu.Lock()
	defer b.mu.Unlock()
	return upstream.Query{
		TechStack: b.filters.TechStack,
		MinBudget: b.filters.MinBudget,
		MaxBudget: b.filters.MaxBudget,
		Skip:      b.page.Skip,
		Limit:     b.page.Limit,
	}
}

func (b *BrowseState) Page() Page {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.page
}

func (b *BrowseState) Projects() []upstream.Project {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.list
}

func (b *BrowseState) Loading() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loading
}

func (b *BrowseState) Err() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.errMsg
}

// SetCurrent records the project detail view the session is looking at.
func (b *BrowseState) SetCurrent(p *upstream.Project) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = p
}

func (b *BrowseState) Current() *upstream.Project {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// ReplaceProject swaps the authoritative server copy into the list and the
// current view, used after a status update.
func (b *BrowseState) ReplaceProject(p *upstream.Project) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.list {
		if b.list[i].ID == p.ID {
			b.list[i] = *p
		}
	}
	if b.current != nil && b.current.ID == p.ID {
		b.current = p
	}
}

// AppendComment appends the server-returned comment to the current view.
// Comments are never inserted optimistically.
func (b *BrowseState) AppendComment(projectID string, c upstream.Comment) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current != nil && b.current.ID == projectID {
		b.current.Comments = append(b.current.Comments, c)
	}
}
