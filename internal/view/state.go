package view

// State is the interactive view state of one screen. Changing the search
// term sends the user back to page 1; every read clamps the page.
type State struct {
	search string
	sort   SortKey
	page   int
}

// NewState starts on page 1 with the default sort
func NewState() *State {
	return &State{sort: SortHighestSpent, page: 1}
}

func (s *State) Search() string { return s.search }

func (s *State) Sort() SortKey { return s.sort }

func (s *State) Page() int { return s.page }

// SetSearch updates the term and resets the page when it changed
func (s *State) SetSearch(term string) {
	if term == s.search {
		return
	}
	s.search = term
	s.page = 1
}

func (s *State) SetSort(key SortKey) { s.sort = key }

func (s *State) SetPage(page int) { s.page = page }

// Clamp pulls the page back into range for a result of n items
func (s *State) Clamp(n, size int) int {
	s.page = ClampPage(s.page, n, size)
	return s.page
}

// CustomerQuery snapshots the state for a customer view computation
func (s *State) CustomerQuery() CustomerQuery {
	return CustomerQuery{Search: s.search, Sort: s.sort, Page: s.page}
}
