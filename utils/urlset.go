package utils

// URLSet tracks URLs that have already been seen, in first-seen order.
type URLSet struct {
	seen  map[string]struct{}
	order []string
}

// NewURLSet creates an empty URLSet.
func NewURLSet() *URLSet {
	return &URLSet{seen: make(map[string]struct{})}
}

// Add returns true if the URL was newly added, false if already present.
func (s *URLSet) Add(url string) bool {
	if _, exists := s.seen[url]; exists {
		return false
	}
	s.seen[url] = struct{}{}
	s.order = append(s.order, url)
	return true
}

// Size returns the number of unique URLs tracked.
func (s *URLSet) Size() int {
	return len(s.seen)
}

// List returns the URLs in the order they were first added.
func (s *URLSet) List() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
