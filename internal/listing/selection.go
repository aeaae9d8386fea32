package listing

// Selection is the detail overlay state: closed, or open on one record.
type Selection[T any] struct {
	item T
	open bool
}

// Open shows item in the overlay, replacing any previous selection.
func (s *Selection[T]) Open(item T) {
	s.item = item
	s.open = true
}

// Close hides the overlay and forgets the record.
func (s *Selection[T]) Close() {
	var zero T
	s.item = zero
	s.open = false
}

// IsOpen reports whether the overlay is showing.
func (s *Selection[T]) IsOpen() bool {
	return s.open
}

// Item returns the selected record.
func (s *Selection[T]) Item() (T, bool) {
	return s.item, s.open
}

// Update replaces the selected record while the overlay stays open.
func (s *Selection[T]) Update(item T) {
	if s.open {
		s.item = item
	}
}
