package corpus

// Set is an order-preserving mapping of unique test name to Test.
// Iteration order is insertion order, which for a loaded corpus is the order
// tests appear in their source files.
type Set struct {
	names []string
	tests map[string]*Test
}

// NewSet returns an empty test set.
func NewSet() *Set {
	return &Set{tests: make(map[string]*Test)}
}

// Add inserts a test under the given name. Adding an existing name replaces
// the test without duplicating the name in the iteration order.
func (s *Set) Add(name string, t *Test) {
	if _, ok := s.tests[name]; !ok {
		s.names = append(s.names, name)
	}
	s.tests[name] = t
}

// Get returns the test registered under name, or nil.
func (s *Set) Get(name string) *Test {
	return s.tests[name]
}

// Names returns the test names in insertion order. The returned slice is
// shared; callers must not modify it.
func (s *Set) Names() []string {
	return s.names
}

// Len returns the number of tests in the set.
func (s *Set) Len() int {
	return len(s.names)
}
