// Package specification describes queries for the generic repository
// without exposing the ORM to callers.
package specification

// Specification is a reusable query over the rows of T: a filter, the
// relations to load, an ordering and an optional page window.
type Specification[T any] interface {
	// Model returns a zero T. It ties the specification to its entity, so a
	// user specification cannot be passed to the products repository.
	Model() *T
	Criteria() Criterion
	Includes() []string
	OrderBy() string
	OrderByDescending() string
	Take() int
	Skip() int
	IsPagingEnabled() bool
}

// BaseSpecification implements Specification. Concrete specifications
// embed it and configure it in their constructors.
type BaseSpecification[T any] struct {
	criteria          Criterion
	includes          []string
	orderBy           string
	orderByDescending string
	take              int
	skip              int
	pagingEnabled     bool
}

// NewBaseSpecification returns a specification filtered by the conjunction
// of criteria. No criteria matches every row.
func NewBaseSpecification[T any](criteria ...Criterion) *BaseSpecification[T] {
	return &BaseSpecification[T]{criteria: And(criteria...)}
}

func (s *BaseSpecification[T]) Model() *T                 { return new(T) }
func (s *BaseSpecification[T]) Criteria() Criterion       { return s.criteria }
func (s *BaseSpecification[T]) Includes() []string        { return s.includes }
func (s *BaseSpecification[T]) OrderBy() string           { return s.orderBy }
func (s *BaseSpecification[T]) OrderByDescending() string { return s.orderByDescending }
func (s *BaseSpecification[T]) Take() int                 { return s.take }
func (s *BaseSpecification[T]) Skip() int                 { return s.skip }
func (s *BaseSpecification[T]) IsPagingEnabled() bool     { return s.pagingEnabled }

// AddInclude eager-loads the named association.
func (s *BaseSpecification[T]) AddInclude(association string) {
	s.includes = append(s.includes, association)
}

func (s *BaseSpecification[T]) AddOrderBy(column string) {
	s.orderBy = column
}

func (s *BaseSpecification[T]) AddOrderByDescending(column string) {
	s.orderByDescending = column
}

func (s *BaseSpecification[T]) ApplyPaging(skip, take int) {
	s.skip = skip
	s.take = take
	s.pagingEnabled = true
}
