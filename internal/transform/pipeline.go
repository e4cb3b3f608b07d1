package transform

import "github.com/KaramelBytes/antioquia-dashboard/internal/dataset"

// Step is one stage of a pipeline.
type Step func(*dataset.Table) (*dataset.Table, error)

// Lift adapts an infallible transform to a Step.
func Lift(f func(*dataset.Table) *dataset.Table) Step {
	return func(t *dataset.Table) (*dataset.Table, error) { return f(t), nil }
}

// FilterStep binds c into a Step.
func FilterStep(c Criteria) Step {
	return func(t *dataset.Table) (*dataset.Table, error) { return Filter(t, c), nil }
}

// Pipeline composes steps left to right and stops at the first error.
func Pipeline(steps ...Step) Step {
	return func(t *dataset.Table) (*dataset.Table, error) {
		var err error
		for _, s := range steps {
			if t, err = s(t); err != nil {
				return nil, err
			}
		}
		return t, nil
	}
}

// Enrich adds the derived rate and risk level columns.
var Enrich = Pipeline(Lift(ComputeRate), Lift(ClassifyRisk))

// View filters t by c and enriches the result.
func View(t *dataset.Table, c Criteria) (*dataset.Table, error) {
	return Pipeline(FilterStep(c), Enrich)(t)
}
