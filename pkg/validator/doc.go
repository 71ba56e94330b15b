// Package validator collects field rule failures into one error.
//
//	err := validator.Apply(
//		validator.Required("title", title),
//		validator.MaxLen("title", title, 200),
//	)
//	for _, fe := range validator.ExtractValidationErrors(err) { ... }
//
// Messages are user facing; Key is a stable identifier for the failed rule.
package validator
