// Package validator builds declarative input checks.
//
// Each exported rule constructor returns a Rule; Apply evaluates them all and
// aggregates the failures into ValidationErrors, which implements error:
//
//	err := validator.Apply(
//	    validator.ValidEmail("email", email),
//	    validator.MinLen("password", password, 8),
//	)
//	if ve := validator.ExtractValidationErrors(err); ve != nil {
//	    // ve.Has("email"), ve.Fields()
//	}
package validator
