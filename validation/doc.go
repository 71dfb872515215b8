// Package validation validates tagged structs with go-playground/validator
// and reports failures as *errors.AppError with per-field details.
package validation
