// Package errors provides the classified error type used across pathfix.
//
// Errors carry a category (config, validation, filesystem, parse, internal), a
// severity and free-form context. They are constructed with a fluent builder:
//
//	err := errors.WrapError(cause, errors.CategoryFileSystem, "failed to read file").
//		WithContext("file", path).
//		Build()
//
// The CLI adapter maps the category of a fatal error to a process exit code.
package errors
