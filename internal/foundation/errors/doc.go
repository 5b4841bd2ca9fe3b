// Package errors provides classified error primitives used across techdocs-core.
//
// A ClassifiedError carries a category (config, filesystem, plugin, ...), a
// severity, and free-form context. Errors are constructed with the fluent
// builder:
//
//	err := errors.FileSystemError("write metadata template").
//		WithContext("path", path).
//		WithCause(cause).
//		Build()
//
// The CLI adapter turns classified errors into exit codes and user-facing
// messages.
package errors
