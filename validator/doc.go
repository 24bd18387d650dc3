// Package validator wraps go-playground/validator and reports failures as
// field name to message maps suitable for response bodies.
package validator
