// Package handler exposes the composite service over HTTP with gin.
package handler
