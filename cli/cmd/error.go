package cmd

import "github.com/ardnew/mexl/lang"

// Predefined errors (sentinel values).
var (
	ErrModelNotFound = lang.NewError("model file not found")
	ErrInvalidModel  = lang.NewError("model validation failed")
	ErrWriteConfig   = lang.NewError("write configuration file")
	ErrFileExists    = lang.NewError("file exists (use --force to overwrite)")
	ErrWriteOutput   = lang.NewError("write formatted model")
)
