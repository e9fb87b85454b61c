package models

import (
	"imgfetch/internal/binder"
	"imgfetch/internal/validation"
)

type BindResult struct {
	Form        binder.Form             `json:"form"`
	Valid       bool                    `json:"valid"`
	Attributes  map[string]string       `json:"attributes,omitempty"`
	FieldErrors []validation.FieldError `json:"field_errors,omitempty"`
}
