// Zaparoo Core
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Zaparoo Core.
//
// Zaparoo Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Zaparoo Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Zaparoo Core.  If not, see <http://www.gnu.org/licenses/>.

// Package validation checks configuration values and library records using
// go-playground/validator with custom validators for anime metadata.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/ZaparooProject/anitrack/pkg/anime"
	"github.com/go-playground/validator/v10"
)

// Validator handles validation of structs tagged with `validate`.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new Validator with registered custom validators.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	_ = v.RegisterValidation("title", validateTitle)
	v.RegisterStructValidation(validateItemDates, anime.Item{})

	return &Validator{validate: v}
}

// DefaultValidator is a shared validator instance.
var DefaultValidator = NewValidator()

// Validate validates a struct and returns an *Error if any field fails.
func (v *Validator) Validate(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return NewError(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// validateTitle requires at least one printable, non-space character and
// no control characters.
func validateTitle(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if strings.TrimSpace(val) == "" {
		return false
	}
	return strings.IndexFunc(val, unicode.IsControl) < 0
}

// validateItemDates rejects items that finish airing before they start.
func validateItemDates(sl validator.StructLevel) {
	item, ok := sl.Current().Interface().(anime.Item)
	if !ok {
		return
	}
	if item.DateStart.IsValid() && item.DateEnd.IsValid() && item.DateEnd.Before(item.DateStart) {
		sl.ReportError(item.DateEnd, "DateEnd", "DateEnd", "dateorder", "")
	}
}
