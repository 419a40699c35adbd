package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidTree = errors.New("invalid tree")
	ErrDuplicateID = errors.New("duplicate id")
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report JSON field names in errors
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return IsValidTitle(fl.Field().String())
	})
	_ = v.RegisterValidation("absurl", func(fl validator.FieldLevel) bool {
		return IsAbsoluteURL(fl.Field().String())
	})

	return v
}

// Validate checks the structural invariants of a tree loaded from outside:
// required ids, non-blank titles, absolute URLs and globally unique ids.
// Returned errors wrap ErrInvalidTree.
func Validate(t Tree) error {
	for i := range t {
		if err := validate.Struct(&t[i]); err != nil {
			return fmt.Errorf("%w: category %d: %s", ErrInvalidTree, i, formatValidationError(err))
		}
	}

	seen := make(map[string]struct{})
	check := func(id string) error {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: %w: %s", ErrInvalidTree, ErrDuplicateID, id)
		}
		seen[id] = struct{}{}
		return nil
	}
	for _, c := range t {
		if err := check(c.ID); err != nil {
			return err
		}
		for _, s := range c.Subcategories {
			if err := check(s.ID); err != nil {
				return err
			}
			for _, l := range s.Links {
				if err := check(l.ID); err != nil {
					return err
				}
			}
		}
		for _, l := range c.Links {
			if err := check(l.ID); err != nil {
				return err
			}
		}
	}

	return nil
}

func formatValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		field := e.Namespace()
		switch e.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "notblank":
			msgs = append(msgs, field+" must not be blank")
		case "absurl":
			msgs = append(msgs, field+" must start with http:// or https://")
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return strings.Join(msgs, "; ")
}
