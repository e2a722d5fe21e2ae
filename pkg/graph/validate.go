package graph

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/PigStep/vibe-idef0-front/pkg/errors"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Report JSON field paths ("edges[2].type") rather than Go names.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Validate checks the length limits on names and labels. Any integer is a
// valid id and labels may be empty. It does not check roles or cross
// references; ToDiagram and idef0.New do that.
func Validate(g Diagram) error {
	err := structValidator().Struct(g)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.Wrap(errors.ErrCodeInvalidDiagram, err, "validate diagram")
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldPath(fe)+": "+message(fe.Tag(), fe.Param()))
	}
	return errors.New(errors.ErrCodeInvalidDiagram, "%s", strings.Join(msgs, "; "))
}

// fieldPath strips the root struct name: "Diagram.nodes[0].label" -> "nodes[0].label".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func message(tag, param string) string {
	switch tag {
	case "max":
		return fmt.Sprintf("must be at most %s characters", param)
	default:
		return fmt.Sprintf("failed %s validation", tag)
	}
}
