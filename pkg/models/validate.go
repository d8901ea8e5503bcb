package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/distribution/reference"
	"github.com/go-playground/validator/v10"
)

var ErrNoJobs = errors.New("models: a workflow needs at least one job")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	if err := v.RegisterValidation("image_ref", validateImageRef); err != nil {
		panic(err)
	}
	return v
}

// validateImageRef accepts docker image references and expressions that
// resolve to one at run time.
func validateImageRef(fl validator.FieldLevel) bool {
	image := fl.Field().String()
	if strings.Contains(image, "${{") {
		return true
	}
	_, err := reference.ParseNormalizedNamed(image)
	return err == nil
}

// Validate checks the tree for mandatory fields, permission levels, container
// images and step kinds. Ordered maps are walked here since the validator
// does not descend into them.
func (w Workflow) Validate() error {
	if w.Jobs.Len() == 0 {
		return ErrNoJobs
	}
	if err := validate.Struct(w); err != nil {
		return fmt.Errorf("workflow: %w", err)
	}

	var err error
	w.Jobs.Range(func(id string, job Job) bool {
		err = job.validate(id)
		return err == nil
	})
	return err
}

// Validate checks a single job and its services.
func (j Job) Validate() error {
	return j.validate(JobID(j.Name))
}

func (j Job) validate(id string) error {
	if err := validate.Struct(j); err != nil {
		return fmt.Errorf("job %s: %w", id, err)
	}
	if j.Strategy != nil && j.Strategy.Matrix != nil {
		if err := j.Strategy.Matrix.Validate(); err != nil {
			return fmt.Errorf("job %s: %w", id, err)
		}
	}
	var err error
	j.Services.Range(func(name string, c Container) bool {
		if verr := validate.Struct(c); verr != nil {
			err = fmt.Errorf("job %s: service %s: %w", id, name, verr)
		}
		return err == nil
	})
	return err
}

// Validate checks that the step runs a command or uses an action, not both.
func (s Step) Validate() error {
	if (s.Run == "") == (s.Uses == "") {
		return ErrStepKind
	}
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("step %s: %w", s.ID, err)
	}
	return nil
}
