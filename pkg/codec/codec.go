// Package codec converts workflows to and from their YAML text.
//
// Render writes keys in struct declaration order and ordered maps in
// insertion order, omitting every unset field. Parse is its left inverse:
// Parse(Render(w)) is equal to w for every workflow built with the models
// package.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/opnlabs/ghaflow/pkg/models"
	"gopkg.in/yaml.v3"
)

const Indent = 2

var (
	ErrEncode = errors.New("codec: unable to encode workflow")
	ErrParse  = errors.New("codec: unable to parse workflow")
	ErrEmpty  = errors.New("codec: empty document")
)

// Render returns the YAML text of w.
func Render(w models.Workflow) (string, error) {
	var b bytes.Buffer
	if err := Encode(&b, w); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Encode writes the YAML text of w to out.
func Encode(out io.Writer, w models.Workflow) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(Indent)
	if err := enc.Encode(w); err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return nil
}

// Parse reads a workflow from its YAML text. Keys the model does not know
// are dropped.
func Parse(text string) (models.Workflow, error) {
	return Decode(strings.NewReader(text))
}

// Decode reads a single workflow document from in.
func Decode(in io.Reader) (models.Workflow, error) {
	var w models.Workflow
	if err := yaml.NewDecoder(in).Decode(&w); err != nil {
		if errors.Is(err, io.EOF) {
			return models.Workflow{}, fmt.Errorf("%w: %w", ErrParse, ErrEmpty)
		}
		return models.Workflow{}, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return w, nil
}

// Format parses text and renders it back in canonical form.
func Format(text string) (string, error) {
	w, err := Parse(text)
	if err != nil {
		return "", err
	}
	return Render(w)
}
