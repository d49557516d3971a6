package yaml

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/token"
)

// ErrorWrapper attaches shared context (typically the config source) to
// [*Error]s produced during decoding or validation.
type ErrorWrapper struct {
	Opts []ErrorOpt
}

func NewErrorWrapper(opts ...ErrorOpt) *ErrorWrapper {
	return &ErrorWrapper{
		Opts: opts,
	}
}

// Wrap applies the wrapper's options to err if it is an [*Error].
// Other errors are returned unmodified.
func (ew *ErrorWrapper) Wrap(err error, opts ...ErrorOpt) error {
	if err == nil {
		return nil
	}

	var yamlErr *Error
	if errors.As(err, &yamlErr) {
		for _, opt := range ew.Opts {
			opt(yamlErr)
		}

		for _, opt := range opts {
			opt(yamlErr)
		}

		return yamlErr
	}

	return err
}

// Error is a YAML error with enough position information to annotate the
// offending source.
type Error struct {
	Err    error
	Path   *yaml.Path
	Token  *token.Token
	Source []byte
}

type ErrorOpt func(e *Error)

// WithSource provides the YAML source for annotation.
func WithSource(source []byte) ErrorOpt {
	return func(e *Error) {
		e.Source = source
	}
}

func (e *Error) Error() string {
	msg := e.Err.Error()

	switch {
	case e.Path != nil && len(e.Source) > 0:
		annotated, err := e.Path.AnnotateSource(e.Source, false)
		if err == nil {
			return fmt.Sprintf("%s:\n%s", msg, string(annotated))
		}

		return fmt.Sprintf("%s: at %s", msg, e.Path.String())

	case e.Path != nil:
		return fmt.Sprintf("%s: at %s", msg, e.Path.String())

	case e.Token != nil:
		return fmt.Sprintf("%s: line %d, column %d",
			msg, e.Token.Position.Line, e.Token.Position.Column)
	}

	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}
