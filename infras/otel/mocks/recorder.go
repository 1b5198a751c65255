package mocks

import (
	"context"
	"sync"

	"libraryhub/infras/otel"
)

// Recorder is a test tracer that keeps every error traced on its scopes, keyed by span name.
type Recorder struct {
	mu     sync.Mutex
	errors map[string][]error
}

func NewRecorder() *Recorder {
	return &Recorder{errors: map[string][]error{}}
}

// NewScope implements otel.Otel.
func (r *Recorder) NewScope(ctx context.Context, _, spanName string) (context.Context, otel.Scope) {
	return ctx, &recordingScope{Scope: NewScope(), recorder: r, span: spanName}
}

// Errors returns the errors traced on spans with the given name.
func (r *Recorder) Errors(spanName string) []error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]error(nil), r.errors[spanName]...)
}

func (r *Recorder) record(spanName string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.errors[spanName] = append(r.errors[spanName], err)
}

type recordingScope struct {
	otel.Scope
	recorder *Recorder
	span     string
}

func (s *recordingScope) TraceError(err error) {
	s.recorder.record(s.span, err)
}

func (s *recordingScope) TraceIfError(err error) {
	if err != nil {
		s.TraceError(err)
	}
}
