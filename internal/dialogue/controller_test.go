package dialogue

import (
	"context"
	"errors"
	"sync"

	"github.com/mfelder/voxfill/internal/form"
)

// fakePort serves a fixed catalog and records write-backs.
type fakePort struct {
	mu        sync.Mutex
	catalog   form.Catalog
	fieldsErr error
	writeErr  error
	writes    []form.Values
}

func (p *fakePort) Fields(context.Context, string) (form.Catalog, error) {
	if p.fieldsErr != nil {
		return nil, p.fieldsErr
	}
	return p.catalog, nil
}

func (p *fakePort) Write(_ context.Context, _ string, values form.Values) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.writeErr != nil {
		return p.writeErr
	}
	p.writes = append(p.writes, values)
	return nil
}

// extractStep scripts one extractor invocation.
type extractStep struct {
	values form.Values
	err    error
}

type fakeExtractor struct {
	steps      []extractStep
	emptyIsErr error
	texts      []string
}

func (e *fakeExtractor) Extract(_ context.Context, text string, _ form.Catalog, _ string) (form.Values, error) {
	e.texts = append(e.texts, text)
	if text == "" && e.emptyIsErr != nil {
		return nil, e.emptyIsErr
	}
	if len(e.steps) == 0 {
		return form.Values{}, nil
	}
	step := e.steps[0]
	e.steps = e.steps[1:]
	return step.values, step.err
}

type fakeSpeaker struct {
	err    error
	spoken []string
}

func (s *fakeSpeaker) Speak(_ context.Context, text string, _ string) error {
	s.spoken = append(s.spoken, text)
	return s.err
}

type fakeListener struct {
	transcripts []string
	onListen    func()
}

func (l *fakeListener) Listen(context.Context, string) (string, error) {
	if l.onListen != nil {
		l.onListen()
	}
	if len(l.transcripts) == 0 {
		return "", nil
	}
	transcript := l.transcripts[0]
	l.transcripts = l.transcripts[1:]
	return transcript, nil
}

type fakeFeedback struct {
	successes int
	missing   [][]string
}

func (f *fakeFeedback) Success(context.Context) {
	f.successes++
}

func (f *fakeFeedback) MissingFields(_ context.Context, fields []string) {
	f.missing = append(f.missing, fields)
}

func contactCatalog() form.Catalog {
	return form.Catalog{
		{ID: "name", Kind: form.KindText},
		{ID: "email", Kind: form.KindEmail},
		{ID: "gender-m", Kind: form.KindRadio, GroupName: "gender", OptionValue: "male"},
		{ID: "gender-f", Kind: form.KindRadio, GroupName: "gender", OptionValue: "female"},
	}
}

func completeValues() form.Values {
	return form.Values{
		"name":   form.TextValue("John Doe"),
		"email":  form.TextValue("a@b.com"),
		"gender": form.TextValue("female"),
	}
}

var errBoom = errors.New("boom")
