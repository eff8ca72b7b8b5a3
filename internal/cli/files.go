package cli

import (
	"context"
	"strings"

	"github.com/matzehuels/structboard/pkg/diagram"
	"github.com/matzehuels/structboard/pkg/document"
	"github.com/matzehuels/structboard/pkg/errors"
	"github.com/matzehuels/structboard/pkg/observability"
)

// loadFile reads a diagram and logs every decode problem as a warning.
func loadFile(ctx context.Context, path string) (*diagram.Document, document.Report, error) {
	d, rep, err := document.ReadFile(path)
	if err != nil {
		return nil, rep, err
	}
	observability.Render().OnDecode(ctx, rep.Records, rep.Skipped, rep.Dangling)
	logger := loggerFromContext(ctx)
	for _, p := range rep.Problems {
		logger.Warn("decode", "file", path, "problem", p)
	}
	return d, rep, nil
}

// resolve finds an element by ID, or by name when exactly one element
// carries it.
func resolve(d *diagram.Document, ref string) (*diagram.Element, error) {
	if e := d.Get(ref); e != nil {
		return e, nil
	}
	var found []*diagram.Element
	for _, e := range d.Elements() {
		if e.Name() == ref {
			found = append(found, e)
		}
	}
	switch len(found) {
	case 0:
		return nil, errors.New(errors.ErrCodeNotFound, "no element %q", ref)
	case 1:
		return found[0], nil
	}
	ids := make([]string, len(found))
	for i, e := range found {
		ids[i] = e.ID()
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "name %q is ambiguous (ids %s)", ref, strings.Join(ids, ", "))
}

// resolveKind is resolve restricted to one kind of element.
func resolveKind(d *diagram.Document, ref string, accept func(*diagram.Element) bool, what string) (*diagram.Element, error) {
	e, err := resolve(d, ref)
	if err != nil {
		return nil, err
	}
	if !accept(e) {
		return nil, errors.New(errors.ErrCodeStructural, "%s is a %s, not a %s", ref, e.Kind(), what)
	}
	return e, nil
}

func isPointer(e *diagram.Element) bool   { return e.Kind() == diagram.KindPointerCell }
func isContainer(e *diagram.Element) bool { return e.IsContainer() }
func isStack(e *diagram.Element) bool     { return e.Kind() == diagram.KindStackQueue }

// trimExt drops a document extension from a path.
func trimExt(path string) string {
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		if strings.HasSuffix(strings.ToLower(path), ext) {
			return path[:len(path)-len(ext)]
		}
	}
	return path
}
