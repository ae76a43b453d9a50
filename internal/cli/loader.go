package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/nquads"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/roach88/rdfmap/internal/graph"
	"github.com/roach88/rdfmap/internal/resource"
	"github.com/roach88/rdfmap/internal/schema"
	"github.com/roach88/rdfmap/internal/store"
	"github.com/roach88/rdfmap/internal/vocab"
)

// storeRepository is the name the store is registered under.
const storeRepository = "default"

// session is an open store plus, when a schema was given, a mapper whose
// classes come from it. The store is registered as the default repository.
type session struct {
	ctx      context.Context
	store    *store.Store
	repo     graph.Repository
	mapper   *resource.Mapper
	schema   *schema.Schema
	registry *prometheus.Registry
	out      *OutputFormatter
}

// openSession opens the database at opts.DB. Store counters are collected
// in a private registry and reported on close in verbose mode.
func openSession(ctx context.Context, opts *RootOptions, out *OutputFormatter) (*session, error) {
	reg := prometheus.NewRegistry()
	st, err := store.Open(opts.DB, store.WithLogger(out.Logger()), store.WithRegisterer(reg))
	if err != nil {
		return nil, out.Fail(ExitCommandError, ErrCodeStore, err)
	}
	out.VerboseLog("Opened store %s", opts.DB)
	return &session{
		ctx:      ctx,
		store:    st,
		repo:     st.Repository(ctx),
		registry: reg,
		out:      out,
	}, nil
}

// withSchema loads the CUE schema in dir and declares its classes on a new
// mapper bound to the store.
func (s *session) withSchema(dir string) error {
	sch, errs := schema.Load(dir, schema.LoadModeFailFast)
	if len(errs) > 0 {
		var loadErr *schema.LoadError
		if errors.As(errs[0], &loadErr) {
			_ = s.out.Error(loadErr.Code, loadErr.Message, nil)
			return WrapExitError(ExitCommandError, loadErr.Code, loadErr)
		}
		return s.out.Fail(ExitCommandError, schema.ErrCodeGeneric, errs[0])
	}
	s.out.VerboseLog("Loaded %d class(es) from %d file(s) in %s", len(sch.Classes), sch.FileCount, dir)

	repos := graph.NewRegistry()
	repos.Add(storeRepository, s.repo)
	s.mapper = resource.NewMapper(
		resource.WithLogger(s.out.Logger()),
		resource.WithRepositories(repos),
	)
	if err := sch.Declare(s.mapper); err != nil {
		return s.out.Fail(ExitCommandError, schema.ErrCodeClass, err)
	}
	s.schema = sch
	return nil
}

// class looks up a declared class. An empty name is the default class.
func (s *session) class(name string) (*resource.Class, error) {
	if name == "" {
		return s.mapper.DefaultClass(), nil
	}
	c, ok := s.mapper.Class(name)
	if !ok {
		return nil, s.out.Fail(ExitCommandError, ErrCodeClass,
			fmt.Errorf("class %q is not declared; have %v", name, s.schema.Names()))
	}
	return c, nil
}

// subject resolves a command-line subject: "<iri>" and "_:id" forms, or a
// prefixed name. Anything else is returned as is for the class to resolve.
func (s *session) subject(arg string) any {
	switch {
	case strings.HasPrefix(arg, "<") && strings.HasSuffix(arg, ">"):
		return quad.IRI(arg[1 : len(arg)-1])
	case strings.HasPrefix(arg, "_:"):
		return quad.BNode(arg[2:])
	}
	if s.schema != nil {
		if prefix, local, ok := strings.Cut(arg, ":"); ok && !strings.HasPrefix(local, "//") {
			if ns, ok := s.schema.Prefixes[prefix]; ok {
				return quad.IRI(ns + local)
			}
		}
	}
	return arg
}

// property resolves a property argument: a declared name, "<iri>", or a
// prefixed name expanded against the schema prefixes.
func (s *session) property(c *resource.Class, arg string) any {
	if _, ok := c.PropertyByName(arg); ok {
		return arg
	}
	if strings.HasPrefix(arg, "<") && strings.HasSuffix(arg, ">") {
		return quad.IRI(arg[1 : len(arg)-1])
	}
	if strings.Contains(arg, ":") {
		var prefixes map[string]string
		if s.schema != nil {
			prefixes = s.schema.Prefixes
		}
		return vocab.Expand(arg, prefixes)
	}
	return arg
}

// value converts a command-line value: "<iri>" and "_:id" become nodes,
// everything else a string literal.
func value(arg string) any {
	switch {
	case strings.HasPrefix(arg, "<") && strings.HasSuffix(arg, ">"):
		return quad.IRI(arg[1 : len(arg)-1])
	case strings.HasPrefix(arg, "_:"):
		return quad.BNode(arg[2:])
	}
	return arg
}

// close reports store counters in verbose mode and closes the store.
func (s *session) close() {
	if s.out.Verbose {
		s.reportMetrics()
	}
	if err := s.store.Close(); err != nil {
		s.out.VerboseLog("close store: %v", err)
	}
}

func (s *session) reportMetrics() {
	families, err := s.registry.Gather()
	if err != nil {
		s.out.VerboseLog("gather metrics: %v", err)
		return
	}
	var lines []string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				labels = append(labels, l.GetName()+"="+l.GetValue())
			}
			lines = append(lines, fmt.Sprintf("%s{%s} %g", mf.GetName(), strings.Join(labels, ","), m.GetCounter().GetValue()))
		}
	}
	sort.Strings(lines)
	for _, l := range lines {
		s.out.VerboseLog("%s", l)
	}
}

// readQuads parses an N-Quads (or N-Triples) file. "-" reads r.
func readQuads(path string, r io.Reader) ([]quad.Quad, error) {
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	reader := nquads.NewReader(r, false)
	var out []quad.Quad
	for {
		q, err := reader.ReadQuad()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%s: statement %d: %w", path, len(out)+1, err)
		}
		out = append(out, q)
	}
}
