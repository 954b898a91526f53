package storage2md

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/alnah/go-storage2md/internal/pipeline"
	"github.com/alnah/go-storage2md/internal/storage"
)

// Converter turns storage-format documents into Markdown. It holds only
// immutable handler tables, so one Converter may serve any number of
// goroutines.
type Converter struct {
	engine   *pipeline.Engine
	defaults Options
	logger   Logger
}

// Option configures a Converter.
type Option func(*converterConfig)

// converterConfig holds the settings collected from options.
type converterConfig struct {
	defaults Options
	logger   Logger
	macros   map[string]pipeline.MacroHandler
}

// MacroCall is what a custom macro handler sees of one invocation.
type MacroCall struct {
	Name        string            // lowercased macro name
	Params      map[string]string // parameter values; "" is the default parameter
	Body        string            // body converted to Markdown, or the plain-text body
	InTableCell bool              // output must stay on one line
}

// MacroFunc renders a macro invocation. Block content should be returned
// surrounded by blank lines; inline content as is.
type MacroFunc func(call MacroCall) string

// WithLogger sets the logger used for per-document diagnostics.
func WithLogger(l Logger) Option {
	return func(c *converterConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithDefaultOptions sets the options used when Input.Options is nil.
func WithDefaultOptions(o Options) Option {
	return func(c *converterConfig) {
		c.defaults = o
	}
}

// WithMacro registers fn for the macro name, replacing any built-in
// handler of the same name. Names are case-insensitive.
// Panics if name is blank or fn is nil (programmer error).
func WithMacro(name string, fn MacroFunc) Option {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		panic("storage2md: WithMacro name must not be empty")
	}
	if fn == nil {
		panic("storage2md: WithMacro handler must not be nil")
	}
	return func(c *converterConfig) {
		c.macros[name] = func(conv *pipeline.Conversion, m *pipeline.Macro) string {
			return fn(MacroCall{
				Name:        m.Name,
				Params:      maps.Clone(m.Params),
				Body:        conv.MacroBody(m),
				InTableCell: conv.InTableCell(),
			})
		}
	}
}

// NewConverter creates a Converter with the built-in element and macro handlers.
func NewConverter(opts ...Option) *Converter {
	cfg := converterConfig{
		defaults: DefaultOptions(),
		logger:   nopLogger{},
		macros:   make(map[string]pipeline.MacroHandler),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Converter{
		engine:   pipeline.NewEngine(cfg.macros),
		defaults: cfg.defaults,
		logger:   cfg.logger,
	}
}

// HasMacro reports whether the converter has a handler for the macro name.
func (c *Converter) HasMacro(name string) bool {
	return c.engine.HasMacro(name)
}

// Convert converts one document. A malformed document yields a
// *StructuralError and no Result. Unsupported constructs never fail; they
// are preserved as text and listed in Result.Warnings.
// The context is only checked before work starts: a conversion is bounded
// by the input size and is not interrupted midway.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opts := c.defaults
	if input.Options != nil {
		opts = *input.Options
	}

	start := time.Now()
	root, err := storage.Load(input.Content)
	if err != nil {
		return nil, structuralError(input.Name, err)
	}

	out := c.engine.Convert(root, opts.pipeline())
	for _, w := range out.Warnings {
		c.logger.Debug("conversion degraded", "document", input.Name, "type", string(w.Type), "detail", w.Detail)
	}
	c.logger.Debug("document converted",
		"document", input.Name,
		"bytes", len(out.Markdown),
		"assets", len(out.Assets),
		"warnings", len(out.Warnings),
		"elapsed", time.Since(start),
	)

	return &Result{
		Markdown: out.Markdown,
		Assets:   out.Assets,
		Headings: out.Headings,
		Warnings: out.Warnings,
	}, nil
}

// structuralError converts a parser failure into a *StructuralError.
func structuralError(name string, err error) error {
	var pe *storage.ParseError
	if !errors.As(err, &pe) {
		return &StructuralError{Document: name, Err: err}
	}
	return &StructuralError{
		Document: name,
		Offset:   pe.Offset,
		Line:     pe.Line,
		Path:     pe.Path,
		Err:      pe.Err,
	}
}
