// Package tmpl renders note templates against weather and location data.
//
// The directive syntax is small:
//
//	{{name}}                          top-level key
//	{{a.b.c}}                         dotted path
//	{{#if path}}yes{{else}}no{{/if}}  conditional, else is optional
//	{{#each path}}@index @item @item.field{{/each}}
//
// Rendering runs four passes over the text in a fixed order: simple
// variables, path variables, conditionals, loops. Each pass only sees the
// output of the passes before it. Blocks do not nest. Anything that does not
// resolve is left in the output as written.
package tmpl

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	simpleVarRe = regexp.MustCompile(`\{\{(\w+)\}\}`)
	pathVarRe   = regexp.MustCompile(`\{\{([\w.]+)\}\}`)
	ifBlockRe   = regexp.MustCompile(`(?s)\{\{#if\s+([\w.]+)\}\}(.*?)\{\{/if\}\}`)
	eachBlockRe = regexp.MustCompile(`(?s)\{\{#each\s+([\w.]+)\}\}(.*?)\{\{/each\}\}`)
)

const (
	elseMarker   = "{{else}}"
	indexMarker  = "@index"
	itemMarker   = "@item"
	reservedElse = "else"
)

// MissFunc is called once for every variable directive that did not resolve.
// directive is the full text that was left in place, path the name inside it.
type MissFunc func(directive, path string)

// Option configures an Engine.
type Option func(*Engine)

// WithMissHandler installs a callback for unresolved variables.
func WithMissHandler(fn MissFunc) Option {
	return func(e *Engine) {
		e.onMiss = fn
	}
}

// Engine renders templates. It keeps no state between calls and is safe for
// concurrent use.
type Engine struct {
	onMiss MissFunc
}

// NewEngine creates an Engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEngine = NewEngine()

// Render renders template against ctx with the default engine.
func Render(template string, ctx Value) string {
	return defaultEngine.Render(template, ctx)
}

// Render returns template with every resolvable directive replaced. An empty
// template or a null context yields "".
func (e *Engine) Render(template string, ctx Value) string {
	if template == "" || ctx.IsNull() {
		return ""
	}

	out := e.replaceSimpleVariables(template, ctx)
	out = e.replacePathVariables(out, ctx)
	out = replaceConditionals(out, ctx)
	out = replaceLoops(out, ctx)
	return out
}

func (e *Engine) replaceSimpleVariables(src string, ctx Value) string {
	return replaceAllSubmatchFunc(simpleVarRe, src, func(m []string) string {
		v, ok := ctx.Field(m[1])
		if !ok {
			if m[1] != reservedElse {
				e.miss(m[0], m[1])
			}
			return m[0]
		}
		return v.String()
	})
}

func (e *Engine) replacePathVariables(src string, ctx Value) string {
	return replaceAllSubmatchFunc(pathVarRe, src, func(m []string) string {
		// plain names were handled by the first pass
		if !strings.Contains(m[1], ".") {
			return m[0]
		}
		v, ok := ctx.Lookup(m[1])
		if !ok {
			e.miss(m[0], m[1])
			return m[0]
		}
		return v.String()
	})
}

func (e *Engine) miss(directive, path string) {
	if e.onMiss != nil {
		e.onMiss(directive, path)
	}
}

func replaceConditionals(src string, ctx Value) string {
	return replaceAllSubmatchFunc(ifBlockRe, src, func(m []string) string {
		v, _ := ctx.Lookup(m[1])
		then, otherwise, _ := strings.Cut(m[2], elseMarker)
		if v.Truthy() {
			return then
		}
		return otherwise
	})
}

func replaceLoops(src string, ctx Value) string {
	return replaceAllSubmatchFunc(eachBlockRe, src, func(m []string) string {
		v, _ := ctx.Lookup(m[1])
		if v.Kind() != KindSequence || v.Len() == 0 {
			return ""
		}
		return expandLoop(m[2], v.Items())
	})
}

func expandLoop(body string, items []Value) string {
	var b strings.Builder
	for i, item := range items {
		text := strings.ReplaceAll(body, indexMarker, strconv.Itoa(i))
		if item.Kind() == KindMapping {
			// Longer names go first so @item.ab is not eaten by @item.a.
			keys := item.Keys()
			sort.SliceStable(keys, func(a, b int) bool {
				return len(keys[a]) > len(keys[b])
			})
			for _, key := range keys {
				field, _ := item.Field(key)
				text = strings.ReplaceAll(text, itemMarker+"."+key, field.String())
			}
		}
		text = strings.ReplaceAll(text, itemMarker, item.String())
		b.WriteString(text)
	}
	return b.String()
}

// replaceAllSubmatchFunc is regexp.ReplaceAllStringFunc with access to the
// capture groups of each match.
func replaceAllSubmatchFunc(re *regexp.Regexp, src string, repl func(m []string) string) string {
	matches := re.FindAllStringSubmatchIndex(src, -1)
	if len(matches) == 0 {
		return src
	}

	var b strings.Builder
	b.Grow(len(src))
	last := 0
	for _, loc := range matches {
		b.WriteString(src[last:loc[0]])
		groups := make([]string, len(loc)/2)
		for i := range groups {
			if loc[2*i] >= 0 {
				groups[i] = src[loc[2*i]:loc[2*i+1]]
			}
		}
		b.WriteString(repl(groups))
		last = loc[1]
	}
	b.WriteString(src[last:])
	return b.String()
}
