package tmpl

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ctxOf(t *testing.T, m map[string]any) Value {
	t.Helper()
	v := FromAny(m)
	require.Equal(t, KindMapping, v.Kind())
	return v
}

func TestRenderShortCircuit(t *testing.T) {
	assert.Equal(t, "", Render("", ctxOf(t, map[string]any{"a": 1})))
	assert.Equal(t, "", Render("hello {{a}}", Null()))
	assert.Equal(t, "", Render("plain text", Value{}))
}

func TestRenderPlainTextUnchanged(t *testing.T) {
	tests := []string{
		"plain text",
		"multi\nline\n",
		"single { brace } and @index outside loops",
		"emoji 🌤 and 中文",
	}
	ctx := ctxOf(t, map[string]any{"weather": map[string]any{"temperature": 25}})
	for _, tc := range tests {
		assert.Equal(t, tc, Render(tc, ctx))
		assert.Equal(t, tc, Render(tc, Mapping(nil)))
	}
}

func TestRenderIdempotentOnResolvedOutput(t *testing.T) {
	ctx := ctxOf(t, map[string]any{
		"weather":  map[string]any{"temperature": 25, "description": "晴朗"},
		"location": map[string]any{"city": "Changsha"},
	})
	first := Render("{{weather.description}} {{weather.temperature}}C {{location.city}}", ctx)
	require.NotContains(t, first, "{{")
	assert.Equal(t, first, Render(first, ctx))
	assert.Equal(t, first, Render(first, ctxOf(t, map[string]any{"other": true})))
}

func TestRenderSimpleVariables(t *testing.T) {
	ctx := ctxOf(t, map[string]any{
		"time":  "2024/1/2 10:00:00",
		"count": 3,
		"ratio": 0.5,
		"ok":    true,
		"none":  nil,
		"tags":  []any{"a", "b"},
	})

	tests := []struct {
		name     string
		template string
		expected string
	}{
		{"string", "at {{time}}", "at 2024/1/2 10:00:00"},
		{"integer", "{{count}} items", "3 items"},
		{"float", "{{ratio}}", "0.5"},
		{"bool", "{{ok}}", "true"},
		{"null", "{{none}}", "null"},
		{"sequence", "{{tags}}", "a,b"},
		{"missing", "{{missing}}", "{{missing}}"},
		{"spaces are not directives", "{{ time }}", "{{ time }}"},
		{"repeated", "{{count}}{{count}}", "33"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Render(tc.template, ctx))
		})
	}
}

func TestRenderPathVariables(t *testing.T) {
	ctx := ctxOf(t, map[string]any{
		"weather":  map[string]any{"temperature": 25, "nested": map[string]any{"deep": "x"}},
		"location": map[string]any{"city": "Changsha"},
		"scalar":   "abc",
	})

	tests := []struct {
		name     string
		template string
		expected string
	}{
		{"two segments", "{{weather.temperature}}", "25"},
		{"three segments", "{{weather.nested.deep}}", "x"},
		{"missing leaf", "{{weather.missing}}", "{{weather.missing}}"},
		{"missing root", "{{nothing.here}}", "{{nothing.here}}"},
		{"through scalar", "{{scalar.length}}", "{{scalar.length}}"},
		{"empty segment", "{{weather..temperature}}", "{{weather..temperature}}"},
		{"mapping value", "{{weather.nested}}", `{"deep":"x"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Render(tc.template, ctx))
		})
	}
}

func TestRenderUnresolvedPassthrough(t *testing.T) {
	ctx := ctxOf(t, map[string]any{"weather": map[string]any{}})
	assert.Equal(t, "{{weather.missing}}", Render("{{weather.missing}}", ctx))
}

func TestRenderPathIgnoresSiblings(t *testing.T) {
	a := ctxOf(t, map[string]any{"a": map[string]any{"b": 1, "c": 2}})
	b := ctxOf(t, map[string]any{"a": map[string]any{"b": 1, "c": "other"}})
	assert.Equal(t, "1", Render("{{a.b}}", a))
	assert.Equal(t, Render("{{a.b}}", a), Render("{{a.b}}", b))
}

func TestRenderEndToEnd(t *testing.T) {
	ctx := ctxOf(t, map[string]any{
		"weather":  map[string]any{"temperature": 25},
		"location": map[string]any{"city": "Changsha"},
	})
	assert.Equal(t, "temp=25C city=Changsha",
		Render("temp={{weather.temperature}}C city={{location.city}}", ctx))

	empty := ctxOf(t, map[string]any{"location": map[string]any{"district": ""}})
	assert.Equal(t, "", Render("{{#if location.district}}d={{location.district}}{{/if}}", empty))
}

func TestRenderConditionals(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{"zero", 0, "N"},
		{"non zero", 2.5, "Y"},
		{"negative", -1, "Y"},
		{"string zero", "0", "Y"},
		{"empty string", "", "N"},
		{"true", true, "Y"},
		{"false", false, "N"},
		{"null", nil, "N"},
		{"empty sequence", []any{}, "N"},
		{"sequence", []any{1}, "Y"},
		{"empty mapping", map[string]any{}, "N"},
		{"mapping", map[string]any{"k": 0}, "Y"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := ctxOf(t, map[string]any{"n": tc.value})
			assert.Equal(t, tc.expected, Render("{{#if n}}Y{{else}}N{{/if}}", ctx))
		})
	}

	t.Run("absent", func(t *testing.T) {
		ctx := ctxOf(t, map[string]any{})
		assert.Equal(t, "N", Render("{{#if n}}Y{{else}}N{{/if}}", ctx))
	})
}

func TestRenderConditionalWithoutElse(t *testing.T) {
	ctx := ctxOf(t, map[string]any{
		"weather": map[string]any{"feelsLike": 26, "temperature": 25},
	})
	tmpl := "{{#if weather.feelsLike}}feels {{weather.feelsLike}}|{{/if}}{{#if weather.tempMin}}min{{/if}}t={{weather.temperature}}"
	assert.Equal(t, "feels 26|t=25", Render(tmpl, ctx))
}

func TestRenderConditionalBranchesSeeResolvedVariables(t *testing.T) {
	ctx := ctxOf(t, map[string]any{"ok": false, "name": "x"})
	// The untaken branch still holds the unresolved directive; it is discarded.
	assert.Equal(t, "no x", Render("{{#if ok}}{{missing}}{{else}}no {{name}}{{/if}}", ctx))
}

func TestRenderMalformedBlocksPreserved(t *testing.T) {
	ctx := ctxOf(t, map[string]any{"a": true, "items": []any{1}})
	tests := []string{
		"{{#if a}}never closed",
		"{{#each items}}never closed",
		"closed only {{/if}}",
		"{{#if}}no path{{/if}}",
	}
	for _, tc := range tests {
		assert.Equal(t, tc, Render(tc, ctx))
	}
}

func TestRenderLoops(t *testing.T) {
	ctx := ctxOf(t, map[string]any{
		"items":   []any{map[string]any{"x": 1}, map[string]any{"x": 2}},
		"names":   []any{"a", "b", "c"},
		"empty":   []any{},
		"scalar":  "abc",
		"title":   "T",
		"wrapped": map[string]any{"list": []any{true, false}},
		"fields":  []any{map[string]any{"a": "short", "ab": "long"}},
	})

	tests := []struct {
		name     string
		template string
		expected string
	}{
		{"item fields", "{{#each items}}[@index:@item.x]{{/each}}", "[0:1][1:2]"},
		{"scalar items", "{{#each names}}@index=@item;{{/each}}", "0=a;1=b;2=c;"},
		{"empty", "before{{#each empty}}x{{/each}}after", "beforeafter"},
		{"not a sequence", "{{#each scalar}}x{{/each}}", ""},
		{"missing", "{{#each nothing}}x{{/each}}", ""},
		{"nested path", "{{#each wrapped.list}}@item {{/each}}", "true false "},
		{"outer variable resolved first", "{{#each names}}{{title}}@item{{/each}}", "TaTbTc"},
		{"longest field first", "{{#each fields}}@item.ab/@item.a{{/each}}", "long/short"},
		{"unknown field", "{{#each items}}@item.y{{/each}}", `{"x":1}.y{"x":2}.y`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Render(tc.template, ctx))
		})
	}
}

func TestRenderPhaseOrder(t *testing.T) {
	ctx := ctxOf(t, map[string]any{
		"show":  true,
		"items": []any{"a", "b"},
	})
	// Conditionals run before loops, so a loop inside a taken branch expands.
	tmpl := "{{#if show}}{{#each items}}@item{{/each}}{{/if}}"
	assert.Equal(t, "ab", Render(tmpl, ctx))
}

func TestRenderDoesNotMutateContext(t *testing.T) {
	raw := map[string]any{
		"weather": map[string]any{"temperature": 25},
		"items":   []any{map[string]any{"x": 1}},
	}
	ctx := ctxOf(t, raw)
	before := ctx.String()
	Render("{{weather.temperature}}{{#each items}}@item.x{{/each}}", ctx)
	assert.Equal(t, before, ctx.String())
}

func TestEngineMissHandler(t *testing.T) {
	var misses []string
	e := NewEngine(WithMissHandler(func(directive, path string) {
		misses = append(misses, path)
	}))

	ctx := ctxOf(t, map[string]any{"a": 1, "w": map[string]any{}})
	out := e.Render("{{a}} {{b}} {{w.c}} {{#if a}}y{{else}}n{{/if}}", ctx)

	assert.Equal(t, "1 {{b}} {{w.c}} y", out)
	assert.Equal(t, []string{"b", "w.c"}, misses)
}

func TestRenderConcurrent(t *testing.T) {
	ctx := ctxOf(t, map[string]any{
		"weather": map[string]any{"temperature": 25},
		"items":   []any{1, 2, 3},
	})
	const tmpl = "{{weather.temperature}}:{{#each items}}@item{{/each}}"

	var wg sync.WaitGroup
	results := make([]string, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Render(tmpl, ctx)
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, "25:123", r)
	}
}

func TestBuiltinTemplates(t *testing.T) {
	assert.Equal(t, []string{"default", "help", "simple", "table"}, BuiltinNames())

	_, ok := Builtin("missing")
	assert.False(t, ok)

	ctx := ctxOf(t, map[string]any{
		"weather": map[string]any{
			"description": "晴朗", "temperature": 25, "humidity": 60,
			"windSpeed": 3.5, "windDirection": "东南风", "windPower": "3级",
			"tempMin": 20, "tempMax": 28,
		},
		"location": map[string]any{"city": "长沙", "lat": 28.2, "lon": 112.9, "district": ""},
		"time":     "2024/1/2 10:00:00",
	})

	def, ok := Builtin("default")
	require.True(t, ok)
	out := Render(def, ctx)
	assert.Contains(t, out, "🌡 **当前温度**: 25°C")
	assert.Contains(t, out, "🌐 **坐标**: 28.2, 112.9")
	assert.NotContains(t, out, "体感温度")
	assert.NotContains(t, out, "区县")
	assert.NotContains(t, out, "{{")

	simple, _ := Builtin("simple")
	assert.Equal(t, "🌤 **天气**: 晴朗 | 🌡 **温度**: 25°C | 📍 **位置**: 长沙\n", Render(simple, ctx))
}
