package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/production"
	"github.com/aretw0/tendril/pkg/registry"
)

// GenerateMermaid produces a Mermaid flowchart of the rules in reg and their references.
// It applies semantic styling:
// - Start: ((Circle))
// - Memoized: [[Subroutine]]
// - Weighted choice: [/Parallelogram/]
// - Default: [Rectangle]
// References through transforms are labelled with the transform chain, memoized
// references are dotted, and references to undefined rules are styled as missing.
func GenerateMermaid(reg *registry.Registry, start domain.Symbol) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	missing := make(map[domain.Symbol]bool)

	for _, name := range reg.Rules() {
		p, _ := reg.Lookup(name)
		safeID := sanitizeMermaidID(string(name))

		opener, closer := "[", "]"
		switch {
		case name == start:
			opener, closer = "((", "))"
		case reg.IsMemo(name):
			opener, closer = "[[", "]]"
		default:
			if _, ok := p.(*production.WeightedChoice); ok {
				opener, closer = "[/", "/]"
			}
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, escapeLabel(string(name)), closer))

		for _, e := range edges(p) {
			if _, ok := reg.Lookup(e.to); !ok {
				missing[e.to] = true
			}

			arrow := "-->"
			if e.memo || reg.IsMemo(e.to) {
				arrow = "-.->"
			}
			if e.label != "" {
				arrow = fmt.Sprintf("-- \"%s\" -->", escapeLabel(e.label))
				if e.memo || reg.IsMemo(e.to) {
					arrow = fmt.Sprintf("-. \"%s\" .->", escapeLabel(e.label))
				}
			}
			sb.WriteString(fmt.Sprintf("    %s %s %s\n", safeID, arrow, sanitizeMermaidID(string(e.to))))
		}
	}

	if len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for sym := range missing {
			names = append(names, string(sym))
		}
		sort.Strings(names)

		sb.WriteString("\n    %% Missing rules\n")
		sb.WriteString("    classDef missing fill:#ffebee,stroke:#c62828,stroke-dasharray:4 2,color:#000;\n")
		for _, name := range names {
			sb.WriteString(fmt.Sprintf("    class %s missing;\n", sanitizeMermaidID(name)))
		}
	}

	return sb.String()
}

type edge struct {
	to    domain.Symbol
	label string
	memo  bool
}

// edges lists the distinct references below p, in tree order.
// A reference is memoized if any of its occurrences is.
func edges(p production.Production) []edge {
	type key struct {
		to    domain.Symbol
		label string
	}
	var out []edge
	index := make(map[key]int)
	add := func(e edge) {
		k := key{e.to, e.label}
		if i, ok := index[k]; ok {
			out[i].memo = out[i].memo || e.memo
			return
		}
		index[k] = len(out)
		out = append(out, e)
	}

	var visit func(production.Production)
	visit = func(node production.Production) {
		switch n := node.(type) {
		case *production.Reference:
			add(edge{to: n.Symbol, memo: n.Memo})
		case *production.TransformExpression:
			if ref, ok := n.Base.(*production.Reference); ok {
				add(edge{to: ref.Symbol, memo: ref.Memo, label: strings.Join(n.Transforms, ".")})
				return
			}
			visit(n.Base)
		default:
			for _, child := range production.Children(node) {
				visit(child)
			}
		}
	}
	visit(p)
	return out
}

// escapeLabel makes text safe inside a quoted Mermaid label.
func escapeLabel(s string) string {
	return strings.ReplaceAll(s, `"`, "#quot;")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, `"`, "_")
	return s
}
