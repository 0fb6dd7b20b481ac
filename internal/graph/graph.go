// Package graph renders template dependency graphs in DOT and Mermaid form.
package graph

import (
	"io"
	"sort"
	"strings"

	"github.com/emicklei/dot"

	"github.com/substratehq/groundwork"
)

// Format specifies the output format for the graph.
type Format string

const (
	// FormatDOT outputs Graphviz DOT format.
	FormatDOT Format = "dot"
	// FormatMermaid outputs Mermaid format for GitHub/markdown rendering.
	FormatMermaid Format = "mermaid"
)

// Generator renders a template's resource dependency graph. Edges come from
// explicit DependsOn plus Ref and Fn::GetAtt occurrences in properties.
type Generator struct {
	// IncludeParameters includes parameter references in the graph.
	IncludeParameters bool

	// Format specifies the output format (dot or mermaid). Defaults to dot.
	Format Format

	// ClusterByService groups resources by AWS service.
	ClusterByService bool
}

// Generate renders the graph for tmpl and writes it to w.
func (g *Generator) Generate(tmpl *groundwork.Template, w io.Writer) error {
	graph := g.buildGraph(tmpl)

	format := g.Format
	if format == "" {
		format = FormatDOT
	}

	var output string
	if format == FormatMermaid {
		output = dot.MermaidGraph(graph, dot.MermaidTopToBottom)
	} else {
		output = graph.String()
	}

	_, err := w.Write([]byte(output))
	return err
}

// GenerateString is a convenience method that returns the graph as a string.
func (g *Generator) GenerateString(tmpl *groundwork.Template) (string, error) {
	var sb strings.Builder
	if err := g.Generate(tmpl, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// edge is one dependency between logical ids.
type edge struct {
	from, to string
	getAtt   bool
}

func (g *Generator) buildGraph(tmpl *groundwork.Template) *dot.Graph {
	graph := dot.NewGraph(dot.Directed)
	graph.Attr("rankdir", "TB")

	graph.NodeInitializer(func(n dot.Node) {
		n.Attr("shape", "box")
		n.Attr("fontname", "Arial")
	})
	graph.EdgeInitializer(func(e dot.Edge) {
		e.Attr("fontname", "Arial")
		e.Attr("fontsize", "10")
	})

	if g.ClusterByService {
		g.addClusteredNodes(graph, tmpl)
	} else {
		g.addNodes(graph, tmpl)
	}

	if g.IncludeParameters {
		for name := range tmpl.Parameters {
			n := graph.Node(name)
			n.Attr("shape", "ellipse")
			n.Attr("style", "dashed")
			n.Label(name)
		}
	}

	for _, e := range g.edges(tmpl) {
		de := graph.Edge(graph.Node(e.from), graph.Node(e.to))
		if e.getAtt {
			de.Attr("color", "blue")
		}
	}

	return graph
}

// edges collects dependencies of every resource, sorted for stable output.
func (g *Generator) edges(tmpl *groundwork.Template) []edge {
	var out []edge
	for name, res := range tmpl.Resources {
		seen := map[string]bool{}
		add := func(dep string, getAtt bool) {
			if seen[dep] {
				return
			}
			_, isResource := tmpl.Resources[dep]
			_, isParam := tmpl.Parameters[dep]
			if !isResource && (!isParam || !g.IncludeParameters) {
				return
			}
			seen[dep] = true
			out = append(out, edge{from: name, to: dep, getAtt: getAtt})
		}

		for _, dep := range res.DependsOn {
			add(dep, false)
		}
		walkReferences(res.Properties, add)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].from != out[j].from {
			return out[i].from < out[j].from
		}
		return out[i].to < out[j].to
	})
	return out
}

// walkReferences visits every Ref and Fn::GetAtt in a property tree.
func walkReferences(v any, visit func(dep string, getAtt bool)) {
	switch val := v.(type) {
	case map[string]any:
		if ref, ok := val["Ref"].(string); ok && len(val) == 1 {
			visit(ref, false)
			return
		}
		if target, ok := val["Fn::GetAtt"]; ok && len(val) == 1 {
			if name := getAttTarget(target); name != "" {
				visit(name, true)
			}
			return
		}
		for _, nested := range val {
			walkReferences(nested, visit)
		}
	case []any:
		for _, item := range val {
			walkReferences(item, visit)
		}
	}
}

// getAttTarget extracts the logical id from either GetAtt form:
// ["Name", "Attr"] or "Name.Attr".
func getAttTarget(v any) string {
	switch t := v.(type) {
	case []any:
		if len(t) > 0 {
			if s, ok := t[0].(string); ok {
				return s
			}
		}
	case string:
		name, _, _ := strings.Cut(t, ".")
		return name
	}
	return ""
}

func (g *Generator) addNodes(graph *dot.Graph, tmpl *groundwork.Template) {
	for name, res := range tmpl.Resources {
		n := graph.Node(name)
		n.Label(name + "\\n[" + res.Type + "]")
	}
}

// addClusteredNodes groups resources by AWS service.
func (g *Generator) addClusteredNodes(graph *dot.Graph, tmpl *groundwork.Template) {
	serviceResources := make(map[string][]string)
	for name, res := range tmpl.Resources {
		service := extractService(res.Type)
		serviceResources[service] = append(serviceResources[service], name)
	}

	for service, resNames := range serviceResources {
		if len(resNames) > 1 {
			cluster := graph.Subgraph("cluster_"+service, dot.ClusterOption{})
			cluster.Attr("label", service)
			cluster.Attr("style", "rounded")
			cluster.Attr("bgcolor", "lightyellow")

			for _, name := range resNames {
				n := cluster.Node(name)
				n.Label(name + "\\n[" + tmpl.Resources[name].Type + "]")
			}
		} else {
			for _, name := range resNames {
				n := graph.Node(name)
				n.Label(name + "\\n[" + tmpl.Resources[name].Type + "]")
			}
		}
	}
}

// extractService extracts the service segment from a CloudFormation type,
// e.g. "AWS::S3::Bucket" -> "S3". Custom resource types map to "Custom".
func extractService(cfType string) string {
	parts := strings.Split(cfType, "::")
	if len(parts) == 3 {
		return parts[1]
	}
	if strings.HasPrefix(cfType, "Custom::") {
		return "Custom"
	}
	return "Other"
}
