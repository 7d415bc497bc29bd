// Package export renders a dependency graph into the formats external
// renderers consume: a JSON document and Graphviz DOT. Output is
// deterministic regardless of map iteration order.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/timsearle/swift-dependency-graph/pkg/model"
)

// SchemaLabelIDs and SchemaStableIDs identify the node id scheme used by
// a document.
const (
	SchemaLabelIDs  = 1
	SchemaStableIDs = 2
)

// Node is the exported view of a graph node.
type Node struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Type        string `json:"type"`
	IsTransient bool   `json:"isTransient"`
	IsInternal  bool   `json:"isInternal"`
	Layer       int    `json:"layer"`
}

// Edge is a directed dependency from Source to Target.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Metadata describes the document itself.
type Metadata struct {
	SchemaVersion int `json:"schemaVersion"`
	NodeCount     int `json:"nodeCount"`
	EdgeCount     int `json:"edgeCount"`
}

// Document is the format-agnostic exported graph contract.
type Document struct {
	Nodes    []Node   `json:"nodes"`
	Edges    []Edge   `json:"edges"`
	Metadata Metadata `json:"metadata"`
}

// FromGraph flattens a graph into a document. stableIDs selects the schema
// version recorded in the metadata; the ids themselves were fixed when the
// graph was built.
func FromGraph(g *model.Graph, stableIDs bool) *Document {
	doc := &Document{
		Nodes: make([]Node, 0, len(g.Nodes)),
		Edges: make([]Edge, 0, len(g.Edges)),
	}

	for _, n := range g.Nodes {
		doc.Nodes = append(doc.Nodes, Node{
			ID:          n.ID,
			Label:       n.Label,
			Type:        string(n.Type),
			IsTransient: n.Transient,
			IsInternal:  n.IsInternal(),
			Layer:       n.Layer,
		})
	}
	sort.Slice(doc.Nodes, func(i, j int) bool { return doc.Nodes[i].ID < doc.Nodes[j].ID })

	for _, e := range g.Edges {
		doc.Edges = append(doc.Edges, Edge{Source: e.From, Target: e.To})
	}
	sort.Slice(doc.Edges, func(i, j int) bool {
		if doc.Edges[i].Source != doc.Edges[j].Source {
			return doc.Edges[i].Source < doc.Edges[j].Source
		}
		return doc.Edges[i].Target < doc.Edges[j].Target
	})

	doc.Metadata = Metadata{
		SchemaVersion: SchemaLabelIDs,
		NodeCount:     len(doc.Nodes),
		EdgeCount:     len(doc.Edges),
	}
	if stableIDs {
		doc.Metadata.SchemaVersion = SchemaStableIDs
	}
	return doc
}

// WriteJSON writes the document as indented JSON.
func (d *Document) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

// WriteDOT writes the document as a Graphviz digraph. Node shape and
// style encode type and transience.
func (d *Document) WriteDOT(w io.Writer) error {
	var b strings.Builder
	b.WriteString("digraph dependencies {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [fontname=\"Helvetica\"];\n\n")

	for _, n := range d.Nodes {
		attrs := []string{fmt.Sprintf("label=%q", n.Label)}
		switch n.Type {
		case string(model.NodeTypeProject):
			attrs = append(attrs, "shape=box", "style=bold")
		case string(model.NodeTypeTarget):
			attrs = append(attrs, "shape=component")
		case string(model.NodeTypeInternalPackage):
			attrs = append(attrs, "shape=box")
		default:
			attrs = append(attrs, "shape=ellipse")
		}
		if n.IsTransient {
			attrs = append(attrs, "style=dashed", "color=gray")
		}
		fmt.Fprintf(&b, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}
	b.WriteString("\n")
	for _, e := range d.Edges {
		fmt.Fprintf(&b, "  %q -> %q;\n", e.Source, e.Target)
	}
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}
