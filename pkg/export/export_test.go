package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/timsearle/swift-dependency-graph/pkg/model"
)

func sampleGraph() *model.Graph {
	g := model.NewGraph()
	g.AddNode(&model.Node{ID: "myapp", Label: "MyApp", Type: model.NodeTypeProject})
	g.AddNode(&model.Node{ID: "core", Label: "Core", Type: model.NodeTypeInternalPackage, Layer: 1})
	g.AddNode(&model.Node{ID: "alamofire", Label: "Alamofire", Type: model.NodeTypeExternalPackage, Transient: true, Layer: 2})
	g.AddEdge("myapp", "core")
	g.AddEdge("core", "alamofire")
	return g
}

func TestFromGraph(t *testing.T) {
	doc := FromGraph(sampleGraph(), false)

	if doc.Metadata.SchemaVersion != SchemaLabelIDs {
		t.Errorf("schemaVersion = %d, want %d", doc.Metadata.SchemaVersion, SchemaLabelIDs)
	}
	if doc.Metadata.NodeCount != 3 || doc.Metadata.EdgeCount != 2 {
		t.Errorf("counts = %d/%d, want 3/2", doc.Metadata.NodeCount, doc.Metadata.EdgeCount)
	}

	// Nodes sorted by id: alamofire, core, myapp.
	if doc.Nodes[0].ID != "alamofire" || doc.Nodes[2].ID != "myapp" {
		t.Errorf("node order = %v", doc.Nodes)
	}
	if !doc.Nodes[0].IsTransient || doc.Nodes[0].IsInternal {
		t.Errorf("alamofire flags = %+v", doc.Nodes[0])
	}
	if !doc.Nodes[1].IsInternal {
		t.Errorf("core not internal: %+v", doc.Nodes[1])
	}
	if doc.Nodes[2].Layer != 0 {
		t.Errorf("myapp layer = %d, want 0", doc.Nodes[2].Layer)
	}
}

func TestFromGraphStableSchema(t *testing.T) {
	doc := FromGraph(sampleGraph(), true)
	if doc.Metadata.SchemaVersion != SchemaStableIDs {
		t.Errorf("schemaVersion = %d, want %d", doc.Metadata.SchemaVersion, SchemaStableIDs)
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := FromGraph(sampleGraph(), false).WriteJSON(&buf); err != nil {
		t.Fatal(err)
	}

	var decoded Document
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded.Nodes) != 3 || len(decoded.Edges) != 2 {
		t.Errorf("decoded %d nodes, %d edges", len(decoded.Nodes), len(decoded.Edges))
	}
}

func TestWriteDOT(t *testing.T) {
	var buf bytes.Buffer
	if err := FromGraph(sampleGraph(), false).WriteDOT(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, want := range []string{
		"digraph dependencies {",
		`"myapp" -> "core";`,
		`"core" -> "alamofire";`,
		"style=dashed",
		"shape=box",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("DOT output missing %q:\n%s", want, out)
		}
	}
}

func TestDeterministicOutput(t *testing.T) {
	var first string
	for i := 0; i < 5; i++ {
		var buf bytes.Buffer
		if err := FromGraph(sampleGraph(), false).WriteDOT(&buf); err != nil {
			t.Fatal(err)
		}
		if i == 0 {
			first = buf.String()
		} else if buf.String() != first {
			t.Fatal("DOT output varies between runs")
		}
	}
}
