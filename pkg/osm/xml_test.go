package osm

import (
	"strings"
	"testing"
)

const sampleOverpassXML = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6">
  <node id="1" lat="45.0" lon="6.0"/>
  <node id="2" lat="45.001" lon="6.001"/>
  <node id="3" lat="45.002" lon="6.002">
    <tag k="natural" v="peak"/>
  </node>
  <way id="100">
    <nd ref="1"/>
    <nd ref="2"/>
    <tag k="highway" v="path"/>
  </way>
  <way id="101">
    <nd ref="2"/>
    <nd ref="3"/>
    <tag k="highway" v="motorway"/>
  </way>
  <way id="102">
    <nd ref="1"/>
    <tag k="highway" v="path"/>
  </way>
</osm>`

func TestParseXMLKeepsRoutableWays(t *testing.T) {
	result, err := ParseXML(strings.NewReader(sampleOverpassXML))
	if err != nil {
		t.Fatalf("ParseXML failed: %v", err)
	}

	if len(result.Nodes) != 3 {
		t.Errorf("expected 3 nodes, got %d", len(result.Nodes))
	}
	if len(result.Ways) != 1 {
		t.Fatalf("expected 1 routable way, got %d", len(result.Ways))
	}

	way := result.Ways[0]
	if way.ID != 100 {
		t.Errorf("expected way 100 to survive, got %d", way.ID)
	}
	if len(way.Nodes) != 2 || way.Nodes[0] != 1 || way.Nodes[1] != 2 {
		t.Errorf("unexpected node order: %v", way.Nodes)
	}

	node3 := result.Nodes[3]
	if node3.Tags["natural"] != "peak" {
		t.Errorf("expected node 3 to retain its tags")
	}
}

func TestParseXMLSucceedsWithNoRoutableWays(t *testing.T) {
	const noRoutableWaysXML = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6">
  <node id="1" lat="45.0" lon="6.0"/>
  <node id="2" lat="45.001" lon="6.001"/>
  <way id="100">
    <nd ref="1"/>
    <nd ref="2"/>
    <tag k="highway" v="motorway"/>
  </way>
</osm>`

	result, err := ParseXML(strings.NewReader(noRoutableWaysXML))
	if err != nil {
		t.Fatalf("ParseXML failed: %v", err)
	}
	if len(result.Ways) != 0 {
		t.Errorf("expected 0 routable ways, got %d", len(result.Ways))
	}
	if len(result.Nodes) != 2 {
		t.Errorf("expected 2 nodes, got %d", len(result.Nodes))
	}
}
