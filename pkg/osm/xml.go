package osm

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/hikepath/routepipe/pkg/geo"
)

// xmlNode and xmlWay mirror the subset of Overpass's XML response elements
// this package cares about: <node id lat lon> with child <tag k v>, and
// <way id> with ordered child <nd ref> plus <tag k v>.
type xmlTag struct {
	K string `xml:"k,attr"`
	V string `xml:"v,attr"`
}

type xmlNode struct {
	ID  int64    `xml:"id,attr"`
	Lat float64  `xml:"lat,attr"`
	Lon float64  `xml:"lon,attr"`
	Tag []xmlTag `xml:"tag"`
}

type xmlNd struct {
	Ref int64 `xml:"ref,attr"`
}

type xmlWay struct {
	ID  int64    `xml:"id,attr"`
	Nd  []xmlNd  `xml:"nd"`
	Tag []xmlTag `xml:"tag"`
}

// ParseXML streams an Overpass XML response from r, token by token, keeping
// every node (they may be referenced by ways not yet seen) and every way
// whose highway tag is routable and which references at least 2 nodes. The
// response is never buffered whole in memory: it is read incrementally off
// the decoder's token stream, matching the way a multi-hundred-megabyte
// regional export would otherwise exhaust available memory.
func ParseXML(r io.Reader) (*IngestResult, error) {
	result := &IngestResult{
		Nodes: make(map[int64]*Node),
	}

	decoder := xml.NewDecoder(r)

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("osm: decoding xml token: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch start.Name.Local {
		case "node":
			var n xmlNode
			if err := decoder.DecodeElement(&n, &start); err != nil {
				return nil, fmt.Errorf("osm: decoding node element: %w", err)
			}
			coord := geo.Coordinate{Lat: n.Lat, Lon: n.Lon}
			node := &Node{ID: n.ID, Coord: coord}
			if len(n.Tag) > 0 {
				node.Tags = make(map[string]string, len(n.Tag))
				for _, t := range n.Tag {
					node.Tags[t.K] = t.V
				}
			}
			result.Nodes[n.ID] = node

		case "way":
			var w xmlWay
			if err := decoder.DecodeElement(&w, &start); err != nil {
				return nil, fmt.Errorf("osm: decoding way element: %w", err)
			}
			if len(w.Nd) < 2 {
				continue
			}
			way := &Way{ID: w.ID}
			way.Nodes = make([]int64, len(w.Nd))
			for i, nd := range w.Nd {
				way.Nodes[i] = nd.Ref
			}
			if len(w.Tag) > 0 {
				way.Tags = make(map[string]string, len(w.Tag))
				for _, t := range w.Tag {
					way.Tags[t.K] = t.V
				}
			}
			if way.Routable() {
				result.Ways = append(result.Ways, way)
			}
		}
	}

	return result, nil
}
