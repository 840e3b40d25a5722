package main

import (
	"os"

	"github.com/tkrajina/gpxgo/gpx"

	"github.com/hikepath/routepipe/pkg/routing"
)

// writeRouteGPX serializes a computed route's polyline as a single-track,
// single-segment GPX file, for interchange with the rest of the hiking
// application outside this pipeline's scope.
func writeRouteGPX(path string, route *routing.PlannedRoute) error {
	points := make([]gpx.GPXPoint, 0, len(route.Polyline))
	for _, c := range route.Polyline {
		points = append(points, gpx.GPXPoint{
			Point: gpx.Point{Latitude: c.Lat, Longitude: c.Lon},
		})
	}

	name := route.Name
	if name == "" {
		name = "routepipe route"
	}

	g := &gpx.GPX{
		Creator: "routepipe",
		Tracks: []gpx.GPXTrack{
			{
				Name:     name,
				Segments: []gpx.GPXTrackSegment{{Points: points}},
			},
		},
	}

	data, err := g.ToXml(gpx.ToXmlParams{Version: "1.1", Indent: true})
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}
