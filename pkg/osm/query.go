package osm

import (
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/hikepath/routepipe/pkg/geo"
)

var queryTemplate = template.Must(template.New("overpass").Parse(`[out:xml][timeout:{{.Timeout}}];
way["highway"~"^({{.HighwayRegex}})$"]({{.South}},{{.West}},{{.North}},{{.East}});
(._;>;);
out body;
`))

type queryParams struct {
	Timeout      int
	HighwayRegex string
	South, West, North, East float64
}

// BuildQuery renders the Overpass-QL body requesting every routable way
// within bbox plus all referenced nodes (the "(._;>;)" recursion picks up
// nodes outside the box that boundary-crossing ways reference).
func BuildQuery(bbox geo.BoundingBox) (string, error) {
	highways := make([]string, 0, len(RoutableHighways))
	for h := range RoutableHighways {
		highways = append(highways, h)
	}
	sort.Strings(highways)

	var sb strings.Builder
	err := queryTemplate.Execute(&sb, queryParams{
		Timeout:      OverpassQueryTimeoutSeconds,
		HighwayRegex: strings.Join(highways, "|"),
		South:        bbox.South,
		West:         bbox.West,
		North:        bbox.North,
		East:         bbox.East,
	})
	if err != nil {
		return "", fmt.Errorf("osm: rendering overpass query: %w", err)
	}
	return sb.String(), nil
}

// EncodeFormBody builds the "data=<escaped query>" POST body. Only
// alphanumerics and "-._~" are left unescaped; in particular "&", "=", and
// "+" inside the query must be percent-escaped so they are not mistaken for
// form-field delimiters or literal spaces.
func EncodeFormBody(query string) string {
	return "data=" + escapeFormValue(query)
}

func escapeFormValue(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreservedFormByte(c) {
			sb.WriteByte(c)
		} else {
			fmt.Fprintf(&sb, "%%%02X", c)
		}
	}
	return sb.String()
}

func isUnreservedFormByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z':
		return true
	case c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return true
	case c == '-' || c == '.' || c == '_' || c == '~':
		return true
	default:
		return false
	}
}
