package session

import "encoding/json"

// markerGroup is the JSON wire form of one timestamp's markers. JSON
// objects only allow string keys, so the int64-keyed map is flattened
// into a list for file and redis backends.
type markerGroup struct {
	Timestamp int64    `json:"timestamp"`
	Markers   []Marker `json:"markers"`
}

func encodeMarkers(markers map[int64][]Marker) ([]byte, error) {
	groups := make([]markerGroup, 0, len(markers))
	for ts, ms := range markers {
		groups = append(groups, markerGroup{Timestamp: ts, Markers: ms})
	}
	return json.Marshal(groups)
}

func decodeMarkers(data []byte) (map[int64][]Marker, error) {
	var groups []markerGroup
	if err := json.Unmarshal(data, &groups); err != nil {
		return nil, err
	}
	out := make(map[int64][]Marker, len(groups))
	for _, g := range groups {
		out[g.Timestamp] = g.Markers
	}
	return out, nil
}

func countMarkers(markers map[int64][]Marker) int {
	n := 0
	for _, ms := range markers {
		n += len(ms)
	}
	return n
}
