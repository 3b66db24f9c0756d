package group

// ReadoutRow is the cursor measurement for one displayed stream: the
// waveform values sampled under each cursor, formatted in the stream's
// Y axis unit. Streams sampled outside their data report "(no data)".
type ReadoutRow struct {
	Stream string `json:"stream"`
	Color  string `json:"color"`

	// Value0 is the stream's value under cursor 0.
	Value0 string `json:"value_1"`

	// Value1 and Delta are empty outside dual-cursor mode.
	Value1 string `json:"value_2,omitempty"`
	Delta  string `json:"delta,omitempty"`
}

const noData = "(no data)"

// CursorReadouts samples every stream in every area under the active
// cursors. Interpolation policy is per stream: discrete-valued streams
// use zero-order hold, analog streams interpolate linearly. Returns nil
// when cursors are disabled; the host shows the readout window only
// while rows exist.
func (g *Group) CursorReadouts() []ReadoutRow {
	if g.cursorMode == CursorNone {
		return nil
	}
	dual := g.cursorMode == CursorDual

	var rows []ReadoutRow
	for _, a := range g.areas {
		for i := 0; i < a.StreamCount(); i++ {
			s := a.Stream(i)
			row := ReadoutRow{Stream: s.Name, Color: s.Color}

			v0, ok0 := s.ValueAt(g.cursorPos[0])
			if ok0 {
				row.Value0 = s.YUnit.PrettyPrint(v0)
			} else {
				row.Value0 = noData
			}

			if dual {
				v1, ok1 := s.ValueAt(g.cursorPos[1])
				if ok1 {
					row.Value1 = s.YUnit.PrettyPrint(v1)
				} else {
					row.Value1 = noData
				}
				if ok0 && ok1 {
					row.Delta = s.YUnit.PrettyPrint(v1 - v0)
				} else {
					row.Delta = noData
				}
			}

			rows = append(rows, row)
		}
	}
	return rows
}
