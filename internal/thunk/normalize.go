package thunk

import "sort"

// Normalize sorts d's input sets (Values, Executables, Thunks) into their
// canonical (hash, name) order in place, the same role the teacher's
// graph.Normalize plays for Graph.Nodes/Edges: two logically-equal
// thunks must marshal to byte-identical JSON regardless of the order
// their inputs were declared or discovered in. Function.Argv and
// Outputs are positional and are never reordered.
func (d *Document) Normalize() *Document {
	sortDataItemDocs(d.Values)
	sortDataItemDocs(d.Executables)
	sortDataItemDocs(d.Thunks)
	return d
}

func sortDataItemDocs(items []dataItemDoc) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Hash != items[j].Hash {
			return items[i].Hash < items[j].Hash
		}
		return items[i].Name < items[j].Name
	})
}

// Normalized returns a normalized copy of d, leaving d itself untouched.
func (d Document) Normalized() Document {
	cp := Document{
		Function:    d.Function,
		Values:      append([]dataItemDoc(nil), d.Values...),
		Executables: append([]dataItemDoc(nil), d.Executables...),
		Thunks:      append([]dataItemDoc(nil), d.Thunks...),
		Outputs:     append([]string(nil), d.Outputs...),
	}
	cp.Function.Argv = append([]argDoc(nil), d.Function.Argv...)
	cp.Normalize()
	return cp
}
