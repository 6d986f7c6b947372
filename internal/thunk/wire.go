package thunk

import (
	"fmt"

	ggh "github.com/alex-ozdemir/gg/internal/hash"
)

// Document is the canonical on-disk JSON representation of a Thunk. It is
// deliberately a separate type from Thunk: Thunk's in-memory fields use
// the richer ArgItem/Placeholder union, while Document is the flat,
// json-tagged shape that actually gets hashed and written to the store —
// the same split the teacher repo draws between graph.Graph (in-memory)
// and the JSON it marshals for ComputeHash.
type Document struct {
	Function    functionDoc   `json:"function"`
	Values      []dataItemDoc `json:"values"`
	Executables []dataItemDoc `json:"executables"`
	Thunks      []dataItemDoc `json:"thunks"`
	Outputs     []string      `json:"outputs"`
}

type functionDoc struct {
	Executable string   `json:"executable"`
	Argv       []argDoc `json:"argv"`
}

type argDoc struct {
	Literal     *string `json:"literal,omitempty"`
	Placeholder *string `json:"placeholder,omitempty"`
}

type dataItemDoc struct {
	Hash string `json:"hash"`
	Name string `json:"name"`
}

// ToDocument converts t into its wire representation. It does not sort
// the input sets — callers that need the canonical (hashable) form
// should call Normalize on the result, or use ComputeHash directly.
func (t *Thunk) ToDocument() Document {
	argv := make([]argDoc, len(t.Function.Argv))
	for i, a := range t.Function.Argv {
		if a.IsPlaceholder() {
			s := string(a.Placeholder.Hash)
			argv[i] = argDoc{Placeholder: &s}
		} else {
			lit := a.Literal
			argv[i] = argDoc{Literal: &lit}
		}
	}

	return Document{
		Function: functionDoc{
			Executable: string(t.Function.Executable),
			Argv:       argv,
		},
		Values:      toDataItemDocs(t.Values),
		Executables: toDataItemDocs(t.Executables),
		Thunks:      toDataItemDocs(t.Thunks),
		Outputs:     append([]string(nil), t.Outputs...),
	}
}

func toDataItemDocs(items []DataItem) []dataItemDoc {
	out := make([]dataItemDoc, len(items))
	for i, it := range items {
		out[i] = dataItemDoc{Hash: string(it.Hash), Name: it.Name}
	}
	return out
}

// FromDocument parses a wire Document back into a Thunk, validating every
// embedded hash string and the nonempty-outputs invariant. Unlike
// hash.Parse, malformed hashes here are reported as an error rather than
// a panic: the caller (the store) is reading data that may have been
// corrupted on disk, which is not a programming error.
func FromDocument(d Document) (*Thunk, error) {
	if len(d.Outputs) == 0 {
		return nil, fmt.Errorf("thunk document has no outputs")
	}

	exe, err := ggh.TryParse(d.Function.Executable)
	if err != nil {
		return nil, fmt.Errorf("function.executable: %w", err)
	}

	argv := make([]ArgItem, len(d.Function.Argv))
	for i, a := range d.Function.Argv {
		switch {
		case a.Placeholder != nil && a.Literal != nil:
			return nil, fmt.Errorf("argv[%d]: both literal and placeholder set", i)
		case a.Placeholder != nil:
			h, err := ggh.TryParse(*a.Placeholder)
			if err != nil {
				return nil, fmt.Errorf("argv[%d].placeholder: %w", i, err)
			}
			argv[i] = ArgItem{Placeholder: &Placeholder{Hash: h}}
		case a.Literal != nil:
			argv[i] = ArgItem{Literal: *a.Literal}
		default:
			return nil, fmt.Errorf("argv[%d]: neither literal nor placeholder set", i)
		}
	}

	values, err := fromDataItemDocs(d.Values)
	if err != nil {
		return nil, fmt.Errorf("values: %w", err)
	}
	executables, err := fromDataItemDocs(d.Executables)
	if err != nil {
		return nil, fmt.Errorf("executables: %w", err)
	}
	thunks, err := fromDataItemDocs(d.Thunks)
	if err != nil {
		return nil, fmt.Errorf("thunks: %w", err)
	}

	return &Thunk{
		Function:    Function{Executable: exe, Argv: argv},
		Values:      values,
		Executables: executables,
		Thunks:      thunks,
		Outputs:     append([]string(nil), d.Outputs...),
	}, nil
}

func fromDataItemDocs(docs []dataItemDoc) ([]DataItem, error) {
	out := make([]DataItem, len(docs))
	for i, d := range docs {
		h, err := ggh.TryParse(d.Hash)
		if err != nil {
			return nil, fmt.Errorf("[%d].hash: %w", i, err)
		}
		out[i] = DataItem{Hash: h, Name: d.Name}
	}
	return out, nil
}
