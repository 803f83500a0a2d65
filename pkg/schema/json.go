package schema

import "encoding/json"

type schemaJSON struct {
	Tables []Table `json:"tables"`
	Refs   []Ref   `json:"refs"`
}

// MarshalJSON encodes the schema as {"tables": [...], "refs": [...]}.
// Empty collections are encoded as empty arrays, never null.
func (s *Schema) MarshalJSON() ([]byte, error) {
	out := schemaJSON{Tables: []Table{}, Refs: []Ref{}}
	if s != nil {
		out.Tables = append(out.Tables, s.tables...)
		out.Refs = append(out.Refs, s.Refs...)
	}
	for i := range out.Tables {
		if out.Tables[i].Columns == nil {
			out.Tables[i].Columns = []Column{}
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the format written by MarshalJSON.
func (s *Schema) UnmarshalJSON(data []byte) error {
	var in schemaJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*s = Schema{index: make(map[string]int), Refs: in.Refs}
	for _, t := range in.Tables {
		s.putTable(t)
	}
	return nil
}
