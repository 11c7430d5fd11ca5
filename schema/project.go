package schema

import "github.com/bawdo/quarry/nodes"

// Project computes the output schema of applying one stage to an input
// schema. Field references that fail to resolve contribute nothing; the
// projection is pure and never fails.
func Project(in *Schema, stage *nodes.Stage) *Schema {
	out := &Schema{Name: in.Name}
	for _, ref := range stage.Fields {
		if f := projectField(in, ref); f != nil {
			out.Fields = append(out.Fields, f)
		}
	}
	return out
}

func projectField(in *Schema, ref nodes.FieldRef) *Field {
	switch f := ref.(type) {
	case *nodes.FieldName:
		return renamedCopy(in, f.Path, f.DisplayName())
	case *nodes.RefinedField:
		return renamedCopy(in, f.Path, f.DisplayName())
	case *nodes.NestedQuery:
		return &Field{Name: f.Name, Kind: Query, Pipeline: nodes.CopyStages(f.Stages)}
	case *nodes.ExpressionField:
		kind := Dimension
		if f.Aggregate {
			kind = Measure
		}
		return &Field{Name: f.Name, Kind: kind, Type: "number", Source: f.Source}
	}
	return nil
}

func renamedCopy(in *Schema, path, name string) *Field {
	def, err := ResolveField(in, path)
	if err != nil {
		return nil
	}
	out := def.Copy()
	out.Name = name
	return out
}
