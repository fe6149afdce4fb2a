package parquet

import (
	"fmt"

	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/errors"
	"github.com/go-sif/tabula/schema"
	pq "github.com/segmentio/parquet-go"
)

// SchemaKey is the file metadata key under which the Schema DDL is stored
const SchemaKey = "tabula.schema"

// leafNode returns the Parquet node of a scalar ColumnType
func leafNode(colName string, colType tabula.ColumnType) (pq.Node, error) {
	switch colType.(type) {
	case *tabula.StringColumnType:
		return pq.String(), nil
	case *tabula.IntegerColumnType:
		return pq.Int(64), nil
	case *tabula.DoubleColumnType:
		return pq.Leaf(pq.DoubleType), nil
	case *tabula.BooleanColumnType:
		return pq.Leaf(pq.BooleanType), nil
	case *tabula.DateColumnType:
		return pq.Date(), nil
	}
	return nil, errors.TypeError{Column: colName, Expected: "a scalar or an array of scalars", Actual: colType.Name()}
}

// toParquetSchema builds the Parquet schema of a Table. Every column is optional.
func toParquetSchema(s tabula.Schema) (*pq.Schema, error) {
	group := pq.Group{}
	for _, col := range s.Columns() {
		var node pq.Node
		var err error
		if arr, ok := col.Type().(*tabula.ArrayColumnType); ok {
			var elem pq.Node
			if elem, err = leafNode(col.Name(), arr.Elem); err != nil {
				return nil, err
			}
			node = pq.List(pq.Optional(elem))
		} else if node, err = leafNode(col.Name(), col.Type()); err != nil {
			return nil, err
		}
		group[col.Name()] = pq.Optional(node)
	}
	return pq.NewSchema("tabula", group), nil
}

// leafIndices maps each top-level field name to the index of its leaf column
func leafIndices(ps *pq.Schema) map[string]int {
	indices := make(map[string]int)
	for i, path := range ps.Columns() {
		if _, ok := indices[path[0]]; !ok {
			indices[path[0]] = i
		}
	}
	return indices
}

// fieldReader decodes the values of one top-level Parquet field
type fieldReader struct {
	name     string
	leaf     int
	colType  tabula.ColumnType
	nullable bool
	isList   bool
	listDef  int // definition level of a present list
	elemDef  int // definition level of a list with at least one element
	kind     pq.Kind
}

func scalarType(name string, t pq.Type) (tabula.ColumnType, error) {
	lt := t.LogicalType()
	switch t.Kind() {
	case pq.Boolean:
		return &tabula.BooleanColumnType{}, nil
	case pq.Int32:
		if lt != nil && lt.Date != nil {
			return &tabula.DateColumnType{}, nil
		}
		return &tabula.IntegerColumnType{}, nil
	case pq.Int64:
		return &tabula.IntegerColumnType{}, nil
	case pq.Float, pq.Double:
		return &tabula.DoubleColumnType{}, nil
	case pq.ByteArray, pq.FixedLenByteArray:
		return &tabula.StringColumnType{}, nil
	}
	return nil, errors.TypeError{Column: name, Expected: "a supported Parquet type", Actual: t.Kind().String()}
}

func definitionLevel(f pq.Field) int {
	if f.Required() {
		return 0
	}
	return 1
}

// inspect describes how to read a top-level Parquet field
func inspect(f pq.Field, leaf int) (*fieldReader, error) {
	fr := &fieldReader{name: f.Name(), leaf: leaf, nullable: !f.Required()}
	if f.Leaf() {
		if f.Repeated() {
			return nil, errors.TypeError{Column: f.Name(), Expected: "a non-repeated field", Actual: "repeated " + f.Type().Kind().String()}
		}
		colType, err := scalarType(f.Name(), f.Type())
		if err != nil {
			return nil, err
		}
		fr.colType = colType
		fr.kind = f.Type().Kind()
		return fr, nil
	}
	// lists are a group holding a single repeated field
	children := f.Fields()
	if len(children) != 1 || !children[0].Repeated() {
		return nil, errors.TypeError{Column: f.Name(), Expected: "a list or a primitive", Actual: "group"}
	}
	fr.isList = true
	fr.listDef = definitionLevel(f)
	fr.elemDef = fr.listDef + 1
	elem := children[0]
	if !elem.Leaf() {
		grandchildren := elem.Fields()
		if len(grandchildren) != 1 || !grandchildren[0].Leaf() || grandchildren[0].Repeated() {
			return nil, errors.TypeError{Column: f.Name(), Expected: "a list of primitives", Actual: "nested list"}
		}
		elem = grandchildren[0]
	}
	elemType, err := scalarType(f.Name(), elem.Type())
	if err != nil {
		return nil, err
	}
	fr.colType = &tabula.ArrayColumnType{Elem: elemType}
	fr.kind = elem.Type().Kind()
	return fr, nil
}

// fieldReaders returns a reader for every top-level field of a Parquet schema,
// along with the equivalent Schema. When ddl is set, it determines the order
// and nullability of columns.
func fieldReaders(ps *pq.Schema, ddl string) (tabula.Schema, []*fieldReader, error) {
	indices := leafIndices(ps)
	fields := make(map[string]pq.Field)
	for _, f := range ps.Fields() {
		fields[f.Name()] = f
	}
	var specs []schema.ColumnSpec
	if len(ddl) > 0 {
		declared, err := schema.ParseDDL(ddl)
		if err != nil {
			return nil, nil, err
		}
		for _, col := range declared.Columns() {
			specs = append(specs, schema.ColumnSpec{Name: col.Name(), Type: col.Type(), Nullable: col.Nullable()})
		}
	}
	readers := []*fieldReader{}
	if specs == nil {
		for _, f := range ps.Fields() {
			fr, err := inspect(f, indices[f.Name()])
			if err != nil {
				return nil, nil, err
			}
			readers = append(readers, fr)
			specs = append(specs, schema.ColumnSpec{Name: fr.name, Type: fr.colType, Nullable: fr.nullable})
		}
	} else {
		for _, spec := range specs {
			f, ok := fields[spec.Name]
			if !ok {
				return nil, nil, errors.SchemaMismatchError{Column: spec.Name, Row: -1, Reason: "column is missing from the Parquet schema"}
			}
			fr, err := inspect(f, indices[f.Name()])
			if err != nil {
				return nil, nil, err
			}
			if !tabula.TypesEqual(fr.colType, spec.Type) {
				return nil, nil, errors.SchemaMismatchError{Column: spec.Name, Row: -1, Reason: fmt.Sprintf("Parquet type %s does not match %s", fr.colType.Name(), spec.Type.Name())}
			}
			readers = append(readers, fr)
		}
	}
	s, err := schema.Build(specs...)
	if err != nil {
		return nil, nil, err
	}
	return s, readers, nil
}
