package arrow

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/errors"
	"github.com/go-sif/tabula/schema"
)

// SchemaKey is the schema metadata key under which the Schema DDL is stored
const SchemaKey = "tabula.schema"

func toArrowType(colType tabula.ColumnType) arrow.DataType {
	switch ct := colType.(type) {
	case *tabula.IntegerColumnType:
		return arrow.PrimitiveTypes.Int64
	case *tabula.DoubleColumnType:
		return arrow.PrimitiveTypes.Float64
	case *tabula.BooleanColumnType:
		return arrow.FixedWidthTypes.Boolean
	case *tabula.DateColumnType:
		return arrow.FixedWidthTypes.Date32
	case *tabula.ArrayColumnType:
		return arrow.ListOf(toArrowType(ct.Elem))
	}
	return arrow.BinaryTypes.String
}

func toArrowSchema(s tabula.Schema) *arrow.Schema {
	cols := s.Columns()
	fields := make([]arrow.Field, len(cols))
	for i, col := range cols {
		fields[i] = arrow.Field{Name: col.Name(), Type: toArrowType(col.Type()), Nullable: col.Nullable()}
	}
	metadata := arrow.NewMetadata([]string{SchemaKey}, []string{s.ToDDL()})
	return arrow.NewSchema(fields, &metadata)
}

func fromArrowType(colName string, dtype arrow.DataType) (tabula.ColumnType, error) {
	switch dtype.ID() {
	case arrow.STRING, arrow.LARGE_STRING:
		return &tabula.StringColumnType{}, nil
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64, arrow.UINT8, arrow.UINT16, arrow.UINT32:
		return &tabula.IntegerColumnType{}, nil
	case arrow.FLOAT32, arrow.FLOAT64:
		return &tabula.DoubleColumnType{}, nil
	case arrow.BOOL:
		return &tabula.BooleanColumnType{}, nil
	case arrow.DATE32:
		return &tabula.DateColumnType{}, nil
	case arrow.LIST:
		elem, err := fromArrowType(colName, dtype.(*arrow.ListType).Elem())
		if err != nil {
			return nil, err
		}
		return &tabula.ArrayColumnType{Elem: elem}, nil
	}
	return nil, errors.TypeError{Column: colName, Expected: "a supported Arrow type", Actual: dtype.String()}
}

// fromArrowSchema returns the Schema of an Arrow stream, preferring a DDL
// stored in its metadata
func fromArrowSchema(as *arrow.Schema) (tabula.Schema, error) {
	if idx := as.Metadata().FindKey(SchemaKey); idx >= 0 {
		s, err := schema.ParseDDL(as.Metadata().Values()[idx])
		if err != nil {
			return nil, err
		}
		if s.NumColumns() != as.NumFields() {
			return nil, errors.SchemaMismatchError{Row: -1, Reason: fmt.Sprintf("stored schema has %d columns but the stream has %d", s.NumColumns(), as.NumFields())}
		}
		return s, nil
	}
	specs := make([]schema.ColumnSpec, as.NumFields())
	for i, f := range as.Fields() {
		colType, err := fromArrowType(f.Name, f.Type)
		if err != nil {
			return nil, err
		}
		specs[i] = schema.ColumnSpec{Name: f.Name, Type: colType, Nullable: f.Nullable}
	}
	return schema.Build(specs...)
}
