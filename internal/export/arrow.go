package export

import (
	"fmt"
	"io"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/ipc"
	"github.com/apache/arrow/go/v18/arrow/memory"

	"salarydash/internal/engine"
)

// Schema maps table columns to Arrow fields: numeric columns become nullable
// float64, categorical columns utf8.
func Schema(t *engine.Table) *arrow.Schema {
	names := t.Columns()
	fields := make([]arrow.Field, len(names))
	for i, name := range names {
		c, _ := t.Column(name)
		if c.Kind() == engine.Numeric {
			fields[i] = arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Float64, Nullable: true}
		} else {
			fields[i] = arrow.Field{Name: name, Type: arrow.BinaryTypes.String}
		}
	}
	return arrow.NewSchema(fields, nil)
}

// Record copies t into a single Arrow record. The caller must Release it.
func Record(mem memory.Allocator, t *engine.Table) arrow.Record {
	schema := Schema(t)
	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()

	n := t.Len()
	for ci, name := range t.Columns() {
		c, _ := t.Column(name)
		switch fb := b.Field(ci).(type) {
		case *array.Float64Builder:
			fb.Reserve(n)
			for i := 0; i < n; i++ {
				if v, ok := c.Float(i); ok {
					fb.Append(v)
				} else {
					fb.AppendNull()
				}
			}
		case *array.StringBuilder:
			fb.Reserve(n)
			for i := 0; i < n; i++ {
				fb.Append(c.Text(i))
			}
		}
	}
	return b.NewRecord()
}

// WriteArrow writes t as an Arrow IPC stream holding one record batch.
func WriteArrow(w io.Writer, t *engine.Table) error {
	mem := memory.NewGoAllocator()
	rec := Record(mem, t)
	defer rec.Release()

	iw := ipc.NewWriter(w, ipc.WithSchema(rec.Schema()), ipc.WithAllocator(mem))
	if err := iw.Write(rec); err != nil {
		iw.Close()
		return fmt.Errorf("write arrow record: %w", err)
	}
	return iw.Close()
}
