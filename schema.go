package tttr

import (
	"errors"
	"math"
	"reflect"
	"strings"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
	stgpsr "github.com/yuin/stagparser"
)

var ErrCreateAttributeTdb = errors.New("tttr: error creating tiledb attribute")
var ErrCreateSchemaTdb = errors.New("tttr: error creating tiledb schema")
var ErrCreateArrayTdb = errors.New("tttr: error creating tiledb array")

// pascalCase converts a string separated by underscores into PascalCase.
// For example, ALPHA_BETA_GAMMA -> AlphaBetaGamma.
func pascalCase(name string) (result string) {
	result = ""
	split := strings.Split(name, "_")

	for _, v := range split {
		low := strings.ToLower(v)
		result += strings.ToUpper(string(low[0])) + low[1:]
	}

	return result
}

func fieldNames(t any) (names []string) {
	names = make([]string, 0, 10)

	btype := reflect.TypeOf(t)
	for i := 0; i < btype.NumField(); i++ {
		if btype.Field(i).IsExported() {
			names = append(names, btype.Field(i).Name)
		}
	}
	return names
}

// schemaAttrs reads the "tiledb"/"filters" struct tags off every exported
// field of t (skipping those tagged as dimensions) and attaches a
// matching TileDB attribute to schema.
func schemaAttrs(t any, schema *tiledb.ArraySchema, ctx *tiledb.Context) error {
	var (
		field_tdb_defs map[string]stgpsr.Definition
		def            stgpsr.Definition
		status         bool
	)
	values := reflect.ValueOf(t).Elem()
	types := values.Type()
	filt_defs, _ := stgpsr.ParseStruct(t, "filters")
	tdb_defs, _ := stgpsr.ParseStruct(t, "tiledb")

	for i := 0; i < values.NumField(); i++ {
		name := types.Field(i).Name

		field_filt_defs := filt_defs[name]

		field_tdb_defs = make(map[string]stgpsr.Definition)
		for _, v := range tdb_defs[name] {
			field_tdb_defs[v.Name()] = v
		}

		def, status = field_tdb_defs["ftype"]
		if status == false {
			return errors.Join(ErrCreateAttributeTdb, errors.New("ftype tag not found"))
		}
		ftype, _ := def.Attribute("ftype")
		if ftype == "dim" {
			continue
		}

		err := CreateAttr(name, field_filt_defs, field_tdb_defs, schema, ctx)
		if err != nil {
			return errors.Join(ErrCreateAttributeTdb, err)
		}
	}
	return nil
}

// HistogramBin is one row of a persisted 1-D engine result (Intensity,
// Lifetime, G2, ZeroFinder): a bin index and its count.
type HistogramBin struct {
	Index uint64 `tiledb:"ftype=dim,dtype=uint64" filters:"zstd(level=16)"`
	Count uint64 `tiledb:"ftype=attr,dtype=uint64" filters:"zstd(level=16)"`
}

// HistogramBin2D is one cell of a persisted 2-D engine result (G3,
// G3Sync): a (τ1, τ2) index pair and its count.
type HistogramBin2D struct {
	Tau1  uint64 `tiledb:"ftype=dim,dtype=uint64" filters:"zstd(level=16)"`
	Tau2  uint64 `tiledb:"ftype=dim,dtype=uint64" filters:"zstd(level=16)"`
	Count uint64 `tiledb:"ftype=attr,dtype=uint64" filters:"zstd(level=16)"`
}

// histogramSchema builds a dense 1-D array schema for a HistogramBin
// result: the bin index is the only dimension, spanning [0, nBins).
func histogramSchema(ctx *tiledb.Context, nBins uint64) (*tiledb.ArraySchema, error) {
	domain, err := tiledb.NewDomain(ctx)
	if err != nil {
		return nil, errors.Join(ErrCreateSchemaTdb, err)
	}
	defer domain.Free()

	tileSz := uint64(math.Min(float64(4096), float64(nBins)))
	dim, err := tiledb.NewDimension(ctx, "index", tiledb.TILEDB_UINT64, []uint64{0, nBins - 1}, tileSz)
	if err != nil {
		return nil, errors.Join(ErrCreateSchemaTdb, err)
	}
	defer dim.Free()

	if err := domain.AddDimensions(dim); err != nil {
		return nil, errors.Join(ErrCreateSchemaTdb, err)
	}

	schema, err := tiledb.NewArraySchema(ctx, tiledb.TILEDB_DENSE)
	if err != nil {
		return nil, errors.Join(ErrCreateSchemaTdb, err)
	}

	if err := schema.SetDomain(domain); err != nil {
		return nil, errors.Join(ErrCreateSchemaTdb, err)
	}
	if err := schema.SetCellOrder(tiledb.TILEDB_ROW_MAJOR); err != nil {
		return nil, errors.Join(ErrCreateSchemaTdb, err)
	}
	if err := schema.SetTileOrder(tiledb.TILEDB_ROW_MAJOR); err != nil {
		return nil, errors.Join(ErrCreateSchemaTdb, err)
	}

	if err := schemaAttrs(&HistogramBin{}, schema, ctx); err != nil {
		return nil, err
	}

	return schema, nil
}

// histogram2DSchema builds a dense 2-D array schema for a HistogramBin2D
// result (G3, G3Sync).
func histogram2DSchema(ctx *tiledb.Context, side uint64) (*tiledb.ArraySchema, error) {
	domain, err := tiledb.NewDomain(ctx)
	if err != nil {
		return nil, errors.Join(ErrCreateSchemaTdb, err)
	}
	defer domain.Free()

	tileSz := uint64(math.Min(float64(128), float64(side)))

	tau1dim, err := tiledb.NewDimension(ctx, "tau1", tiledb.TILEDB_UINT64, []uint64{0, side - 1}, tileSz)
	if err != nil {
		return nil, errors.Join(ErrCreateSchemaTdb, err)
	}
	defer tau1dim.Free()

	tau2dim, err := tiledb.NewDimension(ctx, "tau2", tiledb.TILEDB_UINT64, []uint64{0, side - 1}, tileSz)
	if err != nil {
		return nil, errors.Join(ErrCreateSchemaTdb, err)
	}
	defer tau2dim.Free()

	if err := domain.AddDimensions(tau1dim, tau2dim); err != nil {
		return nil, errors.Join(ErrCreateSchemaTdb, err)
	}

	schema, err := tiledb.NewArraySchema(ctx, tiledb.TILEDB_DENSE)
	if err != nil {
		return nil, errors.Join(ErrCreateSchemaTdb, err)
	}

	if err := schema.SetDomain(domain); err != nil {
		return nil, errors.Join(ErrCreateSchemaTdb, err)
	}
	if err := schema.SetCellOrder(tiledb.TILEDB_ROW_MAJOR); err != nil {
		return nil, errors.Join(ErrCreateSchemaTdb, err)
	}
	if err := schema.SetTileOrder(tiledb.TILEDB_ROW_MAJOR); err != nil {
		return nil, errors.Join(ErrCreateSchemaTdb, err)
	}

	if err := schemaAttrs(&HistogramBin2D{}, schema, ctx); err != nil {
		return nil, err
	}

	return schema, nil
}
