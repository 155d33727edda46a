package tttr

import (
	"errors"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
	"github.com/samber/lo"
)

var ErrWriteHistogram = errors.New("tttr: error writing histogram array")

type histogramBuffers struct {
	Count []uint64
}

type histogram2DBuffers struct {
	Count []uint64
}

// WriteHistogram persists a 1-D engine result (Intensity, Lifetime, G2,
// ZeroFinder) as a dense TileDB array at uri, plus, when meta is non-nil,
// a JSON metadata blob under the key "params" describing the run that
// produced it.
func WriteHistogram(ctx *tiledb.Context, uri string, hist []uint64, meta any) error {
	schema, err := histogramSchema(ctx, uint64(len(hist)))
	if err != nil {
		return err
	}
	defer schema.Free()

	array, err := tiledb.NewArray(ctx, uri)
	if err != nil {
		return errors.Join(ErrWriteHistogram, err)
	}
	defer array.Free()

	if err := array.Create(schema); err != nil {
		return errors.Join(ErrWriteHistogram, err)
	}

	if err := writeDense(ctx, uri, &histogramBuffers{Count: hist}); err != nil {
		return err
	}

	if meta != nil {
		if err := WriteArrayMetadata(ctx, uri, "params", meta); err != nil {
			return err
		}
	}

	return nil
}

// WriteHistogram2D persists a 2-D engine result (G3, G3Sync) as a dense
// TileDB array at uri. hist is row-major (τ1 outer, τ2 inner).
func WriteHistogram2D(ctx *tiledb.Context, uri string, hist [][]uint64, meta any) error {
	side := uint64(len(hist))

	schema, err := histogram2DSchema(ctx, side)
	if err != nil {
		return err
	}
	defer schema.Free()

	array, err := tiledb.NewArray(ctx, uri)
	if err != nil {
		return errors.Join(ErrWriteHistogram, err)
	}
	defer array.Free()

	if err := array.Create(schema); err != nil {
		return errors.Join(ErrWriteHistogram, err)
	}

	flat := lo.Flatten(hist)

	if err := writeDense(ctx, uri, &histogram2DBuffers{Count: flat}); err != nil {
		return err
	}

	if meta != nil {
		if err := WriteArrayMetadata(ctx, uri, "params", meta); err != nil {
			return err
		}
	}

	return nil
}

func writeDense(ctx *tiledb.Context, uri string, buffers any) error {
	array, err := ArrayOpen(ctx, uri, tiledb.TILEDB_WRITE)
	if err != nil {
		return errors.Join(ErrWriteHistogram, err)
	}
	defer array.Free()
	defer array.Close()

	query, err := tiledb.NewQuery(ctx, array)
	if err != nil {
		return errors.Join(ErrWriteHistogram, err)
	}
	defer query.Free()

	if err := query.SetLayout(tiledb.TILEDB_ROW_MAJOR); err != nil {
		return errors.Join(ErrWriteHistogram, err)
	}

	if err := setStructFieldBuffers(query, buffers); err != nil {
		return err
	}

	if err := query.Submit(); err != nil {
		return errors.Join(ErrWriteHistogram, err)
	}

	if err := query.Finalize(); err != nil {
		return errors.Join(ErrWriteHistogram, err)
	}

	return nil
}
