package tttr

import (
	"errors"
	"math"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
)

// PTUFile is an opened PicoQuant PTU file: its parsed header plus the
// TileDB VFS handle its record stream reads from. A file is opened once
// and may be read from multiple times (each engine call seeks to its own
// record range before constructing a RecordStream), but it is not safe
// for concurrent use by more than one goroutine at a time.
type PTUFile struct {
	Uri    string
	Header Header

	RecType RecType

	// GlobalResolution is the header's MeasDesc_GlobalResolution value,
	// in seconds. For T2 formats this is the tick length of Event.Tof.
	// For T3 formats this is the sync period in seconds; decoder ticks
	// are always picoseconds regardless, see SyncPeriodPs.
	GlobalResolution float64

	// DTimeResolution is MeasDesc_Resolution, in seconds. T3 formats only.
	DTimeResolution float64

	NumRecords uint64
	DataOffset int64

	// SyncPeriodPs and DTimeResPs are GlobalResolution/DTimeResolution
	// converted to whole picoseconds, the units hht3hh2Decoder works in.
	// T3 formats only; zero otherwise.
	SyncPeriodPs uint64
	DTimeResPs   uint64

	filesize uint64
	config   *tiledb.Config
	ctx      *tiledb.Context
	vfs      *tiledb.VFS
	handler  *tiledb.VFSfh
	stream   Stream
}

// OpenPTU opens uri through TileDB's VFS abstraction (so local paths,
// S3, GCS, Azure, and HDFS URIs all work uniformly), parses its header,
// and derives the fields engines need to dispatch on. config_uri, if
// non-empty, is loaded as a TileDB config file; pass "" for defaults.
// in_memory slurps the whole file into memory up front, trading peak
// memory for fewer round trips against remote stores.
func OpenPTU(uri, config_uri string, in_memory bool) (*PTUFile, error) {
	config, err := loadConfig(config_uri)
	if err != nil {
		return nil, err
	}

	ctx, err := tiledb.NewContext(config)
	if err != nil {
		return nil, errors.Join(ErrIO, err)
	}

	vfs, err := tiledb.NewVFS(ctx, config)
	if err != nil {
		return nil, errors.Join(ErrIO, err)
	}

	is_file, err := vfs.IsFile(uri)
	if err != nil {
		return nil, errors.Join(ErrFileNotAvailable, err)
	}
	if !is_file {
		return nil, errors.Join(ErrFileNotAvailable, errors.New(uri))
	}

	filesize, err := vfs.FileSize(uri)
	if err != nil {
		return nil, errors.Join(ErrIO, err)
	}

	handler, err := vfs.Open(uri, tiledb.TILEDB_VFS_READ)
	if err != nil {
		return nil, errors.Join(ErrIO, err)
	}

	stream, err := GenericStream(handler, filesize, in_memory)
	if err != nil {
		return nil, err
	}

	header, err := ReadHeader(stream)
	if err != nil {
		return nil, err
	}

	f := &PTUFile{
		Uri:      uri,
		Header:   header,
		filesize: filesize,
		config:   config,
		ctx:      ctx,
		vfs:      vfs,
		handler:  handler,
		stream:   stream,
	}

	if err := f.loadDerivedFields(); err != nil {
		return nil, err
	}

	return f, nil
}

func loadConfig(config_uri string) (*tiledb.Config, error) {
	if config_uri == "" {
		config, err := tiledb.NewConfig()
		if err != nil {
			return nil, errors.Join(ErrIO, err)
		}
		return config, nil
	}

	config, err := tiledb.LoadConfig(config_uri)
	if err != nil {
		return nil, errors.Join(ErrIO, err)
	}
	return config, nil
}

func (f *PTUFile) loadDerivedFields() error {
	rawRec, err := f.Header.Int("TTResultFormat_TTTRRecType")
	if err != nil {
		return err
	}
	f.RecType = recTypeFromRaw(rawRec)

	numRecords, err := f.Header.Int("TTResult_NumberOfRecords")
	if err != nil {
		return err
	}
	f.NumRecords = uint64(numRecords)

	dataOffset, err := f.Header.Int("DataOffset")
	if err != nil {
		return err
	}
	f.DataOffset = dataOffset

	globalRes, err := f.Header.Float("MeasDesc_GlobalResolution")
	if err != nil {
		return err
	}
	f.GlobalResolution = globalRes

	if f.RecType.isT3() {
		dtimeRes, err := f.Header.Float("MeasDesc_Resolution")
		if err != nil {
			return err
		}
		f.DTimeResolution = dtimeRes
		f.SyncPeriodPs = uint64(math.Round(globalRes * 1e12))
		f.DTimeResPs = uint64(math.Round(dtimeRes * 1e12))
	}

	return nil
}

// streamTimeRes is the tick length engines use for their window/bin
// arithmetic. T3 decoders always emit picosecond ticks regardless of
// what GlobalResolution (the sync period, not a tick length) says, so
// HHT3_HH2 streams are pinned to 1e-12 independent of the header.
func (f *PTUFile) streamTimeRes() float64 {
	if f.RecType.isT3() {
		return 1e-12
	}
	return f.GlobalResolution
}

// prepareRange seeks the file's stream to the start of [start, stop) and
// returns the number of records a RecordStream constructed immediately
// afterwards should read. A nil bound defaults to the corresponding end
// of the file's full span.
func (f *PTUFile) prepareRange(start, stop *uint64) (uint64, error) {
	s := uint64(0)
	if start != nil {
		s = *start
	}
	e := f.NumRecords
	if stop != nil {
		e = *stop
	}
	if e > f.NumRecords {
		e = f.NumRecords
	}
	if s > e {
		s = e
	}

	pos := f.DataOffset + int64(4*s)
	if _, err := f.stream.Seek(pos, 0); err != nil {
		return 0, errors.Join(ErrIO, err)
	}

	return e - s, nil
}

// Close releases the underlying VFS handle.
func (f *PTUFile) Close() error {
	if f.handler == nil {
		return nil
	}
	if err := f.handler.Close(); err != nil {
		return errors.Join(ErrIO, err)
	}
	return nil
}
