package tttr

import (
	"bytes"
	"errors"
	"io"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
)

// Stream is the minimal read/seek capability a record decoder needs over
// the underlying PTU file. It is satisfied by both the in-memory and the
// TileDB VFS backed handle, so the rest of the package never depends on
// the storage backend directly.
type Stream interface {
	Read(p []byte) (int, error)
	Seek(offset int64, whence int) (int64, error)
}

// GenericStream wraps a TileDB VFS file handle, optionally slurping the
// whole file into memory first. in_memory trades peak memory for fewer,
// larger reads against remote object stores.
func GenericStream(handler *tiledb.VFSfh, size uint64, in_memory bool) (Stream, error) {
	if !in_memory {
		return handler, nil
	}

	buf := make([]byte, size)
	n, err := io.ReadFull(handler, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, errors.Join(ErrIO, err)
	}

	return bytes.NewReader(buf[:n]), nil
}

// Tell reports the current offset of a stream without disturbing its
// position.
func Tell(stream Stream) (int64, error) {
	pos, err := stream.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, errors.Join(ErrIO, err)
	}
	return pos, nil
}
