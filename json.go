package tttr

import (
	"encoding/json"
	"errors"
)

var ErrJsonMarshal = errors.New("tttr: error marshalling json")

// JsonDumps serialises any value to a single-line JSON string, the form
// TileDB array metadata values are stored as.
func JsonDumps(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", errors.Join(ErrJsonMarshal, err)
	}
	return string(b), nil
}

// JsonIndentDumps serialises any value to a pretty-printed JSON string,
// used for human-facing summaries written alongside an output archive.
func JsonIndentDumps(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", errors.Join(ErrJsonMarshal, err)
	}
	return string(b), nil
}
