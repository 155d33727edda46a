package search

import (
	"path/filepath"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
)

// trawl is a general purpose recursive directory walk. The basename is
// only matched against the pattern, eg ("*.ptu", "run-0042.ptu").
func trawl(vfs *tiledb.VFS, pattern string, uri string, items []string) []string {
	dirs, files, err := vfs.List(uri)
	if err != nil {
		panic(err)
	}

	for _, file := range files {
		match, err := filepath.Match(pattern, filepath.Base(file))
		if err != nil {
			panic(err)
		}

		if match {
			items = append(items, file)
		}
	}

	for _, dir := range dirs {
		items = trawl(vfs, pattern, dir, items)
	}

	return items
}

// FindPTU recursively searches for *.ptu files under uri. It uses the
// TileDB Go bindings so the search works uniformly over local
// filesystems or object stores such as S3; config_uri supplies TileDB
// config for stores that need credentials.
func FindPTU(uri string, config_uri string) []string {
	var (
		config *tiledb.Config
		err     error
		items   []string
	)

	if config_uri == "" {
		config, err = tiledb.NewConfig()
		if err != nil {
			panic(err)
		}
	} else {
		config, err = tiledb.LoadConfig(config_uri)
		if err != nil {
			panic(err)
		}
	}

	defer config.Free()

	ctx, err := tiledb.NewContext(config)
	if err != nil {
		panic(err)
	}
	defer ctx.Free()

	vfs, err := tiledb.NewVFS(ctx, config)
	if err != nil {
		panic(err)
	}
	defer vfs.Free()

	items = make([]string, 0)
	pattern := "*.ptu"

	items = trawl(vfs, pattern, uri, items)

	return items
}
