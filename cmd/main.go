package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
	"github.com/alitto/pond"
	"github.com/urfave/cli/v2"

	"github.com/photonq/tttr-toolbox"
	"github.com/photonq/tttr-toolbox/search"
)

func outputUri(ptuUri, outdirUri, suffix string) string {
	dir, file := filepath.Split(ptuUri)
	if outdirUri == "" {
		outdirUri = dir
	}
	return filepath.Join(outdirUri, file+suffix)
}

func openContext(configUri string) (*tiledb.Config, *tiledb.Context, error) {
	var (
		config *tiledb.Config
		err    error
	)
	if configUri == "" {
		config, err = tiledb.NewConfig()
	} else {
		config, err = tiledb.LoadConfig(configUri)
	}
	if err != nil {
		return nil, nil, err
	}

	ctx, err := tiledb.NewContext(config)
	if err != nil {
		return nil, nil, err
	}
	return config, ctx, nil
}

func runIntensity(ptuUri, configUri, outdirUri string, inMemory bool, channel *int32, resolution float64) error {
	log.Println("Processing PTU:", ptuUri)
	src, err := tttr.OpenPTU(ptuUri, configUri, inMemory)
	if err != nil {
		return err
	}
	defer src.Close()

	params := tttr.IntensityParams{Resolution: resolution, Channel: channel}
	result, err := tttr.Intensity(src, params)
	if err != nil {
		return err
	}

	_, ctx, err := openContext(configUri)
	if err != nil {
		return err
	}
	defer ctx.Free()

	out := outputUri(ptuUri, outdirUri, "-intensity.tiledb")
	if err := tttr.WriteHistogram(ctx, out, result.Trace, params); err != nil {
		return err
	}

	log.Println("Finished PTU:", ptuUri)
	return nil
}

func runLifetime(ptuUri, configUri, outdirUri string, inMemory bool, channelSync, channelSource int32, resolution float64) error {
	log.Println("Processing PTU:", ptuUri)
	src, err := tttr.OpenPTU(ptuUri, configUri, inMemory)
	if err != nil {
		return err
	}
	defer src.Close()

	params := tttr.LifetimeParams{ChannelSync: channelSync, ChannelSource: channelSource, Resolution: resolution}
	result, err := tttr.Lifetime(src, params)
	if err != nil {
		return err
	}

	_, ctx, err := openContext(configUri)
	if err != nil {
		return err
	}
	defer ctx.Free()

	out := outputUri(ptuUri, outdirUri, "-lifetime.tiledb")
	return tttr.WriteHistogram(ctx, out, result.Histogram, params)
}

func runG2(ptuUri, configUri, outdirUri string, inMemory bool, channel1, channel2 int32, cw, resolution float64) error {
	log.Println("Processing PTU:", ptuUri)
	src, err := tttr.OpenPTU(ptuUri, configUri, inMemory)
	if err != nil {
		return err
	}
	defer src.Close()

	params := tttr.G2SymmetricParams{Channel1: channel1, Channel2: channel2, CorrelationWindow: cw, Resolution: resolution}
	result, err := tttr.G2Symmetric(src, params)
	if err != nil {
		return err
	}

	_, ctx, err := openContext(configUri)
	if err != nil {
		return err
	}
	defer ctx.Free()

	out := outputUri(ptuUri, outdirUri, "-g2.tiledb")
	return tttr.WriteHistogram(ctx, out, result.Histogram, params)
}

func runG3(ptuUri, configUri, outdirUri string, inMemory bool, channel1, channel2, channel3 int32, cw, resolution float64) error {
	log.Println("Processing PTU:", ptuUri)
	src, err := tttr.OpenPTU(ptuUri, configUri, inMemory)
	if err != nil {
		return err
	}
	defer src.Close()

	params := tttr.G3Params{Channel1: channel1, Channel2: channel2, Channel3: channel3, CorrelationWindow: cw, Resolution: resolution}
	result, err := tttr.G3(src, params)
	if err != nil {
		return err
	}

	_, ctx, err := openContext(configUri)
	if err != nil {
		return err
	}
	defer ctx.Free()

	out := outputUri(ptuUri, outdirUri, "-g3.tiledb")
	return tttr.WriteHistogram2D(ctx, out, result.Histogram, params)
}

func runG3Sync(ptuUri, configUri, outdirUri string, inMemory bool, channelSync, channel1, channel2 int32, resolution float64) error {
	log.Println("Processing PTU:", ptuUri)
	src, err := tttr.OpenPTU(ptuUri, configUri, inMemory)
	if err != nil {
		return err
	}
	defer src.Close()

	params := tttr.G3SyncParams{ChannelSync: channelSync, Channel1: channel1, Channel2: channel2, Resolution: resolution}
	result, err := tttr.G3Sync(src, params)
	if err != nil {
		return err
	}

	_, ctx, err := openContext(configUri)
	if err != nil {
		return err
	}
	defer ctx.Free()

	out := outputUri(ptuUri, outdirUri, "-g3sync.tiledb")
	return tttr.WriteHistogram2D(ctx, out, result.Histogram, params)
}

// runBatch searches uri for *.ptu files and submits each to a fixed
// worker pool running fn, mirroring the reference convert-trawl command.
func runBatch(uri, configUri string, fn func(ptuUri string) error) error {
	log.Println("Searching uri:", uri)
	items := search.FindPTU(uri, configUri)
	log.Println("Number of PTUs to process:", len(items))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	n := runtime.NumCPU() * 2
	pool := pond.New(n, 0, pond.MinWorkers(n), pond.Context(ctx))
	defer pool.StopAndWait()

	for _, name := range items {
		item := name
		pool.Submit(func() {
			if err := fn(item); err != nil {
				log.Println("error processing", item, ":", err)
			}
		})
	}

	return nil
}

func channelFlag(name string) *cli.IntFlag {
	return &cli.IntFlag{Name: name, Usage: "Detector channel index."}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "ptu-uri", Usage: "URI or pathname to a PTU file."},
		&cli.StringFlag{Name: "uri", Usage: "URI or pathname to a directory of PTU files (batch mode)."},
		&cli.StringFlag{Name: "config-uri", Usage: "URI or pathname to a TileDB config file."},
		&cli.StringFlag{Name: "outdir-uri", Usage: "URI or pathname to an output directory."},
		&cli.BoolFlag{Name: "in-memory", Usage: "Read the entire PTU file into memory before processing."},
		&cli.Float64Flag{Name: "resolution", Usage: "Bin resolution in seconds.", Value: 1e-9},
	}
}

func main() {
	app := &cli.App{
		Commands: []*cli.Command{
			{
				Name:  "intensity",
				Usage: "Compute the intensity time trace of a PTU file.",
				Flags: append(commonFlags(), channelFlag("channel")),
				Action: func(cCtx *cli.Context) error {
					var channel *int32
					if cCtx.IsSet("channel") {
						c := int32(cCtx.Int("channel"))
						channel = &c
					}
					run := func(ptuUri string) error {
						return runIntensity(ptuUri, cCtx.String("config-uri"), cCtx.String("outdir-uri"), cCtx.Bool("in-memory"), channel, cCtx.Float64("resolution"))
					}
					if uri := cCtx.String("uri"); uri != "" {
						return runBatch(uri, cCtx.String("config-uri"), run)
					}
					return run(cCtx.String("ptu-uri"))
				},
			},
			{
				Name:  "lifetime",
				Usage: "Compute the fluorescence lifetime decay histogram of a PTU file.",
				Flags: append(commonFlags(), channelFlag("channel-sync"), channelFlag("channel-source")),
				Action: func(cCtx *cli.Context) error {
					run := func(ptuUri string) error {
						return runLifetime(ptuUri, cCtx.String("config-uri"), cCtx.String("outdir-uri"), cCtx.Bool("in-memory"), int32(cCtx.Int("channel-sync")), int32(cCtx.Int("channel-source")), cCtx.Float64("resolution"))
					}
					if uri := cCtx.String("uri"); uri != "" {
						return runBatch(uri, cCtx.String("config-uri"), run)
					}
					return run(cCtx.String("ptu-uri"))
				},
			},
			{
				Name:  "g2",
				Usage: "Compute the second-order correlation histogram between two channels.",
				Flags: append(commonFlags(), channelFlag("channel-1"), channelFlag("channel-2"),
					&cli.Float64Flag{Name: "correlation-window", Usage: "Correlation window in seconds.", Value: 1e-6}),
				Action: func(cCtx *cli.Context) error {
					run := func(ptuUri string) error {
						return runG2(ptuUri, cCtx.String("config-uri"), cCtx.String("outdir-uri"), cCtx.Bool("in-memory"), int32(cCtx.Int("channel-1")), int32(cCtx.Int("channel-2")), cCtx.Float64("correlation-window"), cCtx.Float64("resolution"))
					}
					if uri := cCtx.String("uri"); uri != "" {
						return runBatch(uri, cCtx.String("config-uri"), run)
					}
					return run(cCtx.String("ptu-uri"))
				},
			},
			{
				Name:  "g3",
				Usage: "Compute the full third-order correlation histogram across three channels.",
				Flags: append(commonFlags(), channelFlag("channel-1"), channelFlag("channel-2"), channelFlag("channel-3"),
					&cli.Float64Flag{Name: "correlation-window", Usage: "Correlation window in seconds.", Value: 1e-6}),
				Action: func(cCtx *cli.Context) error {
					run := func(ptuUri string) error {
						return runG3(ptuUri, cCtx.String("config-uri"), cCtx.String("outdir-uri"), cCtx.Bool("in-memory"), int32(cCtx.Int("channel-1")), int32(cCtx.Int("channel-2")), int32(cCtx.Int("channel-3")), cCtx.Float64("correlation-window"), cCtx.Float64("resolution"))
					}
					if uri := cCtx.String("uri"); uri != "" {
						return runBatch(uri, cCtx.String("config-uri"), run)
					}
					return run(cCtx.String("ptu-uri"))
				},
			},
			{
				Name:  "g3sync",
				Usage: "Compute the sync-referenced third-order correlation histogram. T3 files only.",
				Flags: append(commonFlags(), channelFlag("channel-sync"), channelFlag("channel-1"), channelFlag("channel-2")),
				Action: func(cCtx *cli.Context) error {
					run := func(ptuUri string) error {
						return runG3Sync(ptuUri, cCtx.String("config-uri"), cCtx.String("outdir-uri"), cCtx.Bool("in-memory"), int32(cCtx.Int("channel-sync")), int32(cCtx.Int("channel-1")), int32(cCtx.Int("channel-2")), cCtx.Float64("resolution"))
					}
					if uri := cCtx.String("uri"); uri != "" {
						return runBatch(uri, cCtx.String("config-uri"), run)
					}
					return run(cCtx.String("ptu-uri"))
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
