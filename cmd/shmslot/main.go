// Command shmslot exercises a fixed-slot allocator over shared memory.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"

	"github.com/srediag/shmslot/internal/logger"
	"github.com/srediag/shmslot/pkg/shm"
)

var internalLogger = logger.New("shmslot", os.Stderr)

func main() {
	app := kingpin.New("shmslot", "Fixed-size record slots in a shared memory region.")
	configFile := app.Flag("config", "YAML config file.").String()
	logLevel := app.Flag("log-level", "Log level, 0 (trace) to 5 (silent).").Default("-1").Int()
	name := app.Flag("name", "Region name under /dev/shm; empty for an anonymous region.").String()
	size := app.Flag("size", "Region size in bytes.").Int()

	demoCmd := app.Command("demo", "Store, verify and release records from concurrent workers.")
	workers := demoCmd.Flag("workers", "Worker goroutines.").Int()
	records := demoCmd.Flag("records", "Records to store.").Int()

	serveCmd := app.Command("serve", "Hold a region open and serve /metrics, /live, /ready and /slots.")
	addr := serveCmd.Flag("addr", "Listen address.").String()

	inspectCmd := app.Command("inspect", "Print the non-zero records of an existing named region.")
	destroyCmd := app.Command("destroy", "Unlink a named region.")

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	cfg, err := LoadConfig(*configFile)
	app.FatalIfError(err, "config")
	if *logLevel >= 0 {
		cfg.LogLevel = *logLevel
	}
	if *name != "" {
		cfg.Region.Name = *name
	}
	if *size > 0 {
		cfg.Region.Size = *size
	}
	if *workers > 0 {
		cfg.Demo.Workers = *workers
	}
	if *records > 0 {
		cfg.Demo.Records = *records
	}
	if *addr != "" {
		cfg.Serve.Addr = *addr
	}
	app.FatalIfError(cfg.Verify(), "config")
	logger.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch command {
	case demoCmd.FullCommand():
		_, err = runDemo(ctx, cfg, os.Stdout)
	case serveCmd.FullCommand():
		err = runServe(ctx, cfg, os.Stdout)
	case inspectCmd.FullCommand():
		if cfg.Region.Name == "" {
			app.Fatalf("inspect needs --name")
		}
		err = runInspect(ctx, cfg.Region.Name, os.Stdout)
	case destroyCmd.FullCommand():
		if cfg.Region.Name == "" {
			app.Fatalf("destroy needs --name")
		}
		err = shm.Destroy(cfg.Region.Name)
	}
	app.FatalIfError(err, "%s", command)
}
