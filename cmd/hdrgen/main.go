package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/alecthomas/kong"

	"github.com/hdrgen/hdrgen"
	"github.com/hdrgen/hdrgen/devtools"
	"github.com/hdrgen/hdrgen/provider"
	"github.com/hdrgen/hdrgen/sink"
)

type CLI struct {
	Version VersionCmd `cmd:"" help:"Print version information."`
	Gen     GenCmd     `cmd:"" help:"Generate binding headers for Go packages."`
	Check   CheckCmd   `cmd:"" help:"Validate exported declarations without writing files."`
	Dev     DevCmd     `cmd:"" help:"Serve a live binding preview over HTTP."`
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println(Version())
	return nil
}

type GenCmd struct {
	Packages []string `arg:"" help:"Go package patterns to analyze."`
	Out      string   `help:"Output file path." short:"o" default:"bindings.h"`
	Lang     string   `help:"Target language (c, c++, csharp)." short:"l"`
	Config   string   `help:"Path to an hdrgen.toml config file." short:"c"`
	Name     string   `help:"Library name override."`
}

func (c *GenCmd) Run() error {
	cfg, err := loadConfig(c.Config)
	if err != nil {
		return err
	}
	if c.Lang != "" {
		cfg.Language = c.Lang
	}

	gen, err := hdrgen.New(cfg)
	if err != nil {
		return err
	}

	ctx := context.Background()
	lib, err := provider.Build(ctx, provider.Options{
		Packages:    c.Packages,
		LibraryName: c.Name,
	})
	if err != nil {
		return err
	}

	out := sink.NewFilesystemSink(filepath.Dir(c.Out))
	res, err := gen.Generate(ctx, lib, out, filepath.Base(c.Out))
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "hdrgen: wrote %s (%d declarations, %d bytes)\n",
		c.Out, res.Declarations, res.Size)
	return nil
}

type CheckCmd struct {
	Packages []string `arg:"" help:"Go package patterns to analyze."`
	Lang     string   `help:"Target language (c, c++, csharp)." short:"l"`
	Config   string   `help:"Path to an hdrgen.toml config file." short:"c"`
}

func (c *CheckCmd) Run() error {
	cfg, err := loadConfig(c.Config)
	if err != nil {
		return err
	}
	if c.Lang != "" {
		cfg.Language = c.Lang
	}

	gen, err := hdrgen.New(cfg)
	if err != nil {
		return err
	}

	lib, err := provider.Build(context.Background(), provider.Options{Packages: c.Packages})
	if err != nil {
		return err
	}
	if _, err := gen.Render(lib); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "hdrgen: %d functions, %d structs, %d enums, %d typedefs OK\n",
		len(lib.Functions), len(lib.Structs), len(lib.Enums), len(lib.Typedefs))
	return nil
}

type DevCmd struct {
	Packages []string `arg:"" help:"Go package patterns to analyze."`
	Config   string   `help:"Path to an hdrgen.toml config file." short:"c"`
	Port     int      `help:"Port to listen on." default:"9000" short:"p"`
}

func (c *DevCmd) Run() error {
	cfg, err := loadConfig(c.Config)
	if err != nil {
		return err
	}

	lib, err := provider.Build(context.Background(), provider.Options{Packages: c.Packages})
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	svc := devtools.New(lib, cfg, logger)

	addr := fmt.Sprintf("localhost:%d", c.Port)
	logger.Info("hdrgen dev server listening", "addr", addr)
	return http.ListenAndServe(addr, svc.Handler())
}

// loadConfig reads a TOML config file, or returns the zero config when no
// path is given.
func loadConfig(path string) (hdrgen.Config, error) {
	var cfg hdrgen.Config
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return cfg, nil
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("hdrgen"),
		kong.Description("Generate C, C++, and C# binding declarations from Go packages."),
		kong.UsageOnError(),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
