package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/suparena/entityregistry"
	"github.com/suparena/entityregistry/config"
	"github.com/suparena/entityregistry/datastore"
	"github.com/suparena/entityregistry/datastore/ddb"
	"github.com/suparena/entityregistry/errors"
	"github.com/suparena/entityregistry/snapshot"
	"github.com/suparena/entityregistry/storagemodels"
)

// newStore opens the persistent record store; tests replace it.
var newStore = func(ctx context.Context, cfg config.Config) (datastore.DataStore[storagemodels.EntityRecord], error) {
	return ddb.NewDynamodbDataStore[storagemodels.EntityRecord](ctx, cfg.AWSAccessKey, cfg.AWSSecretKey, cfg.AWSRegion, cfg.DDBTable)
}

type operation struct {
	verb string
	name string
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "registryctl: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("registryctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: registryctl [flags] [enter=NAME | designate=NAME | rename=NAME]...")
		fs.PrintDefaults()
	}
	versionFlag := fs.Bool("version", false, "Show version information")
	vFlag := fs.Bool("v", false, "Show version information (short)")
	envFile := fs.String("env", ".env", "Env file to load before reading the environment")
	seedFile := fs.String("seed", "", "YAML snapshot to start from (overrides "+config.EnvSeedFile+")")
	outFile := fs.String("out", "", "Write the resulting snapshot as YAML to this path")
	export := fs.Bool("export", false, "Save the resulting snapshot to DynamoDB")
	importID := fs.String("import", "", "Load the registry with this id from DynamoDB first")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *versionFlag || *vFlag {
		info := entityregistry.GetVersionInfo()
		fmt.Fprintf(stdout, "registryctl version %s\n", info.Version)
		fmt.Fprintf(stdout, "Git commit: %s\n", info.GitCommit)
		fmt.Fprintf(stdout, "Build date: %s\n", info.BuildDate)
		fmt.Fprintf(stdout, "Go version: %s\n", info.GoVersion)
		return nil
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		return err
	}
	if *seedFile != "" {
		cfg.SeedFile = *seedFile
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	ops, err := parseOperations(fs.Args())
	if err != nil {
		return err
	}

	var store datastore.DataStore[storagemodels.EntityRecord]
	if *export || *importID != "" {
		if !cfg.DynamoDBEnabled() {
			return errors.NewValidationError(config.EnvTable, "required for -export and -import")
		}
		if store, err = newStore(ctx, cfg); err != nil {
			return err
		}
	}

	reg, err := open(ctx, cfg, *importID, store, logger)
	if err != nil {
		return err
	}
	if err := apply(reg, ops); err != nil {
		return err
	}
	printRegistry(stdout, reg)

	if *outFile != "" {
		if err := snapshot.WriteFile(*outFile, reg.Snapshot()); err != nil {
			return err
		}
		logger.Info("snapshot written", slog.String("path", *outFile))
	}
	if *export {
		if err := snapshot.Save(ctx, store, reg.Snapshot()); err != nil {
			return err
		}
		logger.Info("snapshot exported", slog.String("registry", reg.ID()), slog.String("table", cfg.DDBTable))
	}
	return nil
}

// open builds the starting registry: imported from the store, seeded from a
// YAML file, or empty.
func open(ctx context.Context, cfg config.Config, importID string, store datastore.DataStore[storagemodels.EntityRecord], logger *slog.Logger) (*entityregistry.Registry, error) {
	opts := []entityregistry.Option{entityregistry.WithLogger(logger)}

	switch {
	case importID != "":
		snap, err := snapshot.Load(ctx, store, importID)
		if err != nil {
			return nil, err
		}
		return entityregistry.Restore(snap, opts...)
	case cfg.SeedFile != "":
		snap, err := snapshot.ReadFile(cfg.SeedFile)
		if err != nil {
			return nil, err
		}
		if snap.RegistryID == "" && cfg.RegistryID != "" {
			snap.RegistryID = cfg.RegistryID
		}
		return entityregistry.Restore(snap, opts...)
	}

	if cfg.RegistryID != "" {
		opts = append(opts, entityregistry.WithID(cfg.RegistryID))
	}
	return entityregistry.New(opts...), nil
}

func parseOperations(args []string) ([]operation, error) {
	ops := make([]operation, 0, len(args))
	for _, arg := range args {
		verb, name, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, errors.NewValidationError("operation", fmt.Sprintf("%q is not VERB=NAME", arg))
		}
		switch verb {
		case "enter", "designate", "rename":
			ops = append(ops, operation{verb: verb, name: name})
		default:
			return nil, errors.NewValidationError("operation", fmt.Sprintf("unknown verb %q", verb))
		}
	}
	return ops, nil
}

func apply(reg *entityregistry.Registry, ops []operation) error {
	for _, op := range ops {
		switch op.verb {
		case "enter":
			reg.Enter(op.name)
		case "designate":
			reg.Designate(op.name)
		case "rename":
			renamed, err := reg.RenameDesignated(op.name)
			if err != nil {
				return err
			}
			if !renamed {
				return errors.NewValidationError("operation", "rename="+op.name+" before any designate")
			}
		}
	}
	return nil
}

func printRegistry(w io.Writer, reg *entityregistry.Registry) {
	designated, _ := reg.Designated()
	fmt.Fprintf(w, "registry %s\n", reg.ID())
	for _, e := range reg.Entities() {
		marker := " "
		if e.ID == designated {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %d %s\n", marker, e.Seq, e.Name)
	}
}
