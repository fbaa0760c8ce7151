package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	avrogen "github.com/goliatone/go-avrogen"
	"github.com/goliatone/go-avrogen/internal/config"
	"github.com/goliatone/go-avrogen/pkg/openapi"
	"github.com/goliatone/go-avrogen/pkg/serializer"
	"github.com/goliatone/go-avrogen/pkg/slogger"
)

func main() {
	source := flag.String("source", "", "input path: JSON sample, OpenAPI document, or schema file for -sample/-encode")
	output := flag.String("output", "", "output file (stdout if empty); output directory with -all")
	typeName := flag.String("type", "", "root type name (JSON) or component schema name (OpenAPI)")
	unified := flag.Bool("unified", false, "emit a unified document: one JSON array of standalone definitions")
	openapi := flag.Bool("openapi", false, "treat the source as an OpenAPI document (inferred from .yaml/.yml otherwise)")
	all := flag.Bool("all", false, "with -openapi: convert every component schema into <name>.avsc files under -output")
	namespace := flag.String("namespace", "", "namespace for named types")
	configPath := flag.String("config", "", "optional YAML config file; flags override its values")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	sample := flag.Bool("sample", false, "generate an Avro-JSON sample value for the schema at -source")
	encode := flag.String("encode", "", "encode the Avro-JSON value file into an object container at -output, using the schema at -source")
	flag.Parse()

	log := slogger.New(slogger.LevelFromString(*logLevel))

	if err := run(context.Background(), log, cliArgs{
		source:     *source,
		output:     *output,
		typeName:   *typeName,
		unified:    *unified,
		openapi:    *openapi,
		all:        *all,
		namespace:  *namespace,
		configPath: *configPath,
		logLevel:   *logLevel,
		sample:     *sample,
		encode:     *encode,
	}); err != nil {
		log.Error("conversion failed", "error", err)
		os.Exit(1)
	}
}

type cliArgs struct {
	source     string
	output     string
	typeName   string
	unified    bool
	openapi    bool
	all        bool
	namespace  string
	configPath string
	logLevel   string
	sample     bool
	encode     string
}

func run(ctx context.Context, log slogger.Logger, args cliArgs) error {
	if args.configPath != "" {
		cfg, err := config.Load(args.configPath)
		if err != nil {
			return err
		}
		if args.namespace == "" {
			args.namespace = cfg.Namespace
		}
		if args.typeName == "" {
			args.typeName = cfg.TypeName
		}
		if args.output == "" {
			args.output = cfg.Output
		}
		if !args.unified {
			args.unified = cfg.Unified
		}
		if cfg.LogLevel != "" && args.logLevel == "info" {
			log = slogger.New(slogger.LevelFromString(cfg.LogLevel))
		}
	}

	if args.source == "" {
		return fmt.Errorf("cli: -source is required")
	}

	switch {
	case args.sample:
		return runSample(log, args)
	case args.encode != "":
		return runEncode(log, args)
	default:
		return runConvert(ctx, log, args)
	}
}

func runConvert(ctx context.Context, log slogger.Logger, args cliArgs) error {
	options := []avrogen.Option{avrogen.WithUnified(args.unified)}
	if args.namespace != "" {
		options = append(options, avrogen.WithNamespace(args.namespace))
	}
	if args.typeName != "" {
		options = append(options, avrogen.WithTypeName(args.typeName))
	}
	converter := avrogen.New(options...)

	isOpenAPI := args.openapi || hasYAMLExtension(args.source)
	log.Debug("converting", "source", args.source, "openapi", isOpenAPI, "unified", args.unified)

	if isOpenAPI && args.all {
		return convertAll(ctx, log, converter, args)
	}

	var schema []byte
	var err error
	if isOpenAPI {
		if args.typeName == "" {
			return fmt.Errorf("cli: -type names the component schema to convert; pass -all to convert every component")
		}
		schema, err = converter.ConvertOpenAPISource(ctx, parseSource(args.source), args.typeName)
	} else {
		schema, err = converter.ConvertJSONFile(args.source)
	}
	if err != nil {
		return err
	}
	return writeOutput(args.output, schema)
}

func convertAll(ctx context.Context, log slogger.Logger, converter *avrogen.Converter, args cliArgs) error {
	if args.output == "" {
		return fmt.Errorf("cli: -all needs -output to name the target directory")
	}
	documents, err := converter.ConvertOpenAPIAllFromSource(ctx, parseSource(args.source))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(args.output, 0o755); err != nil {
		return fmt.Errorf("cli: create output directory: %w", err)
	}
	for name, schema := range documents {
		path := filepath.Join(args.output, name+".avsc")
		if err := os.WriteFile(path, schema, 0o644); err != nil {
			return fmt.Errorf("cli: write %s: %w", path, err)
		}
		log.Info("schema written", "component", name, "path", path)
	}
	fmt.Println(color.GreenString("%d schemas written to %s", len(documents), args.output))
	return nil
}

func runSample(log slogger.Logger, args cliArgs) error {
	schema, err := serializer.Load(args.source, args.typeName)
	if err != nil {
		return err
	}
	value, err := serializer.Sample(schema)
	if err != nil {
		return err
	}
	log.Debug("sample generated", "schema", args.source)
	return writeOutput(args.output, value)
}

func runEncode(log slogger.Logger, args cliArgs) error {
	if args.output == "" {
		return fmt.Errorf("cli: -encode needs -output to name the container file")
	}
	schema, err := serializer.Load(args.source, args.typeName)
	if err != nil {
		return err
	}
	value, err := os.ReadFile(args.encode)
	if err != nil {
		return fmt.Errorf("cli: read value %s: %w", args.encode, err)
	}
	if err := serializer.EncodeToFile(schema, value, args.output); err != nil {
		return err
	}
	log.Info("container written", "path", args.output)
	fmt.Println(color.GreenString("Encoded %s to %s", args.encode, args.output))
	return nil
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cli: write output: %w", err)
	}
	fmt.Println(color.GreenString("Schema written to %s", path))
	return nil
}

func parseSource(raw string) openapi.Source {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return openapi.SourceFromURL(raw)
	}
	return openapi.SourceFromFile(raw)
}

func hasYAMLExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
