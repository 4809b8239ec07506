package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	genforms "github.com/goliatone/go-genforms"
	"github.com/goliatone/go-genforms/pkg/feature"
	"github.com/goliatone/go-genforms/pkg/prompt"
	"github.com/goliatone/go-genforms/pkg/result"
	"github.com/goliatone/go-genforms/pkg/submission"
	"github.com/goliatone/go-genforms/pkg/transport"
)

func main() {
	baseURL := flag.String("base-url", "http://localhost:8000/api", "backend API root")
	featureID := flag.String("feature", "", "feature to run (see -list)")
	list := flag.Bool("list", false, "list available features and exit")
	dataPath := flag.String("data", "", "JSON file with field values; skips the interactive prompts")
	filePath := flag.String("file", "", "path for the feature's file field, if it has one")
	output := flag.String("output", "", "directory to save the result into (stdout if empty)")
	copyResult := flag.Bool("copy", false, "copy the primary result text to the clipboard")
	token := flag.String("token", "", "bearer token for authenticated calls")
	login := flag.Bool("login", false, "prompt for credentials and exchange them for a token first")
	specLocation := flag.String("openapi", "", "OpenAPI document path or URL to derive features from instead of the built-ins")
	logPath := flag.String("log", "", "diagnostic log file (disabled if empty)")
	verbose := flag.Bool("verbose", false, "log at debug level")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := newLogger(*logPath, *verbose)
	defer logger.Sync()

	registry, err := loadRegistry(ctx, *specLocation)
	if err != nil {
		log.Fatalf("load features: %v", err)
	}

	if *list {
		for _, ref := range registry.Refs() {
			fmt.Printf("%-12s %s\n", ref.ID, ref.Title)
		}
		return
	}
	if *featureID == "" {
		log.Fatal("missing -feature (use -list to see what is available)")
	}

	desc, err := registry.Get(*featureID)
	if err != nil {
		log.Fatalf("unknown feature: %v", err)
	}

	options := []transport.Option{transport.WithLogger(logger)}
	if *token != "" {
		options = append(options, transport.WithTokenSource(transport.StaticToken(*token)))
	}
	client, err := genforms.NewClient(*baseURL, options...)
	if err != nil {
		log.Fatalf("configure client: %v", err)
	}

	driver := prompt.NewSurveyDriver()
	if *login {
		sessionToken, err := promptLogin(ctx, driver, client)
		if err != nil {
			log.Fatalf("login: %v", err)
		}
		client, err = genforms.NewClient(*baseURL,
			transport.WithLogger(logger),
			transport.WithTokenSource(transport.StaticToken(sessionToken)),
		)
		if err != nil {
			log.Fatalf("configure client: %v", err)
		}
	}

	engine, err := genforms.NewEngine(client, genforms.WithLogger(logger))
	if err != nil {
		log.Fatalf("configure engine: %v", err)
	}

	view, err := run(ctx, engine, driver, desc, *dataPath, *filePath)
	if err != nil {
		log.Fatalf("%s: %v", desc.ID, err)
	}

	if err := emit(view, *output, *copyResult); err != nil {
		log.Fatalf("write result: %v", err)
	}
}

func run(ctx context.Context, engine *genforms.Engine, driver prompt.Driver, desc feature.Descriptor, dataPath, filePath string) (result.View, error) {
	if desc.Method == "GET" {
		return engine.Fetch(ctx, desc)
	}

	state := genforms.NewState(desc)
	if dataPath != "" {
		if err := applyData(state, dataPath); err != nil {
			return result.View{}, err
		}
	} else if err := prompt.Fill(ctx, driver, state); err != nil {
		return result.View{}, err
	}
	if filePath != "" {
		if err := attachFile(state, filePath); err != nil {
			return result.View{}, err
		}
	}

	view, err := engine.Submit(ctx, state)
	if err != nil {
		if msg := state.LastError(); msg != "" {
			return result.View{}, fmt.Errorf("%s", msg)
		}
		return result.View{}, err
	}
	return view, nil
}

// applyData loads a JSON object keyed by internal field name and pushes it
// through the same setters the interactive path uses.
func applyData(state *submission.State, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read data file: %w", err)
	}
	values := make(map[string]any)
	if err := json.Unmarshal(raw, &values); err != nil {
		return fmt.Errorf("parse data file: %w", err)
	}
	return state.Apply(values)
}

func attachFile(state *submission.State, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file field: %w", err)
	}
	state.Attach(&submission.File{Name: filepath.Base(path), Content: content})
	return nil
}

func promptLogin(ctx context.Context, driver prompt.Driver, client *genforms.Client) (string, error) {
	username, err := driver.Input(ctx, prompt.InputConfig{Message: "Username"})
	if err != nil {
		return "", err
	}
	password, err := driver.Password(ctx, prompt.InputConfig{Message: "Password"})
	if err != nil {
		return "", err
	}
	return client.Login(ctx, transport.Credentials{Username: username, Password: password})
}

func emit(view result.View, outputDir string, copyResult bool) error {
	renderer, err := result.NewRenderer()
	if err != nil {
		return err
	}
	text, err := renderer.Text(view)
	if err != nil {
		return err
	}

	if outputDir != "" {
		path, err := view.Save(outputDir)
		if err != nil {
			return err
		}
		fmt.Printf("Result written to %s\n", path)
	} else {
		fmt.Println(text)
	}
	if copyResult {
		if err := view.Copy(); err != nil {
			return err
		}
	}
	return nil
}

func loadRegistry(ctx context.Context, specLocation string) (*genforms.Registry, error) {
	if specLocation == "" {
		return genforms.DefaultRegistry()
	}
	return genforms.DeriveRegistry(ctx, specLocation)
}

// newLogger builds the diagnostic logger. Without a log file everything is
// discarded; the CLI's own output stays on stdout either way.
func newLogger(path string, verbose bool) *zap.Logger {
	if path == "" {
		return zap.NewNop()
	}
	sink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     14,
	})
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	return zap.New(zapcore.NewCore(encoder, sink, level))
}
