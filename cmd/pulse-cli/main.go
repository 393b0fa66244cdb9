package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"agencypulse/internal/config"
	"agencypulse/internal/server"
	"agencypulse/pipeline"
	"agencypulse/sentiment"
	"agencypulse/store"
	"agencypulse/table"
)

type cliOptions struct {
	performancePath string
	interviewPath   string
	outputPath      string
	databasePath    string
	lexiconOnly     bool
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "pulse-cli: %v\n", err)
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "pulse-cli: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() (cliOptions, error) {
	var opts cliOptions
	flag.StringVar(&opts.performancePath, "performance", "", "Performance export (xlsx or csv)")
	flag.StringVar(&opts.interviewPath, "interview", "", "Interview export (xlsx or csv)")
	flag.StringVar(&opts.outputPath, "output", "", "CSV file to write the merged table (default: stdout)")
	flag.StringVar(&opts.databasePath, "db", "", "SQLite database to persist into (default: no persistence)")
	flag.BoolVar(&opts.lexiconOnly, "lexicon", false, "Skip the model and score with the lexicon analyzer")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s --performance FILE --interview FILE [options]\n\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	opts.performancePath = strings.TrimSpace(opts.performancePath)
	opts.interviewPath = strings.TrimSpace(opts.interviewPath)
	if opts.performancePath == "" || opts.interviewPath == "" {
		return opts, errors.New("--performance and --interview are required")
	}
	return opts, nil
}

func run(opts cliOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := server.NewLogger(cfg)

	perf, err := loadFile(opts.performancePath)
	if err != nil {
		return fmt.Errorf("loading %s: %w", opts.performancePath, err)
	}
	interview, err := loadFile(opts.interviewPath)
	if err != nil {
		return fmt.Errorf("loading %s: %w", opts.interviewPath, err)
	}

	var analyzer sentiment.Analyzer = sentiment.NewLexiconAnalyzer()
	if !opts.lexiconOnly && cfg.UseContextual() {
		contextual := sentiment.NewContextualAnalyzer(sentiment.ContextualConfig{
			OrtLibrary:    cfg.OrtLibraryPath,
			ModelPath:     cfg.ModelPath,
			TokenizerPath: cfg.TokenizerPath,
			MaxSeqLen:     cfg.MaxSeqLen,
		})
		if err := contextual.Load(); err != nil {
			log.WithError(err).Warn("model unavailable, using lexicon analyzer")
		} else {
			defer contextual.Close()
			analyzer = contextual
		}
	}

	var st *store.Store
	if opts.databasePath != "" {
		st, err = store.Open(opts.databasePath)
		if err != nil {
			return err
		}
		defer st.Close()
	}

	var pipelineStore pipeline.Store
	if st != nil {
		pipelineStore = st
	}
	svc := pipeline.NewService(analyzer, pipelineStore, log, cfg.SentimentBatchSize)
	result, err := svc.Run(context.Background(), perf, interview)
	if err != nil {
		return err
	}

	out := os.Stdout
	if opts.outputPath != "" {
		f, err := os.Create(opts.outputPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", opts.outputPath, err)
		}
		defer f.Close()
		out = f
	}
	if err := result.Table.WriteCSVFrench(out); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if st != nil {
		stored, err := st.Count(context.Background())
		if err != nil {
			return fmt.Errorf("counting stored records: %w", err)
		}
		log.WithField("stored", stored).Info("dataset persisted")
	}
	log.WithFields(logrus.Fields{
		"records":  result.Records,
		"warnings": len(result.Warnings),
		"duration": result.Duration.String(),
	}).Info("run complete")
	return nil
}

func loadFile(path string) (table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return table.Table{}, err
	}
	defer f.Close()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return table.LoadCSV(f, ';')
	case ".xlsx", ".xlsm":
		return table.LoadXLSX(f)
	default:
		return table.Table{}, fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}
}
