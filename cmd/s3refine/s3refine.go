package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"github.com/studio1767/s3ingest/internal/config"
	"github.com/studio1767/s3ingest/internal/refine"
	"github.com/studio1767/s3ingest/internal/s3io"
)

type result struct {
	StatusCode int                      `json:"statusCode"`
	Body       string                   `json:"body"`
	Results    map[string]datasetResult `json:"results"`
}

type datasetResult struct {
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func main() {
	// process the command line
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [dataset ...]\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(os.Stderr, "Settings come from the environment (or a .env file).\n")
		fmt.Fprintf(os.Stderr, "Datasets on the command line override the DATASETS variable.\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.LoadRefine()
	if err != nil {
		log.Fatal(err)
	}
	if flag.NArg() > 0 {
		cfg.Datasets = flag.Args()
	}

	ctx := context.Background()

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.AwsProfile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.AwsProfile))
	}
	awscfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		log.Fatal(err)
	}

	raw := s3io.NewClientFromConfig(awscfg, cfg.RawBucket)
	refined := s3io.NewClientFromConfig(awscfg, cfg.RefinedBucket)

	runner := refine.NewRunner(raw, refined, refine.Options{
		RawPrefix:     cfg.RawPrefix,
		RefinedPrefix: cfg.RefinedPrefix,
		WriteMode:     cfg.WriteMode,
		Header:        cfg.Header,
		Delimiter:     cfg.Delimiter,
		SkipMissing:   cfg.SkipMissing,
		FailOnError:   cfg.FailOnError,
		Datasets:      cfg.Datasets,
	})

	report, runErr := runner.Run(ctx)

	fmt.Printf("Refine Summary\n")
	fmt.Printf("       processed: %d\n", len(report.Processed))
	fmt.Printf(" skipped missing: %d\n", len(report.SkippedMissing))
	fmt.Printf("          failed: %d\n", len(report.Failed))
	for _, res := range report.Failed {
		fmt.Printf("-   failed: %s: %s\n", res.Dataset, res.Detail)
	}
	fmt.Println()

	results := make(map[string]datasetResult)
	for name, res := range report.Results() {
		results[name] = datasetResult{
			Status: res.Status.String(),
			Detail: res.Detail,
		}
	}

	if runErr != nil {
		var dferr *refine.ErrDatasetsFailed
		if errors.As(runErr, &dferr) {
			emit(500, fmt.Sprintf("%d of %d datasets failed", len(dferr.Datasets), len(results)), results)
		} else {
			emit(500, runErr.Error(), results)
		}
		os.Exit(1)
	}

	emit(200, fmt.Sprintf("refined %d datasets", len(report.Processed)), results)
}

func emit(code int, body string, results map[string]datasetResult) {
	out, _ := json.Marshal(result{StatusCode: code, Body: body, Results: results})
	fmt.Println(string(out))
}
