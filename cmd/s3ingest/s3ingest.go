package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	humanize "github.com/dustin/go-humanize"

	"github.com/studio1767/s3ingest/internal/config"
	"github.com/studio1767/s3ingest/internal/drive"
	"github.com/studio1767/s3ingest/internal/ingest"
	"github.com/studio1767/s3ingest/internal/route"
	"github.com/studio1767/s3ingest/internal/s3io"
	"github.com/studio1767/s3ingest/internal/state"
	"github.com/studio1767/s3ingest/internal/trigger"
)

type result struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

func main() {
	// process the command line
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [-n]\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(os.Stderr, "Settings come from the environment (or a .env file).\n")
		flag.PrintDefaults()
	}

	notrigger := flag.Bool("n", false, "transfer files but do not trigger the downstream job")
	flag.Parse()

	if flag.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "Error: incorrect arguments provided\n")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadIngest()
	if err != nil {
		log.Fatal(err)
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

	// the remote source
	creds, err := drive.CredentialsFromSecret(ctx, awscfg, cfg.SecretName)
	if err != nil {
		log.Fatal(err)
	}
	source, err := drive.NewSource(ctx, creds, cfg.DriveFolderID)
	if err != nil {
		log.Fatal(err)
	}

	// per-file state
	store := state.NewDynamoStore(dynamodb.NewFromConfig(awscfg), cfg.StateTable)

	// the destination
	dest := s3io.NewClientFromConfig(awscfg, cfg.TargetBucket)

	// routing rules
	rules := route.DefaultRules()
	if cfg.RouteRulesFile != "" {
		rfile, err := os.Open(cfg.RouteRulesFile)
		if err != nil {
			log.Fatal(err)
		}
		rules, err = route.LoadRules(rfile)
		rfile.Close()
		if err != nil {
			log.Fatal(err)
		}
	}

	sy := ingest.NewSyncer(source, store, dest, rules, cfg.Prefix, cfg.StagingDir)
	summary, runErr := sy.Run(ctx)

	fmt.Printf("Ingest Summary\n")
	fmt.Printf("       listed: %d\n", summary.Listed)
	fmt.Printf("    processed: %d\n", summary.Processed)
	fmt.Printf("      skipped: %d\n", summary.Skipped)
	fmt.Printf("     unmapped: %d\n", summary.Unmapped)
	fmt.Printf("     uploaded: %s bytes\n", humanize.Comma(summary.BytesUploaded))
	fmt.Println()

	if runErr != nil {
		emit(500, fmt.Sprintf("batch aborted after %d files: %s", summary.Processed, runErr))
		os.Exit(1)
	}

	if *notrigger {
		emit(200, fmt.Sprintf("processed %d files; downstream trigger disabled", summary.Processed))
		return
	}

	guard := trigger.NewGuard(trigger.NewGlueRunner(awscfg), cfg.GlueJobName, cfg.TargetBucket, cfg.Prefix)
	decision, err := guard.MaybeTrigger(ctx, summary.Processed, summary.Skipped, summary.Unmapped)
	if err != nil {
		emit(500, fmt.Sprintf("processed %d files but failed to start %s: %s", summary.Processed, cfg.GlueJobName, err))
		os.Exit(1)
	}

	switch {
	case decision.Started():
		fmt.Printf("Started %s run %s\n", cfg.GlueJobName, decision.RunID)
	case decision.Outcome == trigger.Blocked:
		fmt.Printf("Skipped %s: run %s still in flight\n", cfg.GlueJobName, decision.ExistingRunID)
	default:
		fmt.Printf("Skipped %s: %s\n", cfg.GlueJobName, decision.Reason)
	}

	emit(200, fmt.Sprintf("processed %d files; trigger: %s", summary.Processed, decision.Reason))
}

func emit(code int, body string) {
	out, _ := json.Marshal(result{StatusCode: code, Body: body})
	fmt.Println(string(out))
}
