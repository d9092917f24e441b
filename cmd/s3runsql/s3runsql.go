package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"github.com/studio1767/s3ingest/internal/config"
	"github.com/studio1767/s3ingest/internal/s3io"
	"github.com/studio1767/s3ingest/internal/sqlrun"
)

func main() {
	// process the command line
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(os.Stderr, "Settings come from the environment (or a .env file).\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "Error: incorrect arguments provided\n")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadSQL()
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

	store := s3io.NewClientFromConfig(awscfg, cfg.Bucket)
	queries := sqlrun.NewAthenaService(awscfg, cfg.Database, cfg.Workgroup, cfg.OutputS3)

	sq := sqlrun.NewSequencer(store, queries, cfg.Prefix,
		time.Duration(cfg.PollSeconds)*time.Second, cfg.MaxPolls)

	results, runErr := sq.Run(ctx)

	fmt.Printf("SQL Run Summary\n")
	for _, res := range results {
		fmt.Printf("- %9s: %s (%s)\n", res.State, res.Key, res.QueryID)
	}
	fmt.Printf(" scripts run: %d\n", len(results))
	fmt.Println()

	if runErr != nil {
		var qerr *sqlrun.ErrQueryFailed
		if errors.As(runErr, &qerr) {
			fmt.Fprintf(os.Stderr, "Error: %s failed: %s\n", qerr.Key, qerr.Reason)
		} else {
			fmt.Fprintln(os.Stderr, runErr)
		}
		os.Exit(1)
	}
}
