package main

import (
	"github.com/spf13/cobra"

	"github.com/vango-dev/storefront/app/routes"
	"github.com/vango-dev/storefront/internal/config"
	"github.com/vango-dev/storefront/pkg/export"
)

type exportOptions struct {
	dir      string
	bucket   string
	prefix   string
	region   string
	endpoint string
	products []string
}

func exportCmd(global *globalOptions) *cobra.Command {
	opts := &exportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Prerender the site to static HTML",
		Long: `Prerender every page to static HTML.

The home page, one product page per product id and 404.html are
written to a directory, or uploaded to S3 when a bucket is set.
S3 credentials are read from AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY
and AWS_SESSION_TOKEN.

Examples:
  storefront export --dir=dist --product=1 --product=42
  storefront export --s3-bucket=my-site --region=eu-west-1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, global, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.dir, "dir", "o", "", "Output directory (default from storefront.json)")
	cmd.Flags().StringVar(&opts.bucket, "s3-bucket", "", "Upload to this S3 bucket instead of a directory")
	cmd.Flags().StringVar(&opts.prefix, "s3-prefix", "", "Key prefix inside the bucket")
	cmd.Flags().StringVar(&opts.region, "region", "", "AWS region")
	cmd.Flags().StringVar(&opts.endpoint, "endpoint", "", "S3 endpoint override (MinIO, LocalStack)")
	cmd.Flags().StringSliceVar(&opts.products, "product", nil, "Product id to prerender (repeatable)")

	return cmd
}

func (o *exportOptions) apply(fc *config.Config) {
	if o.dir != "" {
		fc.Export.Dir = o.dir
	}
	if o.bucket != "" {
		fc.Export.S3.Bucket = o.bucket
	}
	if o.prefix != "" {
		fc.Export.S3.Prefix = o.prefix
	}
	if o.region != "" {
		fc.Export.S3.Region = o.region
	}
	if o.endpoint != "" {
		fc.Export.S3.Endpoint = o.endpoint
	}
	if len(o.products) > 0 {
		fc.Export.ProductIDs = o.products
	}
}

// newSink returns the export target described by the configuration.
func newSink(fc *config.Config) (export.Sink, error) {
	if fc.ExportToS3() {
		client := export.NewS3Client(export.S3Options{
			Region:   fc.Export.S3.Region,
			Endpoint: fc.Export.S3.Endpoint,
		})
		return export.NewS3Sink(client, fc.Export.S3.Bucket, fc.Export.S3.Prefix)
	}
	return export.NewDirSink(fc.Export.Dir), nil
}

func runExport(cmd *cobra.Command, global *globalOptions, opts *exportOptions) error {
	logger := newLogger(cmd.ErrOrStderr(), global.verbose)
	fc, err := loadConfig(global.configDir, logger)
	if err != nil {
		return err
	}
	opts.apply(fc)

	sink, err := newSink(fc)
	if err != nil {
		return err
	}

	app, err := bootstrap(fc, logger, nil)
	if err != nil {
		return err
	}

	params := make([]map[string]string, 0, len(fc.Export.ProductIDs))
	for _, id := range fc.Export.ProductIDs {
		params = append(params, map[string]string{"id": id})
	}

	exp := export.New(app, app.Router().Table(),
		export.WithLogger(logger),
		export.WithParams(routes.ProductDetails, params...),
	)
	report, err := exp.Run(cmd.Context(), sink)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, key := range report.Pages {
		info(out, "%s", key)
	}
	for _, pattern := range report.Skipped {
		warn(out, "Skipped %s: no parameter values (use --product)", pattern)
	}
	target := fc.Export.Dir
	if fc.ExportToS3() {
		target = "s3://" + fc.Export.S3.Bucket + "/" + fc.Export.S3.Prefix
	}
	success(out, "Exported %d pages to %s in %s", len(report.Pages), target, report.Duration.Round(1000000))
	return nil
}
