// Package export prerenders the storefront into static documents.
//
// Every static route and every parameterized route, for the parameter values
// supplied per route name, is rendered to <path>/index.html. A document for
// the not-found fallback is written to 404.html. Output goes to a Sink: a
// local directory or an S3 bucket.
//
//	exp := export.New(app, table, export.WithParams("ProductDetails",
//	    map[string]string{"id": "1"},
//	    map[string]string{"id": "42"},
//	))
//	report, err := exp.Run(ctx, export.NewDirSink("dist"))
package export
