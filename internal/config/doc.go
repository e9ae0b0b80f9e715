// Package config provides configuration parsing for storefront.
//
// Configuration is read from an optional storefront.json in the working
// directory, then overridden by environment variables:
//
//	BASE_URL              base path the application is served under
//	STOREFRONT_PORT       listen port
//	STOREFRONT_HISTORY    history mode, "web" or "hash"
//
// # Configuration File Structure
//
//	{
//	  "name": "storefront",
//	  "host": "localhost",
//	  "port": 3000,
//	  "baseURL": "/",
//	  "history": "web",
//	  "mountID": "app",
//	  "title": "Storefront",
//	  "metrics": {
//	    "enabled": true,
//	    "path": "/metrics"
//	  },
//	  "export": {
//	    "dir": "dist",
//	    "productIDs": ["1", "2", "42"],
//	    "s3": {
//	      "bucket": "storefront-site",
//	      "prefix": "v1",
//	      "region": "eu-west-1"
//	    }
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Listening on", cfg.Address())
package config
