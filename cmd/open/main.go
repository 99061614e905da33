// Command open asks a running ide-browser host to show a URL in its browser
// tool window.
//
// Usage:
//
//	open [-endpoint URL] [-retries N] [url]
//
// The endpoint defaults to IDE_BROWSER_ENDPOINT, the URL to https://google.com.
// The exit status is 0 only when the host accepted the request.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/client"
	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/endpoint"
)

func main() {
	opts := client.DefaultOptions()

	base := flag.String("endpoint", "", "Endpoint base URL (defaults to $"+endpoint.EnvVar+")")
	flag.IntVar(&opts.RetryMax, "retries", opts.RetryMax, "Retries while the host answers 503")
	flag.DurationVar(&opts.Timeout, "timeout", opts.Timeout, "Per-request timeout")
	flag.Parse()

	var (
		c   *client.Client
		err error
	)
	if *base != "" {
		c = client.New(*base, opts)
	} else if c, err = client.FromEnv(opts); err != nil {
		log.Fatalf("No endpoint: %v (is this process running under the host?)", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(opts.RetryMax+1)*opts.Timeout)
	defer cancel()

	resp, err := c.Open(ctx, flag.Arg(0))
	if err != nil {
		log.Fatalf("Request failed: %v", err)
	}

	if !resp.Success {
		fmt.Fprintf(os.Stderr, "%d %s: %s\n", resp.Status, http.StatusText(resp.Status), resp.Error)
		os.Exit(1)
	}
	fmt.Printf("%d %s %s (scheduled=%t, request=%s)\n",
		resp.Status, http.StatusText(resp.Status), resp.URL, resp.Scheduled, resp.RequestID)
}
