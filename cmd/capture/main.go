package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ravshanbekov/joblens/internal/content"
	"github.com/ravshanbekov/joblens/internal/extract"
	"github.com/ravshanbekov/joblens/internal/httpx"
)

// One-shot extraction: fetch a page politely, classify it, run the
// strategy registry, print the outcome as JSON.
func main() {
	userAgent := flag.String("ua", "joblens-bot/1.0", "User agent")
	timeout := flag.Duration("timeout", 30*time.Second, "Fetch timeout")
	force := flag.Bool("force", false, "Extract even when the classifier rejects the page")
	flag.Parse()

	rawURL := flag.Arg(0)
	if rawURL == "" {
		log.Fatal("usage: capture [flags] <url>")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client := httpx.NewPoliteClient(*userAgent)
	resp, err := client.Get(ctx, rawURL)
	if err != nil {
		log.Fatalf("Fetch failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		log.Fatalf("Fetch failed: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		log.Fatalf("Parse failed: %v", err)
	}

	decision := content.Classify(rawURL, doc)
	if !decision.JobPage && !*force {
		log.Fatalf("Not a job page (%s, score %d); use -force to extract anyway", decision.Reason, decision.Score)
	}

	outcome := extract.DefaultRegistry().Extract(rawURL, doc)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(outcome); err != nil {
		log.Fatalf("Encode failed: %v", err)
	}
	if !outcome.Success {
		os.Exit(1)
	}
}
