package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/neurotrain/transcribe/internal/client"
	"github.com/neurotrain/transcribe/internal/config"
	"github.com/neurotrain/transcribe/internal/watcher"
)

func main() {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded .env file")
	}

	cfg := config.LoadClient()

	baseURL := flag.String("base", cfg.TranscribeURL, "transcribe API base URL")
	watchDir := flag.String("watch", "", "watch a directory instead of uploading files")
	flag.Parse()

	c := client.NewClient(client.Config{BaseURL: *baseURL})

	if *watchDir != "" {
		runWatch(c, *watchDir)
		return
	}

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: transcribe [-base URL] file.ogg [file2.ogg ...]")
		fmt.Fprintln(os.Stderr, "       transcribe [-base URL] -watch DIR")
		os.Exit(2)
	}

	// Fire all uploads at once; each channel delivers exactly one outcome.
	outcomes := make([]<-chan client.Outcome, flag.NArg())
	for i, path := range flag.Args() {
		outcomes[i] = c.TranscribeAsync(path)
	}

	failed := false
	for i, ch := range outcomes {
		outcome := <-ch
		if outcome.Err != nil {
			log.Printf("%s: %v", flag.Arg(i), outcome.Err)
			failed = true
			continue
		}
		printResult(flag.Arg(i), outcome.Result)
	}
	if failed {
		os.Exit(1)
	}
}

func printResult(path string, result *client.TranscriptionResult) {
	fmt.Printf("== %s\n", path)
	fmt.Printf("language:   %s\n", result.Language)
	if result.Duration != nil {
		fmt.Printf("duration:   %.1fs\n", *result.Duration)
	}
	fmt.Printf("tldr:       %s\n", result.TLDR)
	fmt.Printf("transcript: %s\n", result.Transcript)
}

func runWatch(c *client.Client, dir string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := watcher.New(dir, c).Run(ctx); err != nil && err != context.Canceled {
		log.Fatalf("Watcher stopped: %v", err)
	}
	log.Println("Watcher stopped")
}
