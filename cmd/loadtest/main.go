// Command loadtest is a minimal concurrent-request harness illustrating
// the "load-testing harnesses" collaborator spec.md §1 names and scopes
// out of the core spec: plain goroutines hammering a running apiserver
// instance over net/http, reporting count/latency/error rate. It is not a
// benchmarking framework — just enough to sanity-check a running server
// under concurrent load.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

func main() {
	url := flag.String("url", "http://localhost:8080/health", "target URL")
	concurrency := flag.Int("c", 10, "number of concurrent workers")
	requests := flag.Int("n", 1000, "total number of requests")
	flag.Parse()

	var (
		ok, failed int64
		totalNanos int64
	)

	client := &http.Client{Timeout: 10 * time.Second}
	perWorker := *requests / *concurrency

	var wg sync.WaitGroup
	start := time.Now()
	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				reqStart := time.Now()
				resp, err := client.Get(*url)
				elapsed := time.Since(reqStart)
				atomic.AddInt64(&totalNanos, elapsed.Nanoseconds())

				if err != nil || resp.StatusCode >= 400 {
					atomic.AddInt64(&failed, 1)
					if resp != nil {
						resp.Body.Close()
					}
					continue
				}
				resp.Body.Close()
				atomic.AddInt64(&ok, 1)
			}
		}()
	}
	wg.Wait()
	wall := time.Since(start)

	total := ok + failed
	var avgLatency time.Duration
	if total > 0 {
		avgLatency = time.Duration(totalNanos / total)
	}

	fmt.Printf("requests: %d  ok: %d  failed: %d\n", total, ok, failed)
	fmt.Printf("wall time: %s  avg latency: %s  req/s: %.1f\n",
		wall, avgLatency, float64(total)/wall.Seconds())
}
