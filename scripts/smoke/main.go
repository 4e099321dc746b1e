// Command smoke probes a running rosterhub deployment and verifies that the
// core endpoints answer with their expected status codes. Intended for use
// right after a deploy; exits non-zero when any critical probe fails.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"
)

type probe struct {
	Method   string `json:"method"`
	Path     string `json:"path"`
	Want     int    `json:"want"`
	Critical bool   `json:"critical"`
}

func defaultProbes() []probe {
	return []probe{
		{Method: http.MethodGet, Path: "/health", Want: http.StatusOK, Critical: true},
		{Method: http.MethodGet, Path: "/ready", Want: http.StatusOK, Critical: true},
		{Method: http.MethodGet, Path: "/api/v1/students", Want: http.StatusOK, Critical: true},
		{Method: http.MethodGet, Path: "/api/v1/courses", Want: http.StatusOK, Critical: true},
		{Method: http.MethodGet, Path: "/api/v1/dashboard", Want: http.StatusOK, Critical: true},
		{Method: http.MethodGet, Path: "/api/v1/email/availability?email=smoke@example.com", Want: http.StatusOK, Critical: false},
		{Method: http.MethodGet, Path: "/metrics", Want: http.StatusOK, Critical: false},
	}
}

func main() {
	var (
		base       string
		probesPath string
		timeout    time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:8080", "API base URL")
	flag.StringVar(&probesPath, "probes", "", "Optional path to a JSON probes file")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	probes := defaultProbes()
	if probesPath != "" {
		loaded, err := loadProbes(probesPath)
		if err != nil {
			log.Fatalf("failed to load probes: %v", err)
		}
		probes = loaded
	}

	client := &http.Client{Timeout: timeout}
	failures := 0
	for _, p := range probes {
		status, dur, err := run(client, base, p)
		switch {
		case err != nil:
			fmt.Printf("FAIL %-6s %-50s error: %v\n", p.Method, p.Path, err)
			if p.Critical {
				failures++
			}
		case status != p.Want:
			fmt.Printf("FAIL %-6s %-50s got %d, want %d (%s)\n", p.Method, p.Path, status, p.Want, dur)
			if p.Critical {
				failures++
			}
		default:
			fmt.Printf("ok   %-6s %-50s %d (%s)\n", p.Method, p.Path, status, dur)
		}
	}

	if failures > 0 {
		fmt.Printf("\n%d critical probe(s) failed\n", failures)
		os.Exit(1)
	}
	fmt.Println("\nall critical probes passed")
}

func run(client *http.Client, base string, p probe) (int, time.Duration, error) {
	req, err := http.NewRequest(p.Method, base+p.Path, nil)
	if err != nil {
		return 0, 0, err
	}
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return 0, time.Since(start), err
	}
	defer resp.Body.Close()
	return resp.StatusCode, time.Since(start), nil
}

func loadProbes(path string) ([]probe, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var probes []probe
	if err := json.Unmarshal(raw, &probes); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(probes) == 0 {
		return nil, fmt.Errorf("%s contains no probes", path)
	}
	return probes, nil
}
