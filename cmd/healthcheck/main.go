package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/tidwall/gjson"
)

func main() {
	// Create a client with a short timeout
	client := &http.Client{
		Timeout: 3 * time.Second,
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Create request with context
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", "http://localhost:"+port+"/health", nil)
	if err != nil {
		fmt.Printf("Failed to create request: %v\n", err)
		os.Exit(1)
	}

	// Set headers
	req.Header.Set("User-Agent", "healthcheck/1.0")

	// Make the request
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Health check request failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	// Check status code
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Health check failed with status: %d\n", resp.StatusCode)
		os.Exit(1)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil || !gjson.ValidBytes(body) {
		fmt.Printf("Failed to parse health response: %v\n", err)
		os.Exit(1)
	}

	// The envelope carries the status under data
	if status := gjson.GetBytes(body, "data.status").String(); status != "healthy" {
		fmt.Printf("Service is not healthy: %s\n", status)
		os.Exit(1)
	}

	// All good
	fmt.Println("Health check passed")
	os.Exit(0)
}
