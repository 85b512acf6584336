package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"ticketbooker/internal/shared/config"
	"ticketbooker/internal/shared/constants"

	"github.com/redis/go-redis/v9"
)

// cache_check hits the read-through endpoints of a running server twice and
// reports whether the expected Redis keys were populated between the calls.

type CheckResult struct {
	Endpoint     string
	Key          string
	FirstTime    time.Duration
	SecondTime   time.Duration
	CachedBefore bool
	CachedAfter  bool
	TTL          time.Duration
	Err          error
}

func main() {
	cfg := config.Load()

	baseURL := flag.String("base", fmt.Sprintf("http://localhost:%s%s", cfg.Port, cfg.GetAPIBasePath()), "API base URL")
	eventID := flag.String("event", "", "event id to check (required)")
	flag.Parse()

	if *eventID == "" {
		log.Fatal("-event is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Redis connection failed: %v", err)
	}
	fmt.Println("Redis connection: OK")

	checks := []struct {
		endpoint string
		key      string
	}{
		{"/events/" + *eventID + "/stats", constants.BuildEventStatsKey(*eventID)},
	}

	httpClient := &http.Client{Timeout: 10 * time.Second}
	failed := 0
	for _, c := range checks {
		res := check(ctx, httpClient, client, *baseURL, c.endpoint, c.key)
		report(res)
		if res.Err != nil || !res.CachedAfter {
			failed++
		}
	}

	if failed > 0 {
		log.Fatalf("%d cache check(s) failed", failed)
	}
	fmt.Println("All cache checks passed")
}

func check(ctx context.Context, httpClient *http.Client, rdb *redis.Client, baseURL, endpoint, key string) CheckResult {
	res := CheckResult{Endpoint: endpoint, Key: key}

	// Start from a cold key so the first request is a miss
	if err := rdb.Del(ctx, key).Err(); err != nil {
		res.Err = fmt.Errorf("clear key: %w", err)
		return res
	}

	if res.FirstTime, res.Err = get(ctx, httpClient, baseURL+endpoint); res.Err != nil {
		return res
	}
	n, err := rdb.Exists(ctx, key).Result()
	if err != nil {
		res.Err = fmt.Errorf("exists: %w", err)
		return res
	}
	res.CachedBefore = n > 0

	if res.SecondTime, res.Err = get(ctx, httpClient, baseURL+endpoint); res.Err != nil {
		return res
	}
	ttl, err := rdb.TTL(ctx, key).Result()
	if err != nil {
		res.Err = fmt.Errorf("ttl: %w", err)
		return res
	}
	res.TTL = ttl
	res.CachedAfter = ttl > 0
	return res
}

func get(ctx context.Context, client *http.Client, url string) (time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	elapsed := time.Since(start)

	if resp.StatusCode >= 400 {
		return elapsed, fmt.Errorf("GET %s: HTTP %d", url, resp.StatusCode)
	}
	return elapsed, nil
}

func report(r CheckResult) {
	status := "OK"
	if r.Err != nil || !r.CachedAfter {
		status = "FAIL"
	}
	fmt.Printf("\n[%s] %s\n", status, r.Endpoint)
	fmt.Printf("   key:      %s\n", r.Key)
	if r.Err != nil {
		fmt.Printf("   error:    %v\n", r.Err)
		return
	}
	fmt.Printf("   miss:     %v (populated: %t)\n", r.FirstTime, r.CachedBefore)
	fmt.Printf("   hit:      %v (ttl left: %v)\n", r.SecondTime, r.TTL)
}
