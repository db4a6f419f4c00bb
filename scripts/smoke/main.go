// Command smoke probes a running API instance and reports per-endpoint
// status. With credentials it also walks the authenticated read endpoints.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

type check struct {
	Method   string
	Path     string
	Expect   []int
	Authed   bool
	Critical bool
}

type result struct {
	Check    check
	Status   int
	Duration time.Duration
	Error    error
}

func main() {
	var (
		base     string
		email    string
		password string
		timeout  time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:8080", "API base URL")
	flag.StringVar(&email, "email", "", "Login email for authenticated checks")
	flag.StringVar(&password, "password", "", "Login password for authenticated checks")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	client := &http.Client{Timeout: timeout}

	checks := []check{
		{Method: http.MethodGet, Path: "/health", Expect: []int{http.StatusOK}, Critical: true},
		{Method: http.MethodGet, Path: "/ready", Expect: []int{http.StatusOK}, Critical: true},
		{Method: http.MethodGet, Path: "/metrics", Expect: []int{http.StatusOK}},
	}

	token := ""
	if email != "" {
		var err error
		token, err = login(client, base, email, password)
		if err != nil {
			fmt.Printf("login failed: %v\n", err)
			os.Exit(1)
		}
		checks = append(checks,
			check{Method: http.MethodGet, Path: "/api/v1/auth/me", Expect: []int{http.StatusOK}, Authed: true, Critical: true},
			check{Method: http.MethodGet, Path: "/api/v1/semesters", Expect: []int{http.StatusOK}, Authed: true},
			check{Method: http.MethodGet, Path: "/api/v1/semesters/current", Expect: []int{http.StatusOK, http.StatusNotFound}, Authed: true},
			check{Method: http.MethodGet, Path: "/api/v1/courses", Expect: []int{http.StatusOK}, Authed: true},
			check{Method: http.MethodGet, Path: "/api/v1/semester-registrations", Expect: []int{http.StatusOK}, Authed: true},
			check{Method: http.MethodGet, Path: "/api/v1/semester-registrations/ongoing", Expect: []int{http.StatusOK, http.StatusNotFound}, Authed: true},
			check{Method: http.MethodGet, Path: "/api/v1/offered-courses", Expect: []int{http.StatusOK}, Authed: true},
			check{Method: http.MethodGet, Path: "/api/v1/class-schedules", Expect: []int{http.StatusOK}, Authed: true},
		)
	}

	var (
		results []result
		failed  int
	)
	for _, ch := range checks {
		res := run(client, base, token, ch)
		if res.Error != nil || !expected(res.Status, ch.Expect) {
			if ch.Critical {
				failed++
			}
		}
		results = append(results, res)
	}

	printReport(results)
	if failed > 0 {
		os.Exit(1)
	}
}

func login(client *http.Client, base, email, password string) (string, error) {
	payload, _ := json.Marshal(map[string]string{"email": email, "password": password})
	resp, err := client.Post(strings.TrimRight(base, "/")+"/api/v1/auth/login", "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	var envelope struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", err
	}
	if envelope.Data.AccessToken == "" {
		return "", fmt.Errorf("no access token in response")
	}
	return envelope.Data.AccessToken, nil
}

func run(client *http.Client, base, token string, ch check) result {
	res := result{Check: ch}

	url := strings.TrimRight(base, "/") + ch.Path
	req, err := http.NewRequest(ch.Method, url, nil)
	if err != nil {
		res.Error = err
		return res
	}
	if ch.Authed {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := client.Do(req)
	res.Duration = time.Since(start)
	if err != nil {
		res.Error = err
		return res
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body) //nolint:errcheck

	res.Status = resp.StatusCode
	return res
}

func expected(status int, want []int) bool {
	for _, w := range want {
		if status == w {
			return true
		}
	}
	return false
}

func printReport(results []result) {
	fmt.Println("Smoke Report")
	fmt.Println("============")
	for _, res := range results {
		status := "OK"
		if res.Error != nil || !expected(res.Status, res.Check.Expect) {
			status = "FAIL"
		}
		fmt.Printf("[%s] %s %s\n", status, res.Check.Method, res.Check.Path)
		if res.Error != nil {
			fmt.Printf("  Error: %v\n", res.Error)
			continue
		}
		fmt.Printf("  Status: %d (%s)\n", res.Status, res.Duration)
	}
}
