package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"ascentra/internal/model"
	"ascentra/internal/service"
)

// One-shot client: log in, open a session on a study, send one analysis
// prompt and print the outcome.
func main() {
	server := flag.String("server", "http://localhost:8080", "API base URL")
	username := flag.String("username", envOr("ANALYST_USERNAME", "analyst"), "analyst username")
	password := flag.String("password", envOr("ANALYST_PASSWORD", "password123"), "analyst password")
	studyID := flag.String("study", "", "study id to analyse")
	prompt := flag.String("prompt", "", "analysis prompt")
	flag.Parse()

	if *studyID == "" || *prompt == "" {
		log.Fatal("both -study and -prompt are required")
	}

	client := &http.Client{Timeout: 30 * time.Second}

	var login model.LoginResponse
	if err := post(client, *server+"/v1/auth/login", "",
		model.LoginRequest{Username: *username, Password: *password}, &login); err != nil {
		log.Fatalf("login failed: %v", err)
	}

	var session model.Session
	if err := post(client, *server+"/v1/sessions", login.Token,
		map[string]string{"study_id": *studyID}, &session); err != nil {
		log.Fatalf("create session failed: %v", err)
	}

	var answer struct {
		Spec    *model.CutSpec      `json:"spec"`
		Outcome *service.RunOutcome `json:"outcome"`
	}
	if err := post(client, *server+"/v1/sessions/"+session.ID+"/ask", login.Token,
		map[string]string{"prompt": *prompt}, &answer); err != nil {
		log.Fatalf("ask failed: %v", err)
	}

	out, err := json.MarshalIndent(answer, "", "  ")
	if err != nil {
		log.Fatalf("encode outcome: %v", err)
	}
	fmt.Println(string(out))
}

func post(client *http.Client, url, token string, body, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequest("POST", url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// Rejected specs come back 422 with a decodable body; only treat other
	// non-2xx statuses as hard failures.
	if resp.StatusCode >= 400 && resp.StatusCode != http.StatusUnprocessableEntity {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s: %s", resp.Status, apiErr.Error)
		}
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
