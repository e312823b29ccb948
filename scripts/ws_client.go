// Package main runs a demo client: it opens the solve event stream, fires
// an optimize call, and prints the events it receives.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/gorilla/websocket"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	base := fmt.Sprintf("http://localhost:%s", port)

	// Connect to the stream first so the solve event is not missed
	u := url.URL{Scheme: "ws", Host: "localhost:" + port, Path: "/v1/solves/stream"}
	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer func() { _ = c.Close() }()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var evt struct {
				Type string         `json:"type"`
				Data map[string]any `json:"data"`
			}
			if err := c.ReadJSON(&evt); err != nil {
				log.Printf("read: %v", err)
				return
			}
			log.Printf("WS <- %s: %v", evt.Type, evt.Data)
		}
	}()

	// Fire a simple optimize call
	body := []byte(`{"waypoints":[[28.61,77.20],[28.62,77.21],[28.63,77.22]]}`)
	req, _ := http.NewRequest(http.MethodPost, base+"/v1/optimize/simple", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	var res map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		log.Fatal(err)
	}
	log.Printf("solve %v status=%v distance=%v km", res["solve_id"], res["solver_status"], res["total_distance_km"])

	select {
	case <-time.After(2 * time.Second):
	case <-done:
	}
}
