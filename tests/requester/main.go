package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/cookiejar"
	"time"
)

const baseURL = "http://localhost:8080"

// Drives the full shopper flow against a running instance: browse, fill a
// cart, check out, pay. Each loop is a fresh session.
func main() {
	for {
		if err := runSession(); err != nil {
			fmt.Println("session failed:", err)
		}
		time.Sleep(500 * time.Millisecond)
	}
}

func runSession() error {
	jar, _ := cookiejar.New(nil)
	client := &http.Client{Jar: jar, Timeout: 10 * time.Second}

	var products []struct {
		ID string `json:"id"`
	}
	if err := getJSON(client, "/products", &products); err != nil {
		return err
	}
	if len(products) == 0 {
		return fmt.Errorf("no products")
	}

	for range 1 + rand.Intn(3) {
		p := products[rand.Intn(len(products))]
		body := map[string]any{"product_id": p.ID}
		if err := postJSON(client, "/cart/items", body, nil); err != nil {
			return err
		}
	}

	if err := postJSON(client, "/checkout", nil, nil); err != nil {
		return err
	}

	address := map[string]any{
		"line_1":   "16/1 Station Road",
		"city":     "Kadawatha",
		"state":    "Western",
		"zip_code": "11850",
		"phone":    "+94702700100",
	}
	var submitted struct {
		Order struct {
			ID string `json:"id"`
		} `json:"order"`
	}
	if err := postJSON(client, "/checkout/address", address, &submitted); err != nil {
		return err
	}

	if err := postJSON(client, "/checkout/payment", nil, nil); err != nil {
		return err
	}

	fmt.Println("order completed:", submitted.Order.ID)
	return nil
}

func getJSON(client *http.Client, path string, out any) error {
	resp, err := client.Get(baseURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	fmt.Println("GET", path, "->", resp.Status)
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func postJSON(client *http.Client, path string, body, out any) error {
	data, _ := json.Marshal(body)
	req, err := http.NewRequest(http.MethodPost, baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer smoke-test-token")
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	fmt.Println("POST", path, "->", resp.Status)
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s returned %s", path, resp.Status)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
