package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	giga "github.com/dogecoinfoundation/gigaledger/pkg"
)

/*
	These commands are convenience CLI tools that operate on a
	running GigaLedger by calling the admin REST API.
*/

type SubCommandArgs struct {
	RemoteAdminServer string
}

// DecodeTxn sends a hex-encoded wire transaction to a running
// GigaLedger and prints the decoded JSON form.
func DecodeTxn(hexStr string, c giga.Config, s SubCommandArgs) error {
	url, err := adminAPIURL(c, s, "/decode-txn")
	if err != nil {
		return err
	}
	return postURL(url, map[string]string{"hex": hexStr})
}

// SubmitTxn sends a hex-encoded wire transaction to a running
// GigaLedger to be validated and, if valid, applied to the pool.
// The response lists every violated rule if it is not.
func SubmitTxn(hexStr string, c giga.Config, s SubCommandArgs) error {
	url, err := adminAPIURL(c, s, "/decode-txn")
	if err != nil {
		return err
	}
	// decode first so we can post the txn JSON that /submit-txn expects
	txJSON, err := postURLResult(url, map[string]string{"hex": hexStr})
	if err != nil {
		return err
	}
	url, err = adminAPIURL(c, s, "/submit-txn")
	if err != nil {
		return err
	}
	return postRawURL(url, txJSON)
}

// work out the remote admin URL from args or config and return
// a complete path with our best guess
func adminAPIURL(c giga.Config, s SubCommandArgs, path string) (string, error) {
	base := ""
	if s.RemoteAdminServer != "" {
		base = s.RemoteAdminServer
	} else {
		host := c.WebAPI.AdminBind
		if host == "" {
			host = "localhost"
		}
		base = fmt.Sprintf("http://%s:%s/", host, c.WebAPI.AdminPort)
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}

	p, err := url.Parse(path)
	if err != nil {
		return "", err
	}

	return u.ResolveReference(p).String(), nil
}

// post a command to a remote GigaLedger admin API and print the response
func postURL(url string, body interface{}) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to serialize request body: %v", err)
	}
	res, err := postRawURLResult(url, jsonBody)
	if err != nil {
		return err
	}
	fmt.Println(string(res))
	return nil
}

func postURLResult(url string, body interface{}) ([]byte, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize request body: %v", err)
	}
	return postRawURLResult(url, jsonBody)
}

func postRawURL(url string, jsonBody []byte) error {
	res, err := postRawURLResult(url, jsonBody)
	if err != nil {
		return err
	}
	fmt.Println(string(res))
	return nil
}

func postRawURLResult(url string, jsonBody []byte) ([]byte, error) {
	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send HTTP request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected response status code: %d: %s", resp.StatusCode, body)
	}
	return body, nil
}
