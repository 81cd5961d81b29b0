package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nvkalinin/bangla-calendar/log"
)

func makeUrl(serverUrl string, path string) string {
	return strings.TrimRight(serverUrl, "/") + path
}

func readJsonError(body []byte) error {
	restErr := &struct {
		Msg string `json:"msg"`
	}{}
	if err := json.Unmarshal(body, restErr); err != nil {
		return fmt.Errorf("cannot read error msg: %w", err)
	}
	return errors.New(restErr.Msg)
}

// adminClient вызывает /api/admin/* от имени admin.
type adminClient struct {
	serverUrl string
	passwd    string
	timeout   time.Duration
}

// do выполняет запрос и проверяет статус. Тело успешного ответа закрывает вызывающий.
func (c *adminClient) do(method, path string, body io.Reader, contentType string) (*http.Response, error) {
	url := makeUrl(c.serverUrl, path)
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return nil, fmt.Errorf("cannot make request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.SetBasicAuth("admin", c.passwd)
	log.Printf("[DEBUG] admin request: %s %s", method, url)

	client := &http.Client{Timeout: c.timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cannot make request: %w", err)
	}

	if resp.StatusCode == http.StatusOK {
		return resp, nil
	}

	defer closeBody(resp)
	errBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("cannot read err response (status %d): %w", resp.StatusCode, err)
	}
	log.Printf("[DEBUG] admin error body: %s", errBody)

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("status %d: wrong admin password", resp.StatusCode)
	}
	return nil, fmt.Errorf("status %d: %w", resp.StatusCode, readJsonError(errBody))
}

func closeBody(resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		log.Printf("[WARN] cannot close response: %v", err)
	}
}
