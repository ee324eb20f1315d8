package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

var ErrHookFailed = errors.New("hook failed")

// Web posts values of T as JSON.
type Web[T any] struct {
	// URLs to post to.
	//
	// Every URL gets the same payload. Posting stops at the first URL not returning 2xx.
	URLs []*url.URL

	// Client sending requests. nil means http.DefaultClient.
	Client *http.Client
}

func (w Web[T]) client() *http.Client {
	if w.Client == nil {
		return http.DefaultClient
	}
	return w.Client
}

func (w Web[T]) post(ctx context.Context, url string, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client().Do(req)
	if err != nil {
		return errors.Join(err, ErrHookFailed)
	}
	defer resp.Body.Close()

	if 200 <= resp.StatusCode && resp.StatusCode < 300 {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	ctype := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(ctype, "text/") && !(strings.HasPrefix(ctype, "application/") && strings.Contains(ctype, "json")) {
		return fmt.Errorf(
			"%w (%s %d, Content-Type: %s)",
			ErrHookFailed, url, resp.StatusCode, ctype,
		)
	}

	body, _ := io.ReadAll(resp.Body)
	return fmt.Errorf(
		"%w (%s %d, Content-Type: %s): %s",
		ErrHookFailed, url, resp.StatusCode, ctype, string(body),
	)
}

// Send posts value to every URL.
func (w Web[T]) Send(ctx context.Context, value T) error {
	if len(w.URLs) == 0 {
		return nil
	}

	buf, err := json.Marshal(value)
	if err != nil {
		return err
	}
	for _, u := range w.URLs {
		if err := w.post(ctx, u.String(), buf); err != nil {
			return err
		}
	}
	return nil
}
