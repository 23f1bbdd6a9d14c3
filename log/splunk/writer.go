// Copyright 2023 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// Package splunk forwards log lines to a Splunk HTTP Event Collector, for
// operators who want the staking ledger and header importer's structured
// logs indexed alongside their other infrastructure telemetry.
package splunk

import (
	"bytes"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Client posts batches of already-formatted events to a Splunk HEC endpoint.
type Client struct {
	http  *http.Client
	url   string
	token string
	index string
	host  string
	src   string
}

// NewClient returns a Client targeting url, authenticating with token.
func NewClient(httpClient *http.Client, url, token, index, host, src string) *Client {
	return &Client{http: httpClient, url: url, token: token, index: index, host: host, src: src}
}

func (c *Client) post(body []byte) error {
	req, err := http.NewRequest(http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Splunk "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("splunk: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// Writer batches incoming log lines and periodically (or once a threshold
// of pending lines is reached) flushes them to a Splunk Client. It is safe
// for concurrent use.
type Writer struct {
	Client         *Client
	FlushInterval  time.Duration
	FlushThreshold int

	once   sync.Once
	mu     sync.Mutex
	buf    bytes.Buffer
	count  int
	errc   chan error
	ticker *time.Ticker
}

func (w *Writer) init() {
	w.once.Do(func() {
		w.errc = make(chan error, 16)
		interval := w.FlushInterval
		if interval <= 0 {
			interval = time.Second
		}
		w.ticker = time.NewTicker(interval)
		go func() {
			for range w.ticker.C {
				w.flush()
			}
		}()
	})
}

// Write appends p as one Splunk event, flushing immediately if
// FlushThreshold pending events have accumulated.
func (w *Writer) Write(p []byte) (int, error) {
	w.init()
	w.mu.Lock()
	fmt.Fprintf(&w.buf, `{"event":%q}`+"\n", p)
	w.count++
	threshold := w.FlushThreshold
	reached := threshold > 0 && w.count >= threshold
	w.mu.Unlock()
	if reached {
		w.flush()
	}
	return len(p), nil
}

func (w *Writer) flush() {
	w.mu.Lock()
	if w.buf.Len() == 0 {
		w.mu.Unlock()
		return
	}
	body := make([]byte, w.buf.Len())
	copy(body, w.buf.Bytes())
	w.buf.Reset()
	w.count = 0
	w.mu.Unlock()

	if err := w.Client.post(body); err != nil {
		select {
		case w.errc <- err:
		default:
		}
	}
}

// Errors returns a channel on which flush failures are reported.
func (w *Writer) Errors() <-chan error {
	w.init()
	return w.errc
}
