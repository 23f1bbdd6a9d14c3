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

package log

import (
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// AsyncFileWriter buffers log lines on a channel and flushes them to a
// rotated log file on a background goroutine, so that a slow or full disk
// never blocks the caller that writes the line.
type AsyncFileWriter struct {
	queue chan []byte
	done  chan struct{}
	wg    sync.WaitGroup

	logger *lumberjack.Logger
}

// NewAsyncFileWriter creates a writer targeting path, rotating once the
// file exceeds maxSizeMB megabytes, with a queue capacity of 1024 pending
// lines.
func NewAsyncFileWriter(path string, maxSizeMB int) *AsyncFileWriter {
	return &AsyncFileWriter{
		queue: make(chan []byte, 1024),
		done:  make(chan struct{}),
		logger: &lumberjack.Logger{
			Filename: path,
			MaxSize:  maxSizeMB,
		},
	}
}

// Start launches the background flush goroutine.
func (w *AsyncFileWriter) Start() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case line := <-w.queue:
				w.logger.Write(line)
			case <-w.done:
				for {
					select {
					case line := <-w.queue:
						w.logger.Write(line)
					default:
						return
					}
				}
			}
		}
	}()
}

// Write enqueues p for asynchronous writing. It never blocks on I/O.
func (w *AsyncFileWriter) Write(p []byte) (int, error) {
	cp := make([]byte, len(p))
	copy(cp, p)
	select {
	case w.queue <- cp:
	default:
		// queue full: drop rather than block the producer.
	}
	return len(p), nil
}

// Stop drains the queue and closes the underlying file.
func (w *AsyncFileWriter) Stop() error {
	close(w.done)
	w.wg.Wait()
	return w.logger.Close()
}
