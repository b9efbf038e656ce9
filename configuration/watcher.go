// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/bitmark-inc/logger"
	"github.com/fsnotify/fsnotify"
)

// Watcher - signals changes to a configuration file
//
// each channel holds at most one pending event, further events are
// discarded until it is read
type Watcher struct {
	sync.Mutex

	log      *logger.L
	watcher  *fsnotify.Watcher
	filePath string
	change   chan struct{}
	remove   chan struct{}
	done     chan struct{}
	finished chan struct{}
	started  bool
}

// NewWatcher - watcher for an existing file
func NewWatcher(fileName string) (*Watcher, error) {
	filePath, err := filepath.Abs(filepath.Clean(fileName))
	if nil != err {
		return nil, err
	}
	if _, err := os.Stat(filePath); nil != err {
		return nil, err
	}

	w, err := fsnotify.NewWatcher()
	if nil != err {
		return nil, err
	}

	return &Watcher{
		log:      logger.New("file-watcher"),
		watcher:  w,
		filePath: filePath,
		change:   make(chan struct{}, 1),
		remove:   make(chan struct{}, 1),
		done:     make(chan struct{}),
		finished: make(chan struct{}),
	}, nil
}

// Change - receives after the file is written
func (w *Watcher) Change() <-chan struct{} {
	return w.change
}

// Remove - receives once the file is removed or renamed
func (w *Watcher) Remove() <-chan struct{} {
	return w.remove
}

// Start - watch the file's directory so editors that replace the file
// by rename are seen
func (w *Watcher) Start() error {
	w.Lock()
	defer w.Unlock()

	if w.started {
		return nil
	}
	if err := w.watcher.Add(filepath.Dir(w.filePath)); nil != err {
		w.log.Errorf("watcher add error: %s", err)
		return err
	}
	w.started = true
	go w.loop()
	return nil
}

func (w *Watcher) loop() {
	defer close(w.finished)
	for {
		select {
		case <-w.done:
			return

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Errorf("watch error: %s", err)

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.filePath {
				continue
			}
			w.log.Debugf("file event: %s", event)

			switch {
			case 0 != event.Op&(fsnotify.Remove|fsnotify.Rename):
				w.log.Warnf("file: %s removed", w.filePath)
				send(w.remove)
			case 0 != event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Chmod):
				send(w.change)
			}
		}
	}
}

func send(ch chan<- struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// Close - stop watching
func (w *Watcher) Close() error {
	w.Lock()
	defer w.Unlock()

	select {
	case <-w.done:
		return nil
	default:
	}
	close(w.done)
	err := w.watcher.Close()
	if w.started {
		<-w.finished
	}
	return err
}
