// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bloom

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"

	"github.com/bitmark-inc/registerd/fault"
)

// snapshot header: magic | version | hashes | bits | inserted
const (
	magic           = "RSBF"
	snapshotVersion = 1
	headerSize      = 4 + 1 + 1 + 8 + 8
)

// WriteTo - write a snapshot of the filter
func (f *Filter) WriteTo(w io.Writer) (int64, error) {
	f.RLock()
	defer f.RUnlock()

	header := make([]byte, headerSize)
	copy(header, magic)
	header[4] = snapshotVersion
	header[5] = f.hashes
	binary.LittleEndian.PutUint64(header[6:], f.bits)
	binary.LittleEndian.PutUint64(header[14:], f.inserted)

	total := int64(0)
	n, err := w.Write(header)
	total += int64(n)
	if nil != err {
		return total, err
	}

	var word [8]byte
	for _, v := range f.words {
		binary.LittleEndian.PutUint64(word[:], v)
		n, err := w.Write(word[:])
		total += int64(n)
		if nil != err {
			return total, err
		}
	}
	return total, nil
}

// ReadFrom - replace the filter with a snapshot
func (f *Filter) ReadFrom(r io.Reader) (int64, error) {
	header := make([]byte, headerSize)
	total := int64(0)
	n, err := io.ReadFull(r, header)
	total += int64(n)
	if nil != err {
		return total, fault.InvalidBloomSnapshot
	}
	if magic != string(header[:4]) || snapshotVersion != header[4] {
		return total, fault.InvalidBloomSnapshot
	}

	hashes := header[5]
	bits := binary.LittleEndian.Uint64(header[6:])
	inserted := binary.LittleEndian.Uint64(header[14:])
	if 0 == hashes || hashes > MaxHashes || 0 == bits || bits > MaxBits {
		return total, fault.InvalidBloomSnapshot
	}

	// grow with the data actually read so a short file fails early
	count := (bits + 63) / 64
	words := make([]uint64, 0, minWords(count))
	var word [8]byte
	for i := uint64(0); i < count; i += 1 {
		n, err := io.ReadFull(r, word[:])
		total += int64(n)
		if nil != err {
			return total, fault.InvalidBloomSnapshot
		}
		words = append(words, binary.LittleEndian.Uint64(word[:]))
	}

	f.Lock()
	defer f.Unlock()

	f.bits = bits
	f.hashes = hashes
	f.inserted = inserted
	f.words = words
	return total, nil
}

func minWords(count uint64) uint64 {
	const chunk = 1 << 16
	if count < chunk {
		return count
	}
	return chunk
}

// Save - write a snapshot to a temporary file then rename over path
func (f *Filter) Save(path string) error {
	tmp := path + ".tmp"
	file, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if nil != err {
		return fault.NewIOError("create snapshot", err)
	}

	w := bufio.NewWriter(file)
	_, err = f.WriteTo(w)
	if nil == err {
		err = w.Flush()
	}
	if nil == err {
		err = file.Sync()
	}
	if cerr := file.Close(); nil == err {
		err = cerr
	}
	if nil != err {
		_ = os.Remove(tmp)
		return fault.NewIOError("write snapshot", err)
	}
	return fault.NewIOError("rename snapshot", os.Rename(tmp, filepath.Clean(path)))
}

// Load - read a filter saved by Save
func Load(path string) (*Filter, error) {
	file, err := os.Open(path)
	if nil != err {
		return nil, err
	}
	defer file.Close()

	f := &Filter{}
	if _, err := f.ReadFrom(bufio.NewReader(file)); nil != err {
		return nil, err
	}
	return f, nil
}
