/*
 * Cherry - An OpenFlow Controller
 *
 * Copyright (C) 2015 Samjung Data Service, Inc. All rights reserved.
 * Kitae Kim <superkkt@sds.co.kr>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation; either version 2 of the License, or
 * any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License along
 * with this program; if not, write to the Free Software Foundation, Inc.,
 * 51 Franklin Street, Fifth Floor, Boston, MA 02110-1301 USA.
 */

package transceiver

import (
	"bufio"
	"encoding"
	"io"
	"sync"

	"github.com/op/go-logging"
	"github.com/pkg/errors"
	"github.com/superkkt/ofcore/openflow"
)

var logger = logging.MustGetLogger("transceiver")

const maxMessageLength = 0xFFFF

// Stream reads and writes OpenFlow messages framed by the length of their
// header.
type Stream struct {
	reader struct {
		mutex sync.Mutex
		// Peek()'s result slice points to the internal buffer of rd, which
		// is overwritten by subsequent reads.
		rd *bufio.Reader
	}

	writer struct {
		mutex sync.Mutex
		wr    io.Writer
	}
}

// NewStream returns a stream that reads messages from r and writes them to w.
// Either of them may be nil if the stream is used in one direction only. The
// buffer holds at least one message of the maximum length.
func NewStream(r io.Reader, w io.Writer, bufSize int) *Stream {
	if bufSize < maxMessageLength {
		bufSize = maxMessageLength
	}

	c := new(Stream)
	if r != nil {
		c.reader.rd = bufio.NewReaderSize(r, bufSize)
	}
	c.writer.wr = w

	return c
}

// Peek returns a copy of the next n bytes without consuming them.
func (r *Stream) Peek(n int) ([]byte, error) {
	r.reader.mutex.Lock()
	defer r.reader.mutex.Unlock()

	if n <= 0 {
		return []byte{}, nil
	}

	v, err := r.reader.rd.Peek(n)
	if err != nil {
		return nil, err
	}
	p := make([]byte, len(v))
	copy(p, v)

	return p, nil
}

// ReadN reads exactly n bytes. If fewer bytes are available, it returns an error
// and the data remains in the buffer.
func (r *Stream) ReadN(n int) (p []byte, err error) {
	r.reader.mutex.Lock()
	defer r.reader.mutex.Unlock()

	// Wait until we have n-bytes data in the reader.
	if _, err = r.reader.rd.Peek(n); err != nil {
		return nil, err
	}

	p = make([]byte, n)
	if _, err := io.ReadFull(r.reader.rd, p); err != nil {
		return nil, err
	}

	return p, nil
}

// ReadMessage returns the next complete message including its header. It
// returns io.EOF if the stream ends between two messages.
func (r *Stream) ReadMessage() ([]byte, error) {
	data, err := r.Peek(openflow.HeaderLength)
	if err != nil {
		if err == io.EOF {
			if rest, _ := r.Peek(1); len(rest) == 0 {
				return nil, io.EOF
			}
		}
		if err == io.EOF || err == bufio.ErrBufferFull {
			return nil, openflow.ErrInvalidPacketLength
		}
		return nil, err
	}

	header, err := openflow.ParseHeader(data)
	if err != nil {
		return nil, err
	}
	packet, err := r.ReadN(int(header.Length))
	if err != nil {
		if err == io.EOF {
			return nil, errors.Wrapf(openflow.ErrInvalidPacketLength, "truncated message of %v bytes", header.Length)
		}
		return nil, err
	}
	logger.Debugf("read a message: version=0x%02x, type=%v, xid=%v, length=%v", header.Version, header.Type, header.XID, header.Length)

	return packet, nil
}

func (r *Stream) Write(msg encoding.BinaryMarshaler) error {
	packet, err := msg.MarshalBinary()
	if err != nil {
		return err
	}

	r.writer.mutex.Lock()
	defer r.writer.mutex.Unlock()

	if _, err := r.writer.wr.Write(packet); err != nil {
		return err
	}

	return nil
}
