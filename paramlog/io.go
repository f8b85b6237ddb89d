/*
 * io.go, part of gorestraint.
 *
 * Copyright 2026 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package paramlog

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

//Writer writes records to a log file.
type Writer struct {
	f         *os.File
	h         io.WriteCloser
	filename  string
	writeable bool
	n         int
}

//nopCloser is used for plain text logs
type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

func compressor(name string) func(io.Writer) (io.WriteCloser, error) {
	switch {
	case strings.HasSuffix(name, ".zst"):
		return func(a io.Writer) (io.WriteCloser, error) {
			return zstd.NewWriter(a, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
		}
	case strings.HasSuffix(name, ".gz"):
		return func(a io.Writer) (io.WriteCloser, error) { return gzip.NewWriterLevel(a, gzip.BestCompression) }
	case strings.HasSuffix(name, ".fl"):
		return func(a io.Writer) (io.WriteCloser, error) { return flate.NewWriter(a, flate.BestCompression) }
	default:
		return func(a io.Writer) (io.WriteCloser, error) { return nopCloser{a}, nil }
	}
}

//NewWriter creates the log file name and writes the header to it.
func NewWriter(name string, header map[string]string) (*Writer, error) {
	hstr, err := encodeHeader(header)
	if err != nil {
		return nil, Error{err.Error(), name, []string{"NewWriter"}, true}
	}
	W := new(Writer)
	W.filename = name
	W.f, err = os.Create(name)
	if err != nil {
		return nil, Error{err.Error(), name, []string{"NewWriter"}, true}
	}
	W.h, err = compressor(name)(W.f)
	if err != nil {
		W.f.Close()
		return nil, Error{"Can't start compression " + err.Error(), name, []string{"NewWriter"}, true}
	}
	if _, err := W.h.Write([]byte(hstr)); err != nil {
		W.h.Close()
		W.f.Close()
		return nil, Error{"Can't write header " + err.Error(), name, []string{"NewWriter"}, true}
	}
	W.writeable = true
	return W, nil
}

//Write appends r to the log.
func (W *Writer) Write(r Record) error {
	if W == nil || !W.writeable {
		return Error{UnIniWrite, "", []string{"Write"}, true}
	}
	if _, err := W.h.Write([]byte(r.encode())); err != nil {
		return Error{err.Error(), W.filename, []string{"Write"}, true}
	}
	W.n++
	return nil
}

//Len returns the number of records written.
func (W *Writer) Len() int {
	return W.n
}

//Close flushes and closes the log. It can not be used after this call.
func (W *Writer) Close() error {
	if W == nil || !W.writeable {
		return nil
	}
	W.writeable = false
	err := W.h.Close()
	err2 := W.f.Close()
	if err == nil {
		err = err2
	}
	if err != nil {
		return Error{err.Error(), W.filename, []string{"Close"}, true}
	}
	return nil
}

//zstdCloser gives a *zstd.Decoder the io.ReadCloser interface.
type zstdCloser struct {
	*zstd.Decoder
}

func (z zstdCloser) Close() error {
	z.Decoder.Close()
	return nil
}

func decompressor(name string) func(io.Reader) (io.ReadCloser, error) {
	switch {
	case strings.HasSuffix(name, ".zst"):
		return func(a io.Reader) (io.ReadCloser, error) {
			r, err := zstd.NewReader(a)
			if err != nil {
				return nil, err
			}
			return zstdCloser{r}, nil
		}
	case strings.HasSuffix(name, ".gz"):
		return func(a io.Reader) (io.ReadCloser, error) { return gzip.NewReader(a) }
	case strings.HasSuffix(name, ".fl"):
		return func(a io.Reader) (io.ReadCloser, error) { return flate.NewReader(a), nil }
	default:
		return func(a io.Reader) (io.ReadCloser, error) { return io.NopCloser(a), nil }
	}
}

//Reader reads the records of a log file.
type Reader struct {
	f        *os.File
	z        io.ReadCloser
	h        *bufio.Reader
	header   map[string]string
	filename string
	readable bool
}

//Open opens the log file name for reading and reads its header.
func Open(name string) (*Reader, error) {
	R := new(Reader)
	R.filename = name
	var err error
	R.f, err = os.Open(name)
	if err != nil {
		return nil, Error{err.Error(), name, []string{"Open"}, true}
	}
	R.z, err = decompressor(name)(bufio.NewReader(R.f))
	if err != nil {
		R.f.Close()
		return nil, Error{"Can't read header " + err.Error(), name, []string{"Open"}, true}
	}
	R.h = bufio.NewReader(R.z)
	R.header = make(map[string]string)
	for {
		str, err := R.h.ReadString('\n')
		if err != nil {
			R.Close()
			return nil, Error{"Can't read header " + err.Error(), name, []string{"Open"}, true}
		}
		str = strings.TrimSuffix(str, "\n")
		if strings.HasPrefix(str, "**") {
			nf := strings.Fields(str)
			if len(nf) < 2 {
				R.Close()
				return nil, Error{WrongFormat, name, []string{"Open"}, true}
			}
			n, err := strconv.Atoi(nf[1])
			if err != nil || n != nfields {
				R.Close()
				return nil, Error{WrongFormat + ": unexpected number of fields " + nf[1], name, []string{"Open"}, true}
			}
			break
		}
		k, v, ok := strings.Cut(str, "=")
		if !ok {
			R.Close()
			return nil, Error{WrongFormat + ": malformed header line " + str, name, []string{"Open"}, true}
		}
		R.header[k] = v
	}
	R.readable = true
	return R, nil
}

//Header returns the metadata in the header of the log.
func (R *Reader) Header() map[string]string {
	return R.header
}

//Next returns the next record in the log. At the end of the log, the error is io.EOF.
func (R *Reader) Next() (Record, error) {
	if R == nil || !R.readable {
		return Record{}, Error{UnIniRead, "", []string{"Next"}, true}
	}
	str, err := R.h.ReadString('\n')
	if err == io.EOF && str == "" {
		return Record{}, io.EOF
	}
	if err != nil && err != io.EOF {
		return Record{}, Error{err.Error(), R.filename, []string{"Next"}, true}
	}
	r, err := decode(str)
	if err != nil {
		return Record{}, Error{err.Error(), R.filename, []string{"Next"}, true}
	}
	return r, nil
}

//Close closes the log. It can not be used after this call.
func (R *Reader) Close() {
	if R == nil {
		return
	}
	if R.z != nil {
		R.z.Close()
	}
	R.f.Close()
	R.readable = false
}

//ReadAll reads the whole log file name, returning its header and records.
func ReadAll(name string) (map[string]string, []Record, error) {
	R, err := Open(name)
	if err != nil {
		return nil, nil, err
	}
	defer R.Close()
	var recs []Record
	for {
		r, err := R.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		recs = append(recs, r)
	}
	return R.Header(), recs, nil
}
