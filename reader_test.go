package mpack

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// failingCloser stands in for an owned channel whose release fails.
type failingCloser struct{}

func (failingCloser) Close() error { return errors.New("device busy") }

// --- Reader Test Suite ---

type ReaderTestSuite struct {
	suite.Suite
}

func (s *ReaderTestSuite) TestConstructors() {
	s.T().Run("NilReader", func(t *testing.T) {
		_, err := NewStreamReader(nil)
		assert.ErrorIs(t, err, ErrNilIO)
	})

	s.T().Run("SizeTooSmall", func(t *testing.T) {
		_, err := NewStreamReaderSize(strings.NewReader("x"), 8)
		assert.ErrorIs(t, err, ErrSizeTooSmall)
	})

	s.T().Run("SmallBufioReader", func(t *testing.T) {
		br := bufio.NewReaderSize(strings.NewReader("x"), 16)
		_, err := NewStreamReaderSize(br, 64)
		assert.ErrorIs(t, err, ErrAlreadyBuffered)
	})

	s.T().Run("NewReaderCopiesInput", func(t *testing.T) {
		data := []byte{0x01}
		r := NewReader(data)
		data[0] = 0x02
		v, err := r.UnpackInt()
		require.NoError(t, err)
		assert.EqualValues(t, 1, v)
	})
}

func (s *ReaderTestSuite) TestSuccessfulReads() {
	data := []byte{
		0xc0,                         // nil
		0xc3,                         // true
		0xff,                         // -1
		0xcd, 0x01, 0x00,             // uint16 256
		0xca, 0x3f, 0xc0, 0x00, 0x00, // float 1.5
		0xa2, 0x68, 0x69,             // "hi"
		0xc4, 0x00,                   // empty binary
	}
	r := NewReader(data)

	s.Require().NoError(r.UnpackNil())
	b, _ := r.UnpackBool()
	i, _ := r.UnpackInt()
	u, _ := r.UnpackUint()
	f, _ := r.UnpackFloat64()
	str, _ := r.UnpackString()
	bin, _ := r.UnpackBytes()

	s.Require().NoError(r.Err())
	s.Assert().True(b)
	s.Assert().EqualValues(-1, i)
	s.Assert().EqualValues(256, u)
	s.Assert().Equal(1.5, f)
	s.Assert().Equal("hi", str)
	s.Assert().NotNil(bin)
	s.Assert().Empty(bin)
	s.Assert().NoError(r.Done())

	// The next read should result in a clean EOF.
	_, err := r.UnpackInt()
	s.Assert().ErrorIs(err, io.EOF)
	s.Assert().True(r.IsEOF())
}

func (s *ReaderTestSuite) TestErrorHandling() {
	s.T().Run("TruncatedItem", func(t *testing.T) {
		r := NewReader([]byte{0xcd, 0x01}) // uint16 missing its second byte
		_, err := r.UnpackUint()

		require.Error(t, err)
		assert.ErrorIs(t, r.Err(), io.ErrUnexpectedEOF)
		assert.ErrorIs(t, r.Err(), ErrEngine)
		assert.False(t, r.IsEOF(), "ErrUnexpectedEOF should not be considered a clean EOF")
	})

	s.T().Run("ReadAfterErrorIsNoOp", func(t *testing.T) {
		r := NewReader([]byte{0x01, 0xa1, 0x61})

		_, err := r.UnpackString() // wrong kind latches the error
		require.Error(t, err)
		firstErr := r.Err()

		v, err := r.UnpackInt() // This read should not happen.
		assert.Equal(t, firstErr, err)
		assert.Zero(t, v)
		assert.Equal(t, firstErr, r.Err(), "The latched error should not change")
		assert.Equal(t, firstErr, r.Skip(1))
	})

	s.T().Run("NilWhereHeaderRequired", func(t *testing.T) {
		r := NewReader([]byte{0xc0})
		_, err := r.UnpackArrayHeader()
		assert.ErrorIs(t, err, ErrShape)

		r = NewReader([]byte{0xc0})
		_, err = r.UnpackMapHeader()
		assert.ErrorIs(t, err, ErrShape)
	})

	s.T().Run("ExpectArrayHeader", func(t *testing.T) {
		r := NewReader([]byte{0x92})
		err := r.ExpectArrayHeader(3)
		assert.ErrorIs(t, err, ErrShape)
		assert.Contains(t, err.Error(), "declares 2 items, want 3")
	})
}

func (s *ReaderTestSuite) TestDone() {
	r := NewReader([]byte{0x01, 0x02})
	_, _ = r.UnpackInt()
	err := r.Done()
	s.Assert().ErrorIs(err, ErrTrailingData)
	s.Assert().Contains(err.Error(), "1 bytes left")
	s.Assert().NoError(r.Err(), "Done does not latch")

	_, _ = r.UnpackInt()
	s.Assert().NoError(r.Done())

	s.T().Run("Stream", func(t *testing.T) {
		r, err := NewStreamReader(iotest.OneByteReader(bytes.NewReader([]byte{0x01, 0x02})))
		require.NoError(t, err)
		_, _ = r.UnpackInt()
		assert.ErrorIs(t, r.Done(), ErrTrailingData)
		_, _ = r.UnpackInt()
		assert.NoError(t, r.Done())
	})
}

func (s *ReaderTestSuite) TestPeekAndSkip() {
	data := []byte{
		0x92, 0x01, 0x92, 0x02, 0x03, // [1 [2 3]]
		0x81, 0xa1, 0x6b, 0xc3,       // {"k": true}
		0xa1, 0x61,                   // "a"
	}
	r := NewReader(data)

	k, err := r.PeekKind()
	s.Require().NoError(err)
	s.Assert().Equal(KindArray, k)
	k, _ = r.PeekKind()
	s.Assert().Equal(KindArray, k, "PeekKind does not consume")
	s.Assert().Equal("array", k.String())
	s.Assert().Equal("invalid", Kind(200).String())

	s.Require().NoError(r.Skip(2))
	k, _ = r.PeekKind()
	s.Assert().Equal(KindString, k)
	str, err := r.UnpackString()
	s.Require().NoError(err)
	s.Assert().Equal("a", str)
}

func (s *ReaderTestSuite) TestStreamKeepsPayloadInSync() {
	w := NewWriter()
	w.PackExt(9, []byte("payload"))
	w.PackInt(42)
	w.PackBytes([]byte{1, 2, 3})
	s.Require().NoError(w.Err())

	// a reader without UnreadByte goes through the Reader's own buffering.
	r, err := NewStreamReaderSize(iotest.OneByteReader(bytes.NewReader(w.Bytes())), 16)
	s.Require().NoError(err)

	tag, data, err := r.UnpackExt()
	s.Require().NoError(err)
	s.Assert().EqualValues(9, tag)
	s.Assert().Equal([]byte("payload"), data)

	v, err := r.UnpackInt()
	s.Require().NoError(err)
	s.Assert().EqualValues(42, v)

	bin, err := r.UnpackBytes()
	s.Require().NoError(err)
	s.Assert().Equal([]byte{1, 2, 3}, bin)
	s.Assert().NoError(r.Done())
	s.Assert().NoError(r.Close())
	s.Assert().NoError(r.Close())
}

func (s *ReaderTestSuite) TestCloseReportsSameFailure() {
	r := NewReader(nil)
	r.owned, r.name = failingCloser{}, "data.mp"

	first := r.Close()
	s.Require().Error(first)
	s.Assert().ErrorIs(first, ErrResource)
	s.Assert().Contains(first.Error(), "data.mp")

	second := r.Close()
	s.Assert().Equal(first, second, "Close keeps its first result")
}

func (s *ReaderTestSuite) TestGet() {
	var (
		i   Int
		str String
		b   Bool
	)
	r := NewReader([]byte{0x05, 0xa1, 0x78, 0xc3})
	s.Require().NoError(r.Get(&i, &str).Get(&b).Err())
	s.Assert().Equal(Int(5), i)
	s.Assert().Equal(String("x"), str)
	s.Assert().True(bool(b))

	s.T().Run("StopsAtFirstFailure", func(t *testing.T) {
		var (
			i   Int
			str String
		)
		r := NewReader([]byte{0xa1, 0x78, 0x05})
		err := r.Get(&i, &str).Err()
		require.Error(t, err)
		// the root cause stays latched, not the conformance wrapper.
		assert.ErrorIs(t, err, ErrEngine)
		assert.Empty(t, str, "the second destination is never reached")
	})
}

// TestReader runs the ReaderTestSuite.
func TestReader(t *testing.T) {
	suite.Run(t, new(ReaderTestSuite))
}
