package mpack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type (
	intSlice  = Slice[Int, *Int]
	intMatrix = Slice[intSlice, *intSlice]
	wordCount = Map[String, Int, *String, *Int]
)

func TestSlice(t *testing.T) {
	t.Run("WireForm", func(t *testing.T) {
		data, err := Marshal(intSlice{1, 2, 3})
		require.NoError(t, err)
		assert.Equal(t, []byte{0x93, 0x01, 0x02, 0x03}, data)

		got, err := Unmarshal[intSlice](data)
		require.NoError(t, err)
		assert.Equal(t, intSlice{1, 2, 3}, got)
	})

	t.Run("Empty", func(t *testing.T) {
		data, err := Marshal(intSlice{})
		require.NoError(t, err)
		assert.Equal(t, []byte{0x90}, data)

		got, err := Unmarshal[intSlice](data)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("Nested", func(t *testing.T) {
		in := intMatrix{{1, 2}, {}, {-3}}
		data, err := Marshal(in)
		require.NoError(t, err)
		assert.Equal(t, []byte{0x93, 0x92, 0x01, 0x02, 0x90, 0x91, 0xfd}, data)

		got, err := Unmarshal[intMatrix](data)
		require.NoError(t, err)
		assert.Equal(t, in, got)
	})

	t.Run("FreeFunctions", func(t *testing.T) {
		w := NewWriter()
		PackSlice(w, []String{"a", "bc"})
		require.NoError(t, w.Err())

		got, err := UnpackSlice[String](NewReader(w.Bytes()))
		require.NoError(t, err)
		assert.Equal(t, []String{"a", "bc"}, got)
	})
}

func TestSlicePartialFailure(t *testing.T) {
	// [1, "x", 3]
	r := NewReader([]byte{0x93, 0x01, 0xa1, 0x78, 0x03})

	var s intSlice
	err := s.Unpack(r)
	require.Error(t, err)
	assert.Nil(t, s, "no partial result")
	assert.Contains(t, err.Error(), "element 1 of 3")
	assert.ErrorIs(t, err, ErrEngine)
	assert.Error(t, r.Err())

	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "Slice", de.Type)

	// the Reader stays failed.
	_, err = r.UnpackInt()
	assert.Error(t, err)
}

func TestMap(t *testing.T) {
	t.Run("WireForm", func(t *testing.T) {
		data, err := Marshal(wordCount{"a": 1})
		require.NoError(t, err)
		assert.Equal(t, []byte{0x81, 0xa1, 0x61, 0x01}, data)

		got, err := Unmarshal[wordCount](data)
		require.NoError(t, err)
		assert.Equal(t, wordCount{"a": 1}, got)
	})

	t.Run("ManyPairs", func(t *testing.T) {
		in := wordCount{"the": 3, "quick": 1, "fox": 1, "": 0}
		data, err := Marshal(in)
		require.NoError(t, err)

		got, err := Unmarshal[wordCount](data)
		require.NoError(t, err)
		assert.Equal(t, in, got)
	})

	t.Run("DuplicateKeyKeepsLast", func(t *testing.T) {
		got, err := Unmarshal[wordCount]([]byte{0x82, 0xa1, 0x61, 0x01, 0xa1, 0x61, 0x02})
		require.NoError(t, err)
		assert.Equal(t, wordCount{"a": 2}, got)
	})

	t.Run("BadValue", func(t *testing.T) {
		_, err := Unmarshal[wordCount]([]byte{0x81, 0xa1, 0x61, 0xc3})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "value 0 of 1")
	})

	t.Run("FreeFunctions", func(t *testing.T) {
		w := NewWriter()
		PackMap(w, map[Int]Bool{1: true})
		require.NoError(t, w.Err())
		assert.Equal(t, []byte{0x81, 0x01, 0xc3}, w.Bytes())

		got, err := UnpackMap[Int, Bool](NewReader(w.Bytes()))
		require.NoError(t, err)
		assert.Equal(t, map[Int]Bool{1: true}, got)
	})

	t.Run("MapOfSlices", func(t *testing.T) {
		type index = Map[String, intSlice, *String, *intSlice]
		in := index{"odd": {1, 3}, "even": {}}
		data, err := Marshal(in)
		require.NoError(t, err)

		got, err := Unmarshal[index](data)
		require.NoError(t, err)
		assert.Equal(t, in, got)
	})
}

func TestHeadersAndNil(t *testing.T) {
	w := NewWriter()
	w.Put(ArrayHeader{Count: 2}, Nil{}, MapHeader{Count: 0})
	require.NoError(t, w.Err())
	assert.Equal(t, []byte{0x92, 0xc0, 0x80}, w.Bytes())

	var (
		ah ArrayHeader
		n  Nil
		mh MapHeader
	)
	r := NewReader(w.Bytes())
	require.NoError(t, r.Get(&ah, &n, &mh).Err())
	assert.Equal(t, 2, ah.Count)
	assert.Equal(t, 0, mh.Count)
	assert.NoError(t, r.Done())
}
