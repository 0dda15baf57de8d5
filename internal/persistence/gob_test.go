package persistence

import (
	"encoding/gob"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name   string
	Counts map[string]int
	Cells  [][]string
}

func newSample() sample {
	return sample{
		Name:   "triples",
		Counts: map[string]int{"aaa": 3, "bbb": 1},
		Cells:  [][]string{{"aaa bbb", "ccc"}, {strings.Repeat("ddd ", 500)}},
	}
}

func TestSaveLoadGob_AllCodecs(t *testing.T) {
	for _, codec := range []Codec{CodecNone, CodecZstd, CodecLZ4} {
		t.Run(string(codec), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", "data.gob")
			want := newSample()

			require.NoError(t, SaveGob(path, want, codec))

			var got sample
			require.NoError(t, LoadGob(path, &got))
			assert.Equal(t, want, got)

			detected, err := DetectCodec(path)
			require.NoError(t, err)
			assert.Equal(t, codec, detected)
		})
	}
}

func TestSaveGob_CompressionShrinksRepetitiveData(t *testing.T) {
	dir := t.TempDir()
	want := newSample()

	plain := filepath.Join(dir, "plain.gob")
	packed := filepath.Join(dir, "packed.gob")
	require.NoError(t, SaveGob(plain, want, CodecNone))
	require.NoError(t, SaveGob(packed, want, CodecZstd))

	plainInfo, err := os.Stat(plain)
	require.NoError(t, err)
	packedInfo, err := os.Stat(packed)
	require.NoError(t, err)
	assert.Less(t, packedInfo.Size(), plainInfo.Size())
}

func TestSaveGob_OverwritesWithoutLeftovers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.gob")

	require.NoError(t, SaveGob(path, sample{Name: "first"}, CodecLZ4))
	require.NoError(t, SaveGob(path, sample{Name: "second"}, CodecZstd))

	var got sample
	require.NoError(t, LoadGob(path, &got))
	assert.Equal(t, "second", got.Name)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files are renamed or removed")
}

func TestSaveGob_UnknownCodec(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.gob")
	err := SaveGob(path, newSample(), Codec("brotli"))
	require.Error(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestLoadGob_MissingFile(t *testing.T) {
	var got sample
	err := LoadGob(filepath.Join(t.TempDir(), "absent.gob"), &got)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadGob_PlainGobWithoutHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.gob")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, gob.NewEncoder(f).Encode(newSample()))
	require.NoError(t, f.Close())

	var got sample
	require.NoError(t, LoadGob(path, &got))
	assert.Equal(t, newSample(), got)
}

func TestLoadGob_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.gob")
	require.NoError(t, os.WriteFile(path, append(append([]byte{}, magic...), codecByteZstd, 0xde, 0xad), 0600))

	var got sample
	err := LoadGob(path, &got)
	require.Error(t, err)
	assert.False(t, errors.Is(err, os.ErrNotExist))
}

func TestParseCodec(t *testing.T) {
	tests := []struct {
		in      string
		want    Codec
		wantErr bool
	}{
		{"", CodecNone, false},
		{"none", CodecNone, false},
		{"zstd", CodecZstd, false},
		{"lz4", CodecLZ4, false},
		{"gzip", "", true},
	}
	for _, tt := range tests {
		got, err := ParseCodec(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}
