package ebnfcfg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Load(t *testing.T) {
	testCases := []struct {
		name      string
		contents  string
		expectErr bool
		expect    Options
	}{
		{
			name: "full buffer section",
			contents: `
[buffer]
max_size = 65536
min_slide = 32768
chunk_size = 4096
`,
			expect: Options{Buffer: BufferOptions{MaxSize: 65536, MinSlide: 32768, ChunkSize: 4096}},
		},
		{
			name:     "empty file leaves zero values",
			contents: ``,
			expect:   Options{},
		},
		{
			name: "malformed toml is an error",
			contents: `
[buffer
max_size = 1
`,
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			dir := t.TempDir()
			path := filepath.Join(dir, "config.toml")
			assert.NoError(os.WriteFile(path, []byte(tc.contents), 0o644))

			got, err := Load(path)
			if tc.expectErr {
				assert.Error(err)
				return
			}
			assert.NoError(err)
			assert.Equal(tc.expect, got)
		})
	}
}

func Test_Load_MissingFile(t *testing.T) {
	assert := assert.New(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(err)
}

func Test_Options_ToEngine(t *testing.T) {
	assert := assert.New(t)

	o := Options{Buffer: BufferOptions{MaxSize: 100, MinSlide: 50, ChunkSize: 10}}
	eo := o.ToEngine()

	assert.Equal(100, eo.MaxBufferSize)
	assert.Equal(50, eo.MinSlideSize)
	assert.Equal(10, eo.ChunkSize)
}
