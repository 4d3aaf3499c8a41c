package upload

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"theend-page-api/internal/domain"
)

// PNG 魔数 + 填充，足够被 DetectContentType 识别
var pngBytes = append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, make([]byte, 64)...)

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	mr := multipart.NewReader(&buf, mw.Boundary())
	form, err := mr.ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["file"][0]
}

func newTestSaver(t *testing.T) *Saver {
	t.Helper()
	s, err := NewSaver(t.TempDir(), 1)
	require.NoError(t, err)
	return s
}

func TestSaveImage(t *testing.T) {
	s := newTestSaver(t)

	name, err := s.SaveImage(fileHeader(t, "cover.png", pngBytes))
	require.NoError(t, err)
	assert.Equal(t, ".png", filepath.Ext(name))

	got, err := os.ReadFile(filepath.Join(s.Dir, name))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, got)
}

func TestSaveRejectsBadExt(t *testing.T) {
	s := newTestSaver(t)

	_, err := s.SaveImage(fileHeader(t, "evil.exe", pngBytes))
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = s.SaveAudio(fileHeader(t, "song.flac", []byte("xxx")))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// 扩展名合法但内容不是该类别，嗅探拦截
func TestSaveRejectsContentMismatch(t *testing.T) {
	s := newTestSaver(t)

	_, err := s.SaveImage(fileHeader(t, "fake.png", []byte("<html><body>hi</body></html>")))
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = s.SaveVideo(fileHeader(t, "fake.mp4", pngBytes))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSaveRejectsOversize(t *testing.T) {
	s := newTestSaver(t) // 上限 1MB
	big := append(append([]byte(nil), pngBytes...), make([]byte, 2<<20)...)

	_, err := s.SaveImage(fileHeader(t, "big.png", big))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSaveAudioOctetStream(t *testing.T) {
	s := newTestSaver(t)

	// 裸 mp3 帧嗅探不出 audio/*，靠扩展名白名单放行
	name, err := s.SaveAudio(fileHeader(t, "track.mp3", []byte{0xff, 0xfb, 0x90, 0x00, 0x01, 0x02}))
	require.NoError(t, err)
	assert.Equal(t, ".mp3", filepath.Ext(name))
}

func TestRemove(t *testing.T) {
	s := newTestSaver(t)

	name, err := s.SaveImage(fileHeader(t, "cover.png", pngBytes))
	require.NoError(t, err)

	s.Remove(name, "", "never-existed.png")
	_, err = os.Stat(filepath.Join(s.Dir, name))
	assert.True(t, os.IsNotExist(err))
}

func TestSaverUniqueNames(t *testing.T) {
	s := newTestSaver(t)

	a, err := s.SaveImage(fileHeader(t, "x.png", pngBytes))
	require.NoError(t, err)
	b, err := s.SaveImage(fileHeader(t, "x.png", pngBytes))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
