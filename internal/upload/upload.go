package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"theend-page-api/internal/domain"
	"theend-page-api/pkg/utils"
)

// 媒体类别：扩展名白名单 + 内容嗅探双重校验
type kind struct {
	exts  map[string]bool
	sniff func(contentType string) bool
}

var (
	imageKind = kind{
		exts:  set(".jpg", ".jpeg", ".png", ".gif", ".webp"),
		sniff: func(ct string) bool { return strings.HasPrefix(ct, "image/") },
	}
	audioKind = kind{
		exts: set(".mp3", ".wav", ".ogg"),
		sniff: func(ct string) bool {
			// 无 ID3 头的 mp3 会被嗅探成 octet-stream，放行交给扩展名约束
			return strings.HasPrefix(ct, "audio/") ||
				ct == "application/ogg" ||
				ct == "application/octet-stream"
		},
	}
	videoKind = kind{
		exts:  set(".mp4", ".webm"),
		sniff: func(ct string) bool { return strings.HasPrefix(ct, "video/") },
	}
)

type Saver struct {
	Dir      string
	MaxBytes int64 // 单文件上限
}

func NewSaver(dir string, maxFileMB int) (*Saver, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Saver{Dir: dir, MaxBytes: int64(maxFileMB) << 20}, nil
}

func (s *Saver) SaveImage(fh *multipart.FileHeader) (string, error) { return s.save(fh, imageKind) }
func (s *Saver) SaveAudio(fh *multipart.FileHeader) (string, error) { return s.save(fh, audioKind) }
func (s *Saver) SaveVideo(fh *multipart.FileHeader) (string, error) { return s.save(fh, videoKind) }

// Remove 回收落盘后未被引用的文件（入库失败时调用）
func (s *Saver) Remove(names ...string) {
	for _, n := range names {
		if n == "" {
			continue
		}
		_ = os.Remove(filepath.Join(s.Dir, filepath.Base(n)))
	}
}

// save 落盘后返回目录内的文件名（uuid+原扩展名），上层存引用
func (s *Saver) save(fh *multipart.FileHeader, k kind) (string, error) {
	if fh.Size > s.MaxBytes {
		return "", fmt.Errorf("%w: file too large", domain.ErrValidation)
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !k.exts[ext] {
		return "", fmt.Errorf("%w: unsupported file type %q", domain.ErrValidation, ext)
	}

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}
	if !k.sniff(http.DetectContentType(head[:n])) {
		return "", fmt.Errorf("%w: file content does not match type %q", domain.ErrValidation, ext)
	}

	name := utils.NewID() + ext
	dst, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := dst.Write(head[:n]); err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return name, nil
}

func set(exts ...string) map[string]bool {
	m := make(map[string]bool, len(exts))
	for _, e := range exts {
		m[e] = true
	}
	return m
}
