// Package storage 保存用户上传的头像文件
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gamehub/config"
	"gamehub/pkg/apperr"

	"github.com/google/uuid"
)

var allowedExt = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".webp": {},
}

// FileStorage 本地目录存储，目录通过 /images 对外暴露
type FileStorage struct {
	dir     string
	maxSize int64
}

// NewFileStorage 创建存储并确保目录存在
func NewFileStorage(cfg config.UploadConfig) (*FileStorage, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("创建上传目录失败: %w", err)
	}
	return &FileStorage{dir: cfg.Dir, maxSize: cfg.MaxSize}, nil
}

// Dir 上传目录
func (s *FileStorage) Dir() string { return s.dir }

// Save 保存文件，返回生成的文件名（uuid + 原扩展名）
func (s *FileStorage) Save(originalName string, size int64, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if _, ok := allowedExt[ext]; !ok {
		return "", apperr.InvalidArgument("unsupported image type %q", ext)
	}
	if s.maxSize > 0 && size > s.maxSize {
		return "", apperr.InvalidArgument("file exceeds %d bytes", s.maxSize)
	}

	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("创建文件失败: %w", err)
	}
	defer dst.Close()

	// 多读一个字节用于判断是否超限（size 可能由客户端伪造）
	limit := s.maxSize
	if limit <= 0 {
		limit = 1 << 62
	}
	n, err := io.Copy(dst, io.LimitReader(r, limit+1))
	if err != nil {
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("写入文件失败: %w", err)
	}
	if n > limit {
		_ = os.Remove(dst.Name())
		return "", apperr.InvalidArgument("file exceeds %d bytes", s.maxSize)
	}
	return name, nil
}

// Delete 删除旧文件，文件不存在时忽略
func (s *FileStorage) Delete(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("删除文件失败: %w", err)
	}
	return nil
}
