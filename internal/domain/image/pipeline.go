package image

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	stdimage "image"
	"io"
	"os"
	"path/filepath"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp"

	"imgcaption/internal/platform/errors"
	"imgcaption/internal/platform/logging"
)

// Acceptor 实现图片接收：校验声明信息，读取并编码为 base64
type Acceptor struct {
	validator *Validator
	logger    *logging.Logger
}

func NewAcceptor(validator *Validator, logger *logging.Logger) *Acceptor {
	return &Acceptor{
		validator: validator,
		logger:    logger,
	}
}

// Accept validates and encodes a file. Rejections are KindFormat errors and
// never return partial data.
func (a *Acceptor) Accept(ctx context.Context, f File) (*Image, error) {
	if err := a.validator.Check(f); err != nil {
		return nil, err
	}
	if f.Open == nil {
		return nil, errors.New(errors.KindDomain, "image.accept", "file has no content")
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.KindDomain, "image.accept", "cancelled", err)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, errors.Wrap(errors.KindDomain, "image.accept", "open file", err)
	}
	defer rc.Close()

	maxSize := a.validator.MaxSize()
	limited := &io.LimitedReader{R: rc, N: maxSize + 1}

	rawBuf := bytes.NewBuffer(make([]byte, 0, min64(f.Size, maxSize)))
	base64Buf := &bytes.Buffer{}
	encoder := base64.NewEncoder(base64.StdEncoding, base64Buf)
	writer := io.MultiWriter(rawBuf, encoder)

	if _, err := io.Copy(writer, limited); err != nil {
		return nil, errors.Wrap(errors.KindDomain, "image.accept", "stream image bytes", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, errors.Wrap(errors.KindDomain, "image.accept", "finalise base64 encoding", err)
	}
	if limited.N <= 0 {
		return nil, errors.New(errors.KindFormat, "image.accept",
			fmt.Sprintf("image exceeds maximum size of %d bytes", maxSize))
	}

	raw := rawBuf.Bytes()
	if len(raw) == 0 {
		return nil, errors.New(errors.KindFormat, "image.accept", "image is empty")
	}
	a.validator.sniff(raw, f.MIMEType)

	img := &Image{
		Name:     f.Name,
		MIMEType: normaliseType(f.MIMEType),
		Bytes:    raw,
		Base64:   base64Buf.String(),
	}

	if cfg, format, err := stdimage.DecodeConfig(bytes.NewReader(raw)); err == nil {
		img.Width, img.Height, img.Format = cfg.Width, cfg.Height, format
	} else {
		a.logger.DebugTag("客户端", "无法解析预览尺寸 %s: %v", f.MIMEType, err)
	}

	a.logger.DebugTag("客户端", "图片已接收 name=%s type=%s size=%d %dx%d",
		img.Name, img.MIMEType, len(raw), img.Width, img.Height)
	return img, nil
}

// OpenFile 从磁盘构造 File，媒体类型按内容检测
func OpenFile(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, err
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("%s is a directory", path)
	}
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return File{}, err
	}
	return File{
		Name:     filepath.Base(path),
		MIMEType: mt.String(),
		Size:     info.Size(),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

// FromBytes 用内存数据构造 File，mimeType 为空时按内容检测
func FromBytes(name, mimeType string, data []byte) File {
	if mimeType == "" {
		mimeType = mimetype.Detect(data).String()
	}
	return File{
		Name:     name,
		MIMEType: mimeType,
		Size:     int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
