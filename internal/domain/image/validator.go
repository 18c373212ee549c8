package image

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"imgcaption/internal/platform/config"
	"imgcaption/internal/platform/errors"
	"imgcaption/internal/platform/logging"
)

// Validator checks a declared media type and size against the upload policy.
type Validator struct {
	maxSize int64
	allowed map[string]struct{}
	logger  *logging.Logger
}

func NewValidator(cfg config.ImageConfig, logger *logging.Logger) *Validator {
	allowed := make(map[string]struct{}, len(cfg.AllowedTypes))
	for _, t := range cfg.AllowedTypes {
		allowed[normaliseType(t)] = struct{}{}
	}
	maxSize := cfg.MaxFileSize
	if maxSize <= 0 {
		maxSize = 10 * 1024 * 1024
	}
	return &Validator{
		maxSize: maxSize,
		allowed: allowed,
		logger:  logger,
	}
}

// MaxSize 返回允许的最大字节数
func (v *Validator) MaxSize() int64 {
	return v.maxSize
}

// IsAllowed reports whether the media type is on the allow-list.
func (v *Validator) IsAllowed(mimeType string) bool {
	_, ok := v.allowed[normaliseType(mimeType)]
	return ok
}

// Check 只看声明信息，不读取内容
func (v *Validator) Check(f File) error {
	if !v.IsAllowed(f.MIMEType) {
		return errors.New(errors.KindFormat, "image.check",
			fmt.Sprintf("unsupported media type %q", f.MIMEType))
	}
	if f.Size < 0 || f.Size > v.maxSize {
		return errors.New(errors.KindFormat, "image.check",
			fmt.Sprintf("file size %d exceeds limit %d", f.Size, v.maxSize))
	}
	return nil
}

// sniff 比对声明类型与实际内容，只记录不拒绝
func (v *Validator) sniff(data []byte, declared string) {
	detected := mimetype.Detect(data)
	if detected.Is(normaliseType(declared)) {
		return
	}
	v.logger.WarnTag("客户端", "文件签名与声明类型不一致: declared=%s detected=%s",
		declared, detected.String())
}

func normaliseType(t string) string {
	t, _, _ = strings.Cut(t, ";")
	return strings.ToLower(strings.TrimSpace(t))
}
