package image

import "io"

// File 用户选择的文件：声明的媒体类型、大小和读取入口
type File struct {
	Name     string
	MIMEType string
	Size     int64
	Open     func() (io.ReadCloser, error)
}

// Image 通过校验的图片，Bytes 与 Base64 始终对应同一份数据
type Image struct {
	Name     string
	MIMEType string
	Bytes    []byte
	Base64   string
	// 预览尺寸，无法解码（如 HEIC）时为 0
	Width  int
	Height int
	Format string
}

// DataURL 返回可直接用于预览的 data URL
func (i *Image) DataURL() string {
	if i == nil {
		return ""
	}
	return "data:" + i.MIMEType + ";base64," + i.Base64
}
