package camera

import (
	"fmt"

	"gocv.io/x/gocv"

	"github.com/teslashibe/go-simplearm/pkg/protocol"
	"github.com/teslashibe/go-simplearm/pkg/vision"
)

// FrameFromMat copies a Mat into a frame. RowStride is the Mat step, so
// padded rows are preserved as-is.
func FrameFromMat(mat gocv.Mat) vision.Frame {
	encoding := "bgr8"
	switch mat.Channels() {
	case 1:
		encoding = "mono8"
	case 4:
		encoding = "bgra8"
	}
	return vision.Frame{
		Width:     mat.Cols(),
		Height:    mat.Rows(),
		RowStride: mat.Step(),
		Encoding:  encoding,
		Pixels:    mat.ToBytes(),
	}
}

// DecodeJPEG decodes a compressed image (JPEG or PNG) into a BGR frame.
func DecodeJPEG(data []byte) (vision.Frame, error) {
	if len(data) == 0 {
		return vision.Frame{}, fmt.Errorf("empty image")
	}
	mat, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return vision.Frame{}, fmt.Errorf("decode image: %w", err)
	}
	defer mat.Close()
	if mat.Empty() {
		return vision.Frame{}, fmt.Errorf("decode image: no pixels")
	}
	return FrameFromMat(mat), nil
}

// DecodeImage converts a bridge image payload to a frame, decoding
// compressed encodings. It satisfies bridge.FrameDecoder.
func DecodeImage(img protocol.ImageData) (vision.Frame, error) {
	if img.Compressed() {
		return DecodeJPEG(img.Data)
	}
	return img.Frame(), nil
}
