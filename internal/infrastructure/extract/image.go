package extract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"

	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/kirillkom/doc-insight/internal/core/domain"
)

const (
	adaptiveWindow = 11
	adaptiveBias   = 2
)

// extractImage runs the OCR-image pipeline: decode, grayscale, binarize
// (Otsu with an adaptive fallback for low-contrast scans), denoise, then
// hand the cleaned bitmap to the OCR capability with the bilingual hint.
func (e *Extractor) extractImage(ctx context.Context, path string) (string, error) {
	raw, err := readSource(path)
	if err != nil {
		return "", err
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", domain.WrapError(domain.ErrOCREmpty, "decode image", err)
	}

	cleaned := preprocess(img)

	var buf bytes.Buffer
	if err := png.Encode(&buf, cleaned); err != nil {
		return "", fmt.Errorf("encode preprocessed image: %w", err)
	}

	text, err := e.ocr.RecognizeImage(ctx, buf.Bytes(), e.langHint)
	if err != nil {
		return "", fmt.Errorf("recognize image: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", domain.WrapError(domain.ErrOCREmpty, "recognize image",
			fmt.Errorf("no text found in image"))
	}
	return strings.TrimSpace(text), nil
}

func preprocess(img image.Image) *image.Gray {
	gray := toGray(img)
	bin, ok := otsuThreshold(gray)
	if !ok {
		bin = adaptiveThreshold(gray)
	}
	return denoise(bin)
}

func toGray(img image.Image) *image.Gray {
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Set(x, y, color.GrayModel.Convert(img.At(x, y)))
		}
	}
	return gray
}

// otsuThreshold binarizes by the threshold maximizing between-class
// variance. The second return is false when the histogram is degenerate
// (effectively single-class), in which case the caller should fall back
// to the adaptive method.
func otsuThreshold(gray *image.Gray) (*image.Gray, bool) {
	bounds := gray.Bounds()
	total := bounds.Dx() * bounds.Dy()
	if total == 0 {
		return gray, true
	}

	var hist [256]int
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			hist[gray.GrayAt(x, y).Y]++
		}
	}

	var sum float64
	for i, n := range hist {
		sum += float64(i) * float64(n)
	}

	var (
		sumBackground  float64
		weightBack     int
		bestVariance   float64
		bestThreshold  int
		foundSeparator bool
	)
	for t := 0; t < 256; t++ {
		weightBack += hist[t]
		if weightBack == 0 {
			continue
		}
		weightFore := total - weightBack
		if weightFore == 0 {
			break
		}
		sumBackground += float64(t) * float64(hist[t])

		meanBack := sumBackground / float64(weightBack)
		meanFore := (sum - sumBackground) / float64(weightFore)
		variance := float64(weightBack) * float64(weightFore) * (meanBack - meanFore) * (meanBack - meanFore)
		if variance > bestVariance {
			bestVariance = variance
			bestThreshold = t
			foundSeparator = true
		}
	}
	if !foundSeparator {
		return gray, false
	}

	out := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if int(gray.GrayAt(x, y).Y) > bestThreshold {
				out.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return out, true
}

// adaptiveThreshold compares each pixel against the mean of its local
// window, shifted by a small bias. Handles uneven lighting that defeats a
// single global threshold.
func adaptiveThreshold(gray *image.Gray) *image.Gray {
	bounds := gray.Bounds()
	out := image.NewGray(bounds)
	half := adaptiveWindow / 2

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			var sum, count int
			for dy := -half; dy <= half; dy++ {
				for dx := -half; dx <= half; dx++ {
					nx, ny := x+dx, y+dy
					if nx < bounds.Min.X || nx >= bounds.Max.X || ny < bounds.Min.Y || ny >= bounds.Max.Y {
						continue
					}
					sum += int(gray.GrayAt(nx, ny).Y)
					count++
				}
			}
			mean := sum / count
			if int(gray.GrayAt(x, y).Y) > mean-adaptiveBias {
				out.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return out
}

// denoise applies a 3x3 majority filter to the binary image, dropping
// isolated speckles left over from thresholding.
func denoise(bin *image.Gray) *image.Gray {
	bounds := bin.Bounds()
	out := image.NewGray(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			var white, total int
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					if nx < bounds.Min.X || nx >= bounds.Max.X || ny < bounds.Min.Y || ny >= bounds.Max.Y {
						continue
					}
					total++
					if bin.GrayAt(nx, ny).Y > 127 {
						white++
					}
				}
			}
			if white*2 > total {
				out.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return out
}
