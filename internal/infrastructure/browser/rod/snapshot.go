package rod

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"

	"apply-autofill/internal/application/port/output"
	"apply-autofill/internal/domain/entity"
)

const maxScreenshotWidth = 1024

// Snapshot captures what the operator needs to see on escalation: a
// downscaled JPEG of the viewport and the cleaned DOM.
func (b *BrowserAdapter) Snapshot(ctx context.Context) (*entity.PageSnapshot, error) {
	page := b.page.Context(ctx)

	raw, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("read html: %w", err)
	}

	shot, err := b.screenshot(ctx)
	return assembleSnapshot(b.CurrentURL(), raw, shot, err, b.logger), nil
}

// assembleSnapshot keeps the DOM when the screenshot could not be taken.
func assembleSnapshot(url, rawHTML string, shot *entity.Screenshot, shotErr error, log output.LoggerPort) *entity.PageSnapshot {
	if shotErr != nil {
		log.Warn("Screenshot failed, saving DOM only", "url", url, "error", shotErr)
		shot = nil
	}
	return &entity.PageSnapshot{
		URL:        url,
		HTML:       CleanHTML(rawHTML, nil),
		Screenshot: shot,
	}
}

func (b *BrowserAdapter) screenshot(ctx context.Context) (*entity.Screenshot, error) {
	imgBytes, err := b.page.Context(ctx).Screenshot(false, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: gson.Int(80),
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}
	return encodeScreenshot(imgBytes)
}

func encodeScreenshot(imgBytes []byte) (*entity.Screenshot, error) {
	img, _, err := image.Decode(bytes.NewReader(imgBytes))
	if err != nil {
		return nil, fmt.Errorf("image decode failed: %w", err)
	}

	if img.Bounds().Dx() > maxScreenshotWidth {
		img = imaging.Resize(img, maxScreenshotWidth, 0, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 75}); err != nil {
		return nil, fmt.Errorf("jpeg encode failed: %w", err)
	}

	return &entity.Screenshot{
		Data:   buf.Bytes(),
		Format: "jpeg",
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
	}, nil
}
