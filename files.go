package calendarApi

import (
	"context"
	"io"
	"net/url"
	"slices"

	"github.com/go-resty/resty/v2"
	"github.com/rotisserie/eris"
	"github.com/tomroth04/calendarAPI/types"
	"golang.org/x/sync/errgroup"
)

const (
	maxImageSize       = 5 << 20
	maxParallelUploads = 3
)

var allowedImageTypes = []string{"image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp"}

// Upload is an image waiting to be sent
type Upload struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

func ValidateImageType(contentType string) bool {
	return slices.Contains(allowedImageTypes, contentType)
}

// ValidateFileSize reports whether size fits in maxSizeMB megabytes, 5 when maxSizeMB is not positive
func ValidateFileSize(size int64, maxSizeMB int) bool {
	if maxSizeMB <= 0 {
		return size <= maxImageSize
	}
	return size <= int64(maxSizeMB)<<20
}

// ValidateURL reports whether raw is an absolute URL
func ValidateURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// UploadImage sends one image as the "image" field of a multipart form
func (c *Client) UploadImage(ctx context.Context, upload Upload) (types.UploadResult, error) {
	if !ValidateImageType(upload.ContentType) {
		return types.UploadResult{}, eris.Errorf("unsupported image type %q", upload.ContentType)
	}
	if !ValidateFileSize(upload.Size, 0) {
		return types.UploadResult{}, eris.Errorf("image %s exceeds 5MB", upload.Name)
	}

	body, err := c.execute(
		c.request(ctx).SetMultipartField("image", upload.Name, upload.ContentType, upload.Reader),
		resty.MethodPost, "/files/upload/image",
	)
	if err != nil {
		return types.UploadResult{}, withFallbackMessage(err, "Failed to upload the image.")
	}

	var result types.UploadResult
	if err := decode(pickObject(body), &result); err != nil {
		return types.UploadResult{}, err
	}
	return result, nil
}

// UploadMultipleImages uploads every image, a few at a time. It fails as a
// whole when any upload fails.
func (c *Client) UploadMultipleImages(ctx context.Context, uploads []Upload) ([]types.UploadResult, error) {
	results := make([]types.UploadResult, len(uploads))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelUploads)
	for i, upload := range uploads {
		g.Go(func() error {
			res, err := c.UploadImage(gctx, upload)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, withMessage(err, "Some images failed to upload.")
	}
	return results, nil
}

// DeleteFile removes a previously uploaded file by its URL, sent both in the
// query and in the body.
func (c *Client) DeleteFile(ctx context.Context, fileURL string) error {
	_, err := c.execute(
		c.request(ctx).
			SetQueryParam("fileUrl", fileURL).
			SetBody(map[string]string{"fileUrl": fileURL}),
		resty.MethodDelete, "/files/delete",
	)
	return withFallbackMessage(err, "Failed to delete the file.")
}
