package cases

import (
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rwcarlsen/goexif/exif"

	"legallink_client/internal/appointments/domain"
	"legallink_client/platform/apperr"
)

// maxUploadSize caps attachments before they ever hit the wire.
const maxUploadSize = 25 << 20

// Preflight builds the upload descriptor for a local file: a fresh id,
// size, a mime guess, and the EXIF capture time for JPEG photos. The file
// content itself is uploaded separately by the backend's upload endpoint.
func Preflight(path string) (domain.Upload, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Upload{}, apperr.Wrap(apperr.KindBadRequest, "cannot read upload", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return domain.Upload{}, apperr.Wrap(apperr.KindBadRequest, "cannot read upload", err)
	}
	if info.Size() > maxUploadSize {
		return domain.Upload{}, apperr.Validation(filepath.Base(path) + " exceeds the 25 MB upload limit")
	}

	upload := domain.Upload{
		ID:       uuid.NewString(),
		FileName: filepath.Base(path),
		Size:     info.Size(),
		MimeType: detectMime(f, path),
	}

	if strings.HasPrefix(upload.MimeType, "image/jpeg") {
		if _, err := f.Seek(0, 0); err == nil {
			if meta, err := exif.Decode(f); err == nil {
				if captured, err := meta.DateTime(); err == nil {
					upload.CapturedAt = &captured
				}
			}
		}
	}

	return upload, nil
}

// detectMime guesses by extension first and falls back to content sniffing.
func detectMime(f *os.File, path string) string {
	if byExt := mime.TypeByExtension(filepath.Ext(path)); byExt != "" {
		return byExt
	}

	buf := make([]byte, 512)
	n, _ := f.Read(buf)
	return http.DetectContentType(buf[:n])
}
