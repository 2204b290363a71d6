package handlers

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/shanteshgogi/Property-Manager/internal/api/middleware"
	"github.com/shanteshgogi/Property-Manager/internal/upload"
)

// multipartOverhead leaves room for boundaries and headers around the file.
const multipartOverhead = 1 << 20

// UploadFile stores the multipart field "file" and returns where it is served.
func UploadFile(svc *upload.Service, log logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, svc.MaxBytes()+multipartOverhead)

		file, _, err := r.FormFile("file")
		if err != nil {
			var tooLarge *http.MaxBytesError
			switch {
			case errors.As(err, &tooLarge):
				middleware.WriteError(w, http.StatusBadRequest, middleware.ErrUpload, "File too large")
			case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
				middleware.WriteError(w, http.StatusBadRequest, middleware.ErrNoFile, "No file uploaded")
			default:
				middleware.WriteError(w, http.StatusBadRequest, middleware.ErrUpload, "Invalid upload")
			}
			return
		}
		defer file.Close()

		res, err := svc.Save(file)
		switch {
		case errors.Is(err, upload.ErrTooLarge):
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrUpload, "File too large")
			return
		case errors.Is(err, upload.ErrNotImage):
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrUpload, "Only image files are allowed")
			return
		case err != nil:
			log.WithError(err).Error("Failed to store upload")
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrUpload, "Failed to upload file")
			return
		}

		log.WithFields(logrus.Fields{"file": res.Filename, "mime": res.Mime, "size": res.Size}).Info("File uploaded")
		middleware.WriteJSON(w, http.StatusOK, res)
	}
}
