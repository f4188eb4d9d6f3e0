package http_handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/anthanhphan/go-secure-file-storage/internal/config"
	"github.com/anthanhphan/go-secure-file-storage/internal/domain"
	"github.com/anthanhphan/go-secure-file-storage/internal/port"
	sdklogger "github.com/anthanhphan/gosdk/logger"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/utils"
)

const (
	apiName    = "Secure File Upload API"
	apiVersion = "2.0"

	// multipartOverhead leaves room for boundaries and part headers so an
	// upload of exactly the maximum size still fits in the body limit.
	multipartOverhead = 1 << 20

	formFileField = "file"
)

var securityFeatures = []string{
	"Unique filename generation",
	"Path traversal protection",
	"Dangerous extension blocking",
	"File size check before upload",
	"Secure filename sanitization",
}

type Server struct {
	app     *fiber.App
	cfg     *config.Config
	service port.FileService
}

func NewServer(cfg *config.Config, service port.FileService) *Server {
	s := &Server{
		cfg:     cfg,
		service: service,
	}

	s.app = fiber.New(fiber.Config{
		BodyLimit:             int(cfg.Storage.MaxFileSize) + multipartOverhead,
		ReadTimeout:           time.Duration(cfg.Server.ReadTimeoutMS) * time.Millisecond,
		WriteTimeout:          time.Duration(cfg.Server.WriteTimeoutMS) * time.Millisecond,
		ErrorHandler:          s.handleError,
		DisableStartupMessage: true,
	})

	// Middleware
	s.app.Use(recover.New())
	s.app.Use(fiberlogger.New())

	s.registerRoutes()

	return s
}

func (s *Server) registerRoutes() {
	s.app.Post("/upload", s.handleUpload)
	s.app.Get("/download/:filename", s.handleDownload)
	s.app.Get("/files", s.handleList)
	s.app.Delete("/delete/:filename", s.handleDelete)
	s.app.Get("/info", s.handleInfo)
}

func (s *Server) Start() error {
	return s.app.Listen(s.cfg.Server.Addr)
}

func (s *Server) Stop(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) sendJSONError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

func (s *Server) sendSizeExceeded(c *fiber.Ctx) error {
	limit := &port.SizeExceededError{Limit: s.cfg.Storage.MaxFileSize}
	return s.sendJSONError(c, fiber.StatusRequestEntityTooLarge,
		fmt.Sprintf("File too large! Maximum %sMB allowed", limit.LimitMB()))
}

// handleError renders errors raised outside the handlers, such as an
// oversized body rejected by fiber or an unknown route.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		if fiberErr.Code == fiber.StatusRequestEntityTooLarge {
			return s.sendSizeExceeded(c)
		}
		return s.sendJSONError(c, fiberErr.Code, fiberErr.Message)
	}

	sdklogger.Errorw("Unhandled request error", "path", c.Path(), "error", err.Error())
	return s.sendJSONError(c, fiber.StatusInternalServerError, "Internal server error")
}

// sendServiceError maps the service error taxonomy to a status and message.
func (s *Server) sendServiceError(c *fiber.Ctx, op, fileName string, err error) error {
	var typeErr *port.TypeNotAllowedError

	switch {
	case errors.Is(err, port.ErrSizeExceeded):
		return s.sendSizeExceeded(c)
	case errors.As(err, &typeErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":         "File type not allowed",
			"allowed_types": s.service.AllowedExtensions(),
		})
	case errors.Is(err, port.ErrNoFileProvided):
		return s.sendJSONError(c, fiber.StatusBadRequest, "No file provided")
	case errors.Is(err, port.ErrEmptyFilename):
		return s.sendJSONError(c, fiber.StatusBadRequest, "No file selected")
	case errors.Is(err, port.ErrAccessDenied):
		sdklogger.Warnw("Rejected file name outside storage root", "op", op, "file_name", fileName, "ip", c.IP())
		return s.sendJSONError(c, fiber.StatusForbidden, "Access denied")
	case errors.Is(err, port.ErrFileNotFound):
		return s.sendJSONError(c, fiber.StatusNotFound, "File not found")
	case errors.Is(err, port.ErrDeleteFailed):
		sdklogger.Errorw("Delete failed", "file_name", fileName, "error", err.Error())
		return s.sendJSONError(c, fiber.StatusInternalServerError, "Failed to delete file")
	case errors.Is(err, port.ErrListUnavailable):
		sdklogger.Errorw("Listing failed", "op", op, "error", err.Error())
		return s.sendJSONError(c, fiber.StatusInternalServerError, "Cannot read files")
	default:
		sdklogger.Errorw("Request failed", "op", op, "file_name", fileName, "error", err.Error())
		return s.sendJSONError(c, fiber.StatusInternalServerError, "Internal server error")
	}
}

// fileNameParam returns the percent-decoded :filename parameter.
// Routing matches on the raw path, so an encoded "/" arrives here intact.
func fileNameParam(c *fiber.Ctx) (string, error) {
	name, err := url.PathUnescape(c.Params("filename"))
	if err != nil {
		return "", err
	}
	return utils.CopyString(name), nil
}

func downloadURL(name string) string {
	return "/download/" + url.PathEscape(name)
}

func (s *Server) handleUpload(c *fiber.Ctx) error {
	fh, err := c.FormFile(formFileField)
	if err != nil {
		return s.sendServiceError(c, "upload", "", port.ErrNoFileProvided)
	}

	src, err := fh.Open()
	if err != nil {
		sdklogger.Errorw("Failed to open uploaded part", "file_name", fh.Filename, "error", err.Error())
		return s.sendJSONError(c, fiber.StatusInternalServerError, "Internal server error")
	}
	defer func() { _ = src.Close() }()

	res, err := s.service.Upload(c.UserContext(), fh.Filename, src, fh.Size)
	if err != nil {
		return s.sendServiceError(c, "upload", fh.Filename, err)
	}

	sdklogger.Infow("File uploaded", "original_name", res.OriginalName, "saved_as", res.StorageName, "size", res.Size)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":       "File uploaded successfully",
		"original_name": res.OriginalName,
		"saved_as":      res.StorageName,
		"size_mb":       domain.SizeMB(res.Size),
		"uploaded_at":   res.UploadedAt.Format(domain.ListTimeLayout),
		"download_url":  downloadURL(res.StorageName),
	})
}

func (s *Server) handleDownload(c *fiber.Ctx) error {
	fileName, err := fileNameParam(c)
	if err != nil {
		return s.sendJSONError(c, fiber.StatusBadRequest, "Invalid file name")
	}

	meta, reader, err := s.service.Download(c.UserContext(), fileName)
	if err != nil {
		return s.sendServiceError(c, "download", fileName, err)
	}

	tag := weakETag(meta)
	c.Set(fiber.HeaderETag, tag)
	c.Set(fiber.HeaderLastModified, meta.ModTime.UTC().Format(http.TimeFormat))
	c.Set(fiber.HeaderXContentTypeOptions, "nosniff")

	if etagMatches(c.Get(fiber.HeaderIfNoneMatch), tag) {
		_ = reader.Close()
		c.Status(fiber.StatusNotModified)
		return nil
	}

	c.Attachment(meta.Name)
	// fasthttp closes the reader once the body is written.
	return c.SendStream(reader, int(meta.Size))
}

func (s *Server) handleList(c *fiber.Ctx) error {
	listing, err := s.service.List(c.UserContext())
	if err != nil {
		return s.sendServiceError(c, "list", "", err)
	}

	files := make([]fiber.Map, 0, listing.Count())
	for _, f := range listing.Files {
		files = append(files, fiber.Map{
			"filename":     f.Name,
			"size_mb":      f.SizeMB(),
			"uploaded":     f.ModTime.Format(domain.ListTimeLayout),
			"download_url": downloadURL(f.Name),
		})
	}

	return c.JSON(fiber.Map{
		"total_files":   listing.Count(),
		"total_size_mb": domain.SizeMB(listing.TotalSize),
		"files":         files,
	})
}

func (s *Server) handleDelete(c *fiber.Ctx) error {
	fileName, err := fileNameParam(c)
	if err != nil {
		return s.sendJSONError(c, fiber.StatusBadRequest, "Invalid file name")
	}

	deleted, err := s.service.Delete(c.UserContext(), fileName)
	if err != nil {
		return s.sendServiceError(c, "delete", fileName, err)
	}

	sdklogger.Infow("File deleted", "file_name", deleted.Name, "size", deleted.Size)

	return c.JSON(fiber.Map{
		"message":  "File deleted successfully",
		"filename": deleted.Name,
	})
}

func (s *Server) handleInfo(c *fiber.Ctx) error {
	info, err := s.service.Info(c.UserContext())
	if err != nil {
		return s.sendServiceError(c, "info", "", err)
	}

	return c.JSON(fiber.Map{
		"api_name":          apiName,
		"version":           apiVersion,
		"security_features": securityFeatures,
		"config": fiber.Map{
			"upload_folder":      s.cfg.Storage.RootDir,
			"max_file_size_mb":   float64(info.MaxFileSize) / (1024 * 1024),
			"allowed_extensions": info.AllowedExtensions,
			"blocked_extensions": info.BlockedExtensions,
		},
		"statistics": fiber.Map{
			"total_files": info.TotalFiles,
		},
		"endpoints": fiber.Map{
			"upload":   "POST /upload",
			"download": "GET /download/<filename>",
			"list":     "GET /files",
			"delete":   "DELETE /delete/<filename>",
			"info":     "GET /info",
		},
	})
}
