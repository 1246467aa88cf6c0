package handler

import (
	"errors"
	"net/http"
	"strconv"

	"pos-backoffice/internal/storage"

	"github.com/gofiber/fiber/v2"
)

type MediaHandler struct {
	store storage.Provider
}

func NewMediaHandler(store storage.Provider) *MediaHandler {
	return &MediaHandler{store: store}
}

// Serve streams a stored image
// GET /media/*
func (h *MediaHandler) Serve(c *fiber.Ctx) error {
	key := c.Params("*")
	if key == "" {
		return fiber.ErrNotFound
	}

	obj, err := h.store.Get(key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fiber.ErrNotFound
		}
		return err
	}

	c.Set(fiber.HeaderContentType, obj.ContentType)
	if !obj.LastModified.IsZero() {
		c.Set(fiber.HeaderLastModified, obj.LastModified.UTC().Format(http.TimeFormat))
	}
	if obj.ContentLength > 0 {
		c.Set(fiber.HeaderContentLength, strconv.FormatInt(obj.ContentLength, 10))
	}
	return c.SendStream(obj.Body, int(obj.ContentLength))
}
