package handler

import (
	"mime/multipart"
	"strings"

	"pos-backoffice/internal/form"

	"github.com/gofiber/fiber/v2"
)

// bindValues reads the request body into form.Values. urlencoded,
// multipart and flat JSON bodies are accepted.
func bindValues(c *fiber.Ctx) (form.Values, error) {
	ct := strings.ToLower(string(c.Request().Header.ContentType()))
	values := form.Values{}

	switch {
	case strings.HasPrefix(ct, fiber.MIMEApplicationJSON):
		if len(c.Body()) == 0 {
			return values, nil
		}
		var raw map[string]interface{}
		if err := c.BodyParser(&raw); err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid JSON")
		}
		return form.FromAny(raw), nil

	case strings.HasPrefix(ct, fiber.MIMEMultipartForm):
		mf, err := c.MultipartForm()
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid form data")
		}
		for k, v := range mf.Value {
			if len(v) > 0 {
				values[k] = v[0]
			}
		}
		return values, nil

	default:
		c.Request().PostArgs().VisitAll(func(key, value []byte) {
			values[string(key)] = string(value)
		})
		return values, nil
	}
}

func isJSONBody(c *fiber.Ctx) bool {
	return strings.HasPrefix(strings.ToLower(string(c.Request().Header.ContentType())), fiber.MIMEApplicationJSON)
}

// uncheckedBoxes marks absent checkbox fields as submitted but off. HTML
// forms leave unchecked boxes out of the body; JSON clients omit a key to
// keep the stored value.
func uncheckedBoxes(c *fiber.Ctx, values form.Values, fields ...string) {
	if isJSONBody(c) {
		return
	}
	for _, field := range fields {
		if !values.Has(field) {
			values[field] = ""
		}
	}
}

// uploadedFile returns the named multipart file, or nil if none was sent
func uploadedFile(c *fiber.Ctx, field string) *multipart.FileHeader {
	if !strings.HasPrefix(strings.ToLower(string(c.Request().Header.ContentType())), fiber.MIMEMultipartForm) {
		return nil
	}
	fh, err := c.FormFile(field)
	if err != nil || fh.Size == 0 {
		return nil
	}
	return fh
}

// paramID reads the :id route parameter; malformed ids are not found
func paramID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fiber.ErrNotFound
	}
	return uint(id), nil
}

// searchQuery returns ?search= as typed; only an empty value disables
// filtering.
func searchQuery(c *fiber.Ctx) string {
	return c.Query("search")
}
