package service

import (
	"errors"
	"mime/multipart"
	"strings"

	"pos-backoffice/internal/form"
	"pos-backoffice/internal/model"
	"pos-backoffice/internal/storage"
	"pos-backoffice/internal/ws"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// isDuplicate reports a unique constraint violation. Drivers without error
// translation are matched on their message.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func actorName(actor *model.User) string {
	if actor == nil {
		return "system"
	}
	return actor.Username
}

func fieldError(field, msg string) error {
	errs := &form.Errors{}
	errs.Add(field, msg)
	return errs
}

// activity wraps the hub so services can run without one
type activity struct {
	pub ws.Publisher
}

func (a activity) emit(action, entity string, id uint, actor *model.User, message string) {
	if a.pub == nil {
		return
	}
	a.pub.Publish(ws.Event{
		Action:  action,
		Entity:  entity,
		ID:      id,
		User:    actorName(actor),
		Message: message,
	})
}

// images stores uploads through the configured provider
type images struct {
	store storage.Provider
}

func (i images) save(folder, field string, fh *multipart.FileHeader) (*string, error) {
	if fh == nil {
		return nil, nil
	}
	if i.store == nil {
		return nil, fieldError(field, "File uploads are not configured.")
	}
	key, err := storage.SaveUpload(i.store, folder, fh)
	if err != nil {
		zap.S().Warnf("upload %s rejected: %v", fh.Filename, err)
		return nil, fieldError(field, "Upload a valid image.")
	}
	return &key, nil
}

// discard removes a stored image, logging instead of failing
func (i images) discard(key *string) {
	if key == nil || *key == "" || i.store == nil {
		return
	}
	if err := i.store.Delete(*key); err != nil {
		zap.S().Warnf("remove stored image %s: %v", *key, err)
	}
}
