package service

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/justaleaf/audiovault/database"
	"github.com/justaleaf/audiovault/database/model"
	"github.com/justaleaf/audiovault/logger"
)

var ErrAudioNotFound = errors.New("audio file not found")

// allowedContentTypes is the fixed allow-list for uploaded audio.
var allowedContentTypes = map[string]bool{
	"audio/mpeg": true,
	"audio/wav":  true,
	"audio/ogg":  true,
	"audio/flac": true,
}

// IsAllowedContentType reports whether the declared MIME type may be uploaded.
func IsAllowedContentType(contentType string) bool {
	return allowedContentTypes[contentType]
}

type AudioService struct {
	storageRoot string
}

func NewAudioService(storageRoot string) *AudioService {
	return &AudioService{storageRoot: storageRoot}
}

// FilePath computes the storage location for an owner's title.
func (s *AudioService) FilePath(ownerId int, title string) string {
	return filepath.Join(s.storageRoot, strconv.Itoa(ownerId), title)
}

// CreateAudioFile persists the record, establishing id and path. Bytes are
// written separately by SaveUpload.
func (s *AudioService) CreateAudioFile(title string, ownerId int) (*model.AudioFile, error) {
	audio := &model.AudioFile{
		Title:   title,
		Path:    s.FilePath(ownerId, title),
		OwnerId: ownerId,
	}
	if err := database.GetDB().Create(audio).Error; err != nil {
		return nil, err
	}
	return audio, nil
}

// SaveUpload streams the uploaded bytes to the record's path.
func (s *AudioService) SaveUpload(audio *model.AudioFile, src io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(audio.Path), 0o770); err != nil {
		return err
	}
	dst, err := os.Create(audio.Path)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}

func (s *AudioService) ListByOwner(ownerId int) ([]model.AudioFile, error) {
	var files []model.AudioFile
	err := database.GetDB().
		Where("owner_id = ?", ownerId).
		Order("id ASC").
		Find(&files).
		Error
	if err != nil {
		return nil, err
	}
	return files, nil
}

// DeleteAudioFile removes the record matching both id and owner, then the
// backing file. Deleting a nonexistent record reports ErrAudioNotFound.
func (s *AudioService) DeleteAudioFile(id int, ownerId int) error {
	audio := &model.AudioFile{}
	err := database.GetDB().
		Where("id = ? AND owner_id = ?", id, ownerId).
		First(audio).
		Error
	if database.IsNotFound(err) {
		return ErrAudioNotFound
	} else if err != nil {
		return err
	}

	if err := database.GetDB().Delete(audio).Error; err != nil {
		return err
	}

	if err := os.Remove(audio.Path); err != nil && !os.IsNotExist(err) {
		logger.Warning("remove audio file:", err)
	}
	return nil
}
