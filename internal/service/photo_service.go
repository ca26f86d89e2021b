package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/njprem/Travel_planner_APP_BackEnd/internal/domain"
	"github.com/njprem/Travel_planner_APP_BackEnd/internal/media"
	"github.com/njprem/Travel_planner_APP_BackEnd/internal/repository/ports"
)

var (
	ErrPhotoAlreadyLinked = errors.New("photo already linked to destination")
	ErrPhotoTooLarge      = fmt.Errorf("%w: photo exceeds size limit", ErrBadRequest)
	ErrPhotoUnsupported   = fmt.Errorf("%w: unsupported photo type", ErrBadRequest)
	ErrPhotoRequired      = fmt.Errorf("%w: photo file is required", ErrBadRequest)
)

type PhotoServiceConfig struct {
	MaxBytes           int64
	MaxDimension       int
	ThumbnailDimension int
	Processor          media.Processor
	Logger             logrus.FieldLogger
}

type PhotoUpload struct {
	Reader      io.Reader
	Size        int64
	FileName    string
	ContentType string
	IsPublic    bool
}

const defaultMaxPhotoBytes = int64(10 * 1024 * 1024)

var allowedPhotoTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
}

// PhotoService manages personal photos and their links to destinations.
type PhotoService struct {
	photos       ports.PhotoRepository
	links        ports.DestinationPhotoRepository
	destinations ports.DestinationRepository
	storage      ports.ObjectStorage
	tx           ports.TxRunner
	lifecycle    *LifecycleManager

	processor media.Processor
	maxBytes  int64
	renderOpt media.Options
	log       logrus.FieldLogger
}

func NewPhotoService(
	photos ports.PhotoRepository,
	links ports.DestinationPhotoRepository,
	destinations ports.DestinationRepository,
	storage ports.ObjectStorage,
	tx ports.TxRunner,
	lifecycle *LifecycleManager,
	cfg PhotoServiceConfig,
) *PhotoService {
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxPhotoBytes
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &PhotoService{
		photos:       photos,
		links:        links,
		destinations: destinations,
		storage:      storage,
		tx:           tx,
		lifecycle:    lifecycle,
		processor:    cfg.Processor,
		maxBytes:     maxBytes,
		renderOpt: media.Options{
			MaxDimension:       cfg.MaxDimension,
			ThumbnailDimension: cfg.ThumbnailDimension,
		},
		log: logger.WithField("component", "photos"),
	}
}

// Upload stores a personal photo and its thumbnail for ownerID.
func (s *PhotoService) Upload(ctx context.Context, actor Actor, ownerID uuid.UUID, upload PhotoUpload) (*domain.Photo, error) {
	if err := actor.requireActsFor(ownerID); err != nil {
		return nil, err
	}
	if upload.Reader == nil {
		return nil, ErrPhotoRequired
	}
	if upload.Size > s.maxBytes {
		return nil, ErrPhotoTooLarge
	}
	contentType := media.NormalizeContentType(upload.ContentType, upload.FileName)
	if _, ok := allowedPhotoTypes[contentType]; !ok {
		return nil, ErrPhotoUnsupported
	}

	full, thumb, err := s.render(ctx, upload, contentType)
	if err != nil {
		return nil, err
	}

	base := fmt.Sprintf("photos/%s/%s", ownerID, uuid.New())
	objectKey := base + media.Extension(full.ContentType)
	url, err := s.storage.Upload(ctx, objectKey, full.ContentType, bytes.NewReader(full.Bytes), int64(len(full.Bytes)))
	if err != nil {
		return nil, storageErr("upload photo", err)
	}
	uploaded := []string{objectKey}

	photo := &domain.Photo{
		OwnerID:     ownerID,
		ObjectKey:   objectKey,
		URL:         url,
		ContentType: full.ContentType,
		IsPublic:    upload.IsPublic,
	}
	if thumb != nil {
		thumbKey := base + "_thumb" + media.Extension(thumb.ContentType)
		thumbURL, err := s.storage.Upload(ctx, thumbKey, thumb.ContentType, bytes.NewReader(thumb.Bytes), int64(len(thumb.Bytes)))
		if err != nil {
			s.discard(ctx, uploaded)
			return nil, storageErr("upload thumbnail", err)
		}
		uploaded = append(uploaded, thumbKey)
		photo.ThumbnailKey = &thumbKey
		photo.ThumbnailURL = &thumbURL
	}

	created, err := s.photos.Create(ctx, photo)
	if err != nil {
		s.discard(ctx, uploaded)
		return nil, storageErr("create photo", err)
	}
	return created, nil
}

func (s *PhotoService) render(ctx context.Context, upload PhotoUpload, contentType string) (*media.Rendition, *media.Rendition, error) {
	if s.processor == nil {
		data, err := io.ReadAll(upload.Reader)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: unreadable photo", ErrBadRequest)
		}
		if len(data) == 0 {
			return nil, nil, ErrPhotoRequired
		}
		return &media.Rendition{Bytes: data, ContentType: contentType}, nil, nil
	}
	variants, err := s.processor.Render(ctx, media.Upload{
		Reader:      upload.Reader,
		Size:        upload.Size,
		FileName:    upload.FileName,
		ContentType: contentType,
	}, s.renderOpt)
	if err != nil {
		if errors.Is(err, media.ErrUnsupportedType) {
			return nil, nil, ErrPhotoUnsupported
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return &variants.Full, &variants.Thumbnail, nil
}

func (s *PhotoService) discard(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.storage.Remove(ctx, key); err != nil {
			s.log.WithError(err).WithField("object_key", key).Warn("remove orphaned blob")
		}
	}
}

// ListForUser returns ownerID's photos. Other users only see public ones.
func (s *PhotoService) ListForUser(ctx context.Context, actor Actor, ownerID uuid.UUID) ([]domain.Photo, error) {
	photos, err := s.photos.ListByOwner(ctx, ownerID, !actor.ActsFor(ownerID))
	if err != nil {
		return nil, storageErr("list photos", err)
	}
	return photos, nil
}

func (s *PhotoService) Delete(ctx context.Context, actor Actor, ownerID, photoID uuid.UUID) error {
	photo, err := s.findOwned(ctx, ownerID, photoID, false)
	if err != nil {
		return err
	}
	if err := actor.requireActsFor(photo.OwnerID); err != nil {
		return err
	}
	_, err = s.lifecycle.Delete(ctx, domain.EntityPhoto, photo.ID)
	return err
}

func (s *PhotoService) Undo(ctx context.Context, actor Actor, ownerID, photoID uuid.UUID) (*domain.Photo, error) {
	photo, err := s.findOwned(ctx, ownerID, photoID, true)
	if err != nil {
		return nil, err
	}
	if err := actor.requireActsFor(photo.OwnerID); err != nil {
		return nil, err
	}
	if err := s.lifecycle.Undo(ctx, domain.EntityPhoto, photo.ID, photo.Deleted); err != nil {
		return nil, err
	}
	photo.Restore()
	return photo, nil
}

func (s *PhotoService) findOwned(ctx context.Context, ownerID, photoID uuid.UUID, includeDeleted bool) (*domain.Photo, error) {
	photo, err := s.photos.FindByID(ctx, photoID, includeDeleted)
	if err != nil {
		return nil, lookupErr("find photo", err, ErrPhotoNotFound)
	}
	if photo.OwnerID != ownerID {
		return nil, ErrPhotoNotFound
	}
	return photo, nil
}

// Attach links one of the actor's photos to a destination. A public
// destination still attributed to another user loses that owner.
func (s *PhotoService) Attach(ctx context.Context, actor Actor, destinationID, photoID uuid.UUID) (*domain.DestinationPhoto, error) {
	dest, err := s.destinations.FindByID(ctx, destinationID, false)
	if err != nil {
		return nil, lookupErr("find destination", err, ErrDestinationNotFound)
	}
	if !canView(actor, dest) {
		return nil, ErrForbidden
	}
	photo, err := s.photos.FindByID(ctx, photoID, false)
	if err != nil {
		return nil, lookupErr("find photo", err, ErrPhotoNotFound)
	}
	if err := actor.requireActsFor(photo.OwnerID); err != nil {
		return nil, err
	}

	existing, err := s.links.Find(ctx, destinationID, photoID, true)
	switch {
	case err == nil && !existing.Deleted:
		return nil, ErrPhotoAlreadyLinked
	case err != nil && !isNotFound(err):
		return nil, storageErr("find photo link", err)
	}

	var link *domain.DestinationPhoto
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if existing != nil {
			if err := s.lifecycle.Undo(ctx, domain.EntityDestinationPhoto, existing.ID, true); err != nil {
				return err
			}
			existing.Restore()
			link = existing
		} else {
			created, err := s.links.Create(ctx, destinationID, photoID)
			if err != nil {
				if isUniqueViolation(err) {
					return ErrPhotoAlreadyLinked
				}
				return storageErr("link photo", err)
			}
			link = created
		}
		if cleared, changed := MaybeClearOwner(*dest, actor.ID); changed {
			if _, err := s.destinations.Update(ctx, &cleared); err != nil {
				return storageErr("clear destination owner", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return link, nil
}

// ListForDestination returns the photo links an actor may see: admins see
// all of them, everyone else public photos plus their own.
func (s *PhotoService) ListForDestination(ctx context.Context, actor Actor, destinationID uuid.UUID) ([]domain.DestinationPhoto, error) {
	dest, err := s.destinations.FindByID(ctx, destinationID, false)
	if err != nil {
		return nil, lookupErr("find destination", err, ErrDestinationNotFound)
	}
	if !canView(actor, dest) {
		return nil, ErrForbidden
	}
	links, err := s.links.ListByDestination(ctx, destinationID)
	if err != nil {
		return nil, storageErr("list destination photos", err)
	}
	if actor.Admin {
		return links, nil
	}
	visible := make([]domain.DestinationPhoto, 0, len(links))
	for _, l := range links {
		if l.PhotoIsPublic || l.PhotoOwnerID == actor.ID {
			visible = append(visible, l)
		}
	}
	return visible, nil
}

func (s *PhotoService) Detach(ctx context.Context, actor Actor, destinationID, photoID uuid.UUID) error {
	link, err := s.links.Find(ctx, destinationID, photoID, false)
	if err != nil {
		return lookupErr("find photo link", err, ErrPhotoNotFound)
	}
	if err := actor.requireActsFor(link.PhotoOwnerID); err != nil {
		return err
	}
	_, err = s.lifecycle.Delete(ctx, domain.EntityDestinationPhoto, link.ID)
	return err
}

func (s *PhotoService) UndoDetach(ctx context.Context, actor Actor, destinationID, photoID uuid.UUID) (*domain.DestinationPhoto, error) {
	link, err := s.links.Find(ctx, destinationID, photoID, true)
	if err != nil {
		return nil, lookupErr("find photo link", err, ErrPhotoNotFound)
	}
	if err := actor.requireActsFor(link.PhotoOwnerID); err != nil {
		return nil, err
	}
	if err := s.lifecycle.Undo(ctx, domain.EntityDestinationPhoto, link.ID, link.Deleted); err != nil {
		return nil, err
	}
	link.Restore()
	return link, nil
}
