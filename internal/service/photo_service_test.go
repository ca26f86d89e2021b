package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/njprem/Travel_planner_APP_BackEnd/internal/domain"
	"github.com/njprem/Travel_planner_APP_BackEnd/internal/media"
)

func jpegUpload(public bool) PhotoUpload {
	data := []byte("\xff\xd8\xff\xe0fake-jpeg")
	return PhotoUpload{
		Reader:      bytes.NewReader(data),
		Size:        int64(len(data)),
		FileName:    "machu.jpg",
		ContentType: "image/jpeg",
		IsPublic:    public,
	}
}

func TestPhotoService_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("stores full size and thumbnail", func(t *testing.T) {
		f := newFixture()
		photo, err := f.photoSvc.Upload(ctx, f.user1, f.user1.ID, jpegUpload(true))
		if err != nil {
			t.Fatalf("Upload: %v", err)
		}
		if f.processor.calls != 1 {
			t.Fatalf("expected processor to run once, got %d", f.processor.calls)
		}
		if !strings.HasPrefix(photo.ObjectKey, "photos/"+f.user1.ID.String()+"/") || !strings.HasSuffix(photo.ObjectKey, ".jpg") {
			t.Fatalf("unexpected object key %q", photo.ObjectKey)
		}
		if photo.ThumbnailKey == nil || !f.storage.has(*photo.ThumbnailKey) || !f.storage.has(photo.ObjectKey) {
			t.Fatalf("expected both blobs uploaded")
		}
		if !photo.IsPublic || photo.URL == "" {
			t.Fatalf("unexpected photo %+v", photo)
		}
	})

	t.Run("rejects bad uploads", func(t *testing.T) {
		f := newFixture()
		f.photoSvc = NewPhotoService(f.photos, f.links, f.destinations, f.storage, f.tx, f.lifecycle, PhotoServiceConfig{
			MaxBytes:  8,
			Processor: f.processor,
		})

		if _, err := f.photoSvc.Upload(ctx, f.user1, f.user1.ID, PhotoUpload{}); !errors.Is(err, ErrPhotoRequired) {
			t.Fatalf("expected ErrPhotoRequired, got %v", err)
		}
		if _, err := f.photoSvc.Upload(ctx, f.user1, f.user1.ID, jpegUpload(false)); !errors.Is(err, ErrPhotoTooLarge) {
			t.Fatalf("expected ErrPhotoTooLarge, got %v", err)
		}
		gif := PhotoUpload{Reader: strings.NewReader("GIF"), Size: 3, FileName: "x.gif", ContentType: "image/gif"}
		if _, err := f.photoSvc.Upload(ctx, f.user1, f.user1.ID, gif); !errors.Is(err, ErrPhotoUnsupported) {
			t.Fatalf("expected ErrPhotoUnsupported, got %v", err)
		}
		if _, err := f.photoSvc.Upload(ctx, f.user2, f.user1.ID, jpegUpload(false)); !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("processor rejection is a bad request", func(t *testing.T) {
		f := newFixture()
		f.processor.err = media.ErrUnsupportedType
		if _, err := f.photoSvc.Upload(ctx, f.user1, f.user1.ID, jpegUpload(false)); !errors.Is(err, ErrPhotoUnsupported) {
			t.Fatalf("expected ErrPhotoUnsupported, got %v", err)
		}
	})

	t.Run("storage failure is reported as unavailable", func(t *testing.T) {
		f := newFixture()
		f.storage.uploadErr = errors.New("minio down")
		if _, err := f.photoSvc.Upload(ctx, f.user1, f.user1.ID, jpegUpload(false)); !errors.Is(err, ErrStorageUnavailable) {
			t.Fatalf("expected ErrStorageUnavailable, got %v", err)
		}
	})
}

func TestPhotoService_AttachAndVisibility(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	dest, err := f.destinationSvc.Create(ctx, f.user1, f.user1.ID, destinationInput(true))
	if err != nil {
		t.Fatalf("Create destination: %v", err)
	}
	public, err := f.photoSvc.Upload(ctx, f.user2, f.user2.ID, jpegUpload(true))
	if err != nil {
		t.Fatalf("Upload public: %v", err)
	}
	private, err := f.photoSvc.Upload(ctx, f.user2, f.user2.ID, jpegUpload(false))
	if err != nil {
		t.Fatalf("Upload private: %v", err)
	}

	if _, err := f.photoSvc.Attach(ctx, f.user3, dest.ID, public.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden attaching someone else's photo, got %v", err)
	}

	for _, p := range []*domain.Photo{public, private} {
		if _, err := f.photoSvc.Attach(ctx, f.user2, dest.ID, p.ID); err != nil {
			t.Fatalf("Attach: %v", err)
		}
	}
	if _, err := f.photoSvc.Attach(ctx, f.user2, dest.ID, public.ID); !errors.Is(err, ErrPhotoAlreadyLinked) {
		t.Fatalf("expected ErrPhotoAlreadyLinked, got %v", err)
	}

	current, _ := f.destinations.FindByID(ctx, dest.ID, false)
	if current.OwnerID != nil {
		t.Fatalf("expected owner cleared after another user attached a photo")
	}

	seen, err := f.photoSvc.ListForDestination(ctx, f.user3, dest.ID)
	if err != nil || len(seen) != 1 || seen[0].PhotoID != public.ID {
		t.Fatalf("user3 sees %+v, %v", seen, err)
	}
	seen, err = f.photoSvc.ListForDestination(ctx, f.user2, dest.ID)
	if err != nil || len(seen) != 2 {
		t.Fatalf("owner sees %d links, %v", len(seen), err)
	}
	seen, err = f.photoSvc.ListForDestination(ctx, f.admin, dest.ID)
	if err != nil || len(seen) != 2 {
		t.Fatalf("admin sees %d links, %v", len(seen), err)
	}

	if err := f.photoSvc.Detach(ctx, f.user3, dest.ID, public.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := f.photoSvc.Detach(ctx, f.user2, dest.ID, public.ID); err != nil {
		t.Fatalf("Detach: %v", err)
	}
	if seen, _ = f.photoSvc.ListForDestination(ctx, f.user3, dest.ID); len(seen) != 0 {
		t.Fatalf("detached link still listed")
	}
	if _, err := f.photoSvc.UndoDetach(ctx, f.user2, dest.ID, public.ID); err != nil {
		t.Fatalf("UndoDetach: %v", err)
	}

	if err := f.photoSvc.Detach(ctx, f.user2, dest.ID, public.ID); err != nil {
		t.Fatalf("Detach: %v", err)
	}
	relinked, err := f.photoSvc.Attach(ctx, f.user2, dest.ID, public.ID)
	if err != nil {
		t.Fatalf("re-attach after detach: %v", err)
	}
	if relinked.Deleted {
		t.Fatalf("expected restored link")
	}
}

func TestPhotoService_DeleteAndUndo(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	photo, err := f.photoSvc.Upload(ctx, f.user1, f.user1.ID, jpegUpload(false))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if list, _ := f.photoSvc.ListForUser(ctx, f.user2, f.user1.ID); len(list) != 0 {
		t.Fatalf("private photo listed to another user")
	}
	if list, _ := f.photoSvc.ListForUser(ctx, f.user1, f.user1.ID); len(list) != 1 {
		t.Fatalf("owner should see own photo")
	}

	if err := f.photoSvc.Delete(ctx, f.user2, f.user1.ID, photo.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := f.photoSvc.Delete(ctx, f.user1, f.user1.ID, photo.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := f.photoSvc.Undo(ctx, f.user1, f.user1.ID, photo.ID); err != nil {
		t.Fatalf("Undo: %v", err)
	}

	if err := f.photoSvc.Delete(ctx, f.user1, f.user1.ID, photo.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	f.clock.Advance(time.Hour + time.Second)
	f.lifecycle.PurgeSweep(ctx)
	if f.storage.has(photo.ObjectKey) || f.storage.has(*photo.ThumbnailKey) {
		t.Fatalf("expected purge to remove blobs")
	}
	if _, err := f.photoSvc.Undo(ctx, f.user1, f.user1.ID, photo.ID); !errors.Is(err, ErrPhotoNotFound) {
		t.Fatalf("expected ErrPhotoNotFound after purge, got %v", err)
	}
}
