package services

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"findtern_backend/internal/models"
	"findtern_backend/internal/services/dto"
	"findtern_backend/internal/storage"
	"findtern_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mediaFixture struct {
	svc  MediaService
	docs *fakeDocumentRepo
	dir  string
}

func newMediaFixture(t *testing.T) *mediaFixture {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(storage.Config{BasePath: dir})
	require.NoError(t, err)

	f := &mediaFixture{docs: newFakeDocumentRepo(), dir: dir}
	users := newFakeUserRepo(&models.User{BaseModel: models.BaseModel{ID: "intern-1"}, Role: models.UserRoleIntern})
	svc := NewMediaService(f.docs, users, store, MediaConfig{
		MaxSize:           1 << 10,
		AllowedImageTypes: []string{"image/jpeg", "image/png"},
		AllowedVideoTypes: []string{"video/mp4"},
	}).(*mediaService)
	svc.now = func() time.Time { return testNow }
	f.svc = svc
	return f
}

// fileHeader собирает настоящий multipart, как его распарсит gin
func fileHeader(t *testing.T, name, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+name+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["file"][0]
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	n := 0
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			n++
		}
		return err
	})
	require.NoError(t, err)
	return n
}

func TestUploadMedia(t *testing.T) {
	f := newMediaFixture(t)
	ctx := context.Background()

	modified := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	resp, err := f.svc.UploadMedia(ctx, nil, internActor, "intern-1", models.MediaProfilePhoto,
		fileHeader(t, "me.PNG", "image/png", []byte("png-bytes")), &modified)
	require.NoError(t, err)

	assert.Equal(t, models.MediaProfilePhoto, resp.Key)
	assert.Equal(t, "me.PNG", resp.Name)
	assert.Equal(t, "image/png", resp.ContentType)
	assert.Equal(t, int64(9), resp.Size)
	assert.Equal(t, modified, resp.LastModified)
	assert.True(t, resp.Staged)
	assert.True(t, strings.HasPrefix(resp.URL, "/uploads/onboarding/intern-1/profilePhoto/"))
	assert.True(t, strings.HasSuffix(resp.URL, ".png"))
	assert.Equal(t, 1, countFiles(t, f.dir))

	// замена того же ключа удаляет старый объект
	_, err = f.svc.UploadMedia(ctx, nil, internActor, "intern-1", models.MediaProfilePhoto,
		fileHeader(t, "me2.jpg", "application/octet-stream", []byte("jpeg")), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, countFiles(t, f.dir))

	list, err := f.svc.ListMedia(ctx, nil, internActor, "intern-1")
	require.NoError(t, err)
	require.Len(t, list.Files, 1)
	assert.Equal(t, "image/jpeg", list.Files[0].ContentType)
	assert.Equal(t, testNow, list.Files[0].LastModified)
}

func TestUploadMedia_Rejects(t *testing.T) {
	f := newMediaFixture(t)
	ctx := context.Background()

	_, err := f.svc.UploadMedia(ctx, nil, internActor, "intern-1", models.MediaIntroVideo,
		fileHeader(t, "clip.png", "image/png", []byte("x")), nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidFileType)

	_, err = f.svc.UploadMedia(ctx, nil, internActor, "intern-1", models.MediaPanImage,
		fileHeader(t, "big.png", "image/png", bytes.Repeat([]byte("x"), 2<<10)), nil)
	assert.ErrorIs(t, err, apperrors.ErrFileTooLarge)

	_, err = f.svc.UploadMedia(ctx, nil, internActor, "intern-1", models.MediaKey("resume"),
		fileHeader(t, "cv.png", "image/png", []byte("x")), nil)
	requireCode(t, err, apperrors.CodeValidationFailed)

	_, err = f.svc.UploadMedia(ctx, nil, dto.Actor{ID: "intern-2", Role: models.UserRoleIntern}, "intern-1", models.MediaPanImage,
		fileHeader(t, "pan.png", "image/png", []byte("x")), nil)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)

	assert.Zero(t, countFiles(t, f.dir))
}

func TestCommitAndEvictMedia(t *testing.T) {
	f := newMediaFixture(t)
	ctx := context.Background()

	_, err := f.svc.UploadMedia(ctx, nil, internActor, "intern-1", models.MediaAadhaarImage,
		fileHeader(t, "a.jpg", "image/jpeg", []byte("a")), nil)
	require.NoError(t, err)

	committed, err := f.svc.CommitMedia(nil, internActor, "intern-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), committed.Committed)

	_, err = f.svc.UploadMedia(ctx, nil, internActor, "intern-1", models.MediaIntroVideo,
		fileHeader(t, "v.mp4", "video/mp4", []byte("v")), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, countFiles(t, f.dir))

	// закоммиченный файл воркер не трогает
	evicted, err := f.svc.EvictStaged(ctx, nil, testNow, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(1), evicted)
	assert.Equal(t, 1, countFiles(t, f.dir))

	_, err = f.svc.GetMedia(ctx, nil, internActor, "intern-1", models.MediaIntroVideo)
	requireCode(t, err, apperrors.CodeNotFound)

	got, err := f.svc.GetMedia(ctx, nil, internActor, "intern-1", models.MediaAadhaarImage)
	require.NoError(t, err)
	assert.False(t, got.Staged)
	require.NotNil(t, got.CommittedAt)

	require.NoError(t, f.svc.DeleteMedia(ctx, nil, internActor, "intern-1", models.MediaAadhaarImage))
	assert.Zero(t, countFiles(t, f.dir))
}
