package usecase

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"catalog-console/internal/data/entity"
	"catalog-console/internal/data/repository"
	"catalog-console/internal/dto/request"
	"catalog-console/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type trackedBody struct {
	io.Reader
	closed bool
}

func (b *trackedBody) Close() error {
	b.closed = true
	return nil
}

func newFile(name, data string) (*UploadFile, *trackedBody) {
	body := &trackedBody{Reader: strings.NewReader(data)}
	return &UploadFile{Name: name, ContentType: "application/octet-stream", Body: body}, body
}

func newContentService(fake *testutil.Backend, now time.Time) *contentService {
	repo := repository.NewRepository(fake.Client(), zap.NewNop())
	svc := NewContentService(repo, zap.NewNop()).(*contentService)
	svc.now = func() time.Time { return now }
	return svc
}

func TestContentService_Submit(t *testing.T) {
	ctx := context.Background()
	now := time.UnixMilli(1700000000123)

	t.Run("Poster Only", func(t *testing.T) {
		fake := testutil.NewBackend()
		svc := newContentService(fake, now)

		form := &ContentForm{ContentRequest: request.ContentRequest{
			Title:       "8.5",
			Description: "Streaming",
			ReleaseYear: "Series",
			Genres:      []string{"Mystery", "Romance"},
			WatchAge:    "PG-13",
		}}
		poster, body := newFile("poster.png", "png-bytes")
		form.SetFile(entity.AssetPoster, poster)

		record, err := svc.Submit(ctx, "session-1", form)
		require.NoError(t, err)

		require.NotNil(t, record.PosterURL)
		assert.Equal(t, "https://cdn.test/media/posters/1700000000123-poster.png", *record.PosterURL)
		assert.Nil(t, record.BackdropURL)
		assert.Nil(t, record.VideoURL)
		assert.Equal(t, "png-bytes", string(fake.Objects["posters/1700000000123-poster.png"]))

		rows := fake.Rows[repository.TableContent]
		require.Len(t, rows, 1)
		assert.Equal(t, "8.5", rows[0]["title"])
		assert.Equal(t, "Series", rows[0]["release_year"])
		assert.Equal(t, []any{"Mystery", "Romance"}, rows[0]["genres"])
		assert.Equal(t, *record.PosterURL, rows[0]["poster_url"])
		assert.Nil(t, rows[0]["backdrop_url"])

		assert.True(t, body.closed)
		assert.Equal(t, request.ContentRequest{}, form.ContentRequest)
		assert.Nil(t, form.File(entity.AssetPoster))
	})

	t.Run("Uploads In Kind Order Under One Timestamp", func(t *testing.T) {
		fake := testutil.NewBackend()
		svc := newContentService(fake, now)

		form := &ContentForm{}
		video, _ := newFile("clip.mp4", "v")
		poster, _ := newFile("p.jpg", "p")
		backdrop, _ := newFile("b.jpg", "b")
		form.SetFile(entity.AssetVideo, video)
		form.SetFile(entity.AssetPoster, poster)
		form.SetFile(entity.AssetBackdrop, backdrop)

		record, err := svc.Submit(ctx, "session-1", form)
		require.NoError(t, err)
		assert.Equal(t, []string{"storage.upload", "storage.upload", "storage.upload", "content.insert"}, fake.Calls)
		assert.Contains(t, fake.Objects, "posters/1700000000123-p.jpg")
		assert.Contains(t, fake.Objects, "backdrops/1700000000123-b.jpg")
		assert.Contains(t, fake.Objects, "videos/1700000000123-clip.mp4")
		assert.NotNil(t, record.VideoURL)
	})

	t.Run("Upload Failure Aborts And Keeps Fields", func(t *testing.T) {
		fake := testutil.NewBackend()
		fake.Fail["storage.upload"] = testutil.BackendError("new row violates row-level security policy")
		svc := newContentService(fake, now)

		form := &ContentForm{ContentRequest: request.ContentRequest{Title: "9", WatchAge: "R"}}
		poster, _ := newFile("poster.png", "x")
		form.SetFile(entity.AssetPoster, poster)

		record, err := svc.Submit(ctx, "session-1", form)
		assert.Nil(t, record)
		require.Error(t, err)
		assert.Equal(t, "new row violates row-level security policy", UserMessage(err))
		assert.Zero(t, fake.Count("content.insert"))
		assert.Equal(t, "9", form.Title)
		assert.Equal(t, "R", form.WatchAge)
		assert.NotNil(t, form.File(entity.AssetPoster))
	})

	t.Run("Insert Failure Keeps Fields", func(t *testing.T) {
		fake := testutil.NewBackend()
		fake.Fail["content.insert"] = testutil.BackendError(`relation "public.content" does not exist`)
		svc := newContentService(fake, now)

		form := &ContentForm{ContentRequest: request.ContentRequest{Title: "7"}}
		_, err := svc.Submit(ctx, "session-1", form)
		require.Error(t, err)
		assert.Equal(t, `relation "public.content" does not exist`, UserMessage(err))
		assert.Equal(t, "7", form.Title)
	})

	t.Run("Unknown Genre Is Rejected Locally", func(t *testing.T) {
		fake := testutil.NewBackend()
		svc := newContentService(fake, now)

		form := &ContentForm{ContentRequest: request.ContentRequest{Genres: []string{"Horror"}}}
		_, err := svc.Submit(ctx, "session-1", form)
		require.Error(t, err)
		assert.Contains(t, UserMessage(err), "Must be one of")
		assert.Empty(t, fake.Calls)
	})

	t.Run("One Submission Per Session", func(t *testing.T) {
		fake := testutil.NewBackend()
		svc := newContentService(fake, now)
		require.True(t, svc.acquire("session-1"))

		_, err := svc.Submit(ctx, "session-1", &ContentForm{})
		assert.ErrorIs(t, err, ErrUploadInProgress)
		assert.Equal(t, "an upload is already in progress", UserMessage(err))
		assert.Empty(t, fake.Calls)

		_, err = svc.Submit(ctx, "session-2", &ContentForm{})
		assert.NoError(t, err)

		svc.release("session-1")
		_, err = svc.Submit(ctx, "session-1", &ContentForm{})
		assert.NoError(t, err)
	})
}

func TestContentForm_Files(t *testing.T) {
	form := &ContentForm{}
	first, firstBody := newFile("a.png", "a")
	second, secondBody := newFile("b.png", "b")

	form.SetFile(entity.AssetPoster, first)
	form.SetFile(entity.AssetPoster, second)
	assert.True(t, firstBody.closed)
	assert.False(t, secondBody.closed)
	assert.Equal(t, second, form.File(entity.AssetPoster))

	form.Title = "kept"
	form.Close()
	assert.True(t, secondBody.closed)
	assert.Nil(t, form.File(entity.AssetPoster))
	assert.Equal(t, "kept", form.Title)
}
