package upload

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zonagamer/zonagamer-backend/internal/config"
	"github.com/zonagamer/zonagamer-backend/internal/pkg/apperror"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&UploadedFile{}))

	cfg := &config.Config{
		Upload: config.UploadConfig{
			MaxSize:           1 << 20,
			AllowedExtensions: []string{"jpg", "jpeg", "png", "gif", "webp"},
			LocalPath:         t.TempDir(),
			PublicBaseURL:     "/uploads",
		},
	}
	return NewService(db, cfg)
}

func multipartFile(t *testing.T, filename string, content []byte) (multipart.File, *multipart.FileHeader) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	file, header, err := req.FormFile("file")
	require.NoError(t, err)
	return file, header
}

func TestUploadImage(t *testing.T) {
	svc := newTestService(t)

	file, header := multipartFile(t, "consola.png", []byte("fake png bytes"))
	defer file.Close()

	uploaded, err := svc.UploadImage(&ImageUploadRequest{
		File:       file,
		Header:     header,
		UploadedBy: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, "consola.png", uploaded.OriginalName)
	assert.True(t, strings.HasSuffix(uploaded.Filename, ".png"))
	assert.NotEqual(t, "consola.png", uploaded.Filename)
	assert.Equal(t, "image/png", uploaded.MimeType)
	assert.True(t, strings.HasPrefix(uploaded.URL, "/uploads/"))

	data, err := os.ReadFile(filepath.Join(svc.config.Upload.LocalPath, uploaded.Path))
	require.NoError(t, err)
	assert.Equal(t, []byte("fake png bytes"), data)
}

func TestUploadImageRejectsDisallowedExtension(t *testing.T) {
	svc := newTestService(t)

	file, header := multipartFile(t, "malware.exe", []byte("nope"))
	defer file.Close()

	_, err := svc.UploadImage(&ImageUploadRequest{File: file, Header: header, UploadedBy: 1})
	require.Error(t, err)
	assert.Equal(t, apperror.CodeValidation, apperror.CodeOf(err))
}

func TestUploadImageRejectsOversizedFile(t *testing.T) {
	svc := newTestService(t)
	svc.config.Upload.MaxSize = 10

	file, header := multipartFile(t, "grande.jpg", bytes.Repeat([]byte("x"), 100))
	defer file.Close()

	_, err := svc.UploadImage(&ImageUploadRequest{File: file, Header: header, UploadedBy: 1})
	require.Error(t, err)
	assert.Equal(t, apperror.CodeValidation, apperror.CodeOf(err))
}

func TestDeleteImageRemovesFile(t *testing.T) {
	svc := newTestService(t)

	file, header := multipartFile(t, "teclado.jpg", []byte("jpg bytes"))
	defer file.Close()

	uploaded, err := svc.UploadImage(&ImageUploadRequest{File: file, Header: header, UploadedBy: 1})
	require.NoError(t, err)

	fullPath := filepath.Join(svc.config.Upload.LocalPath, uploaded.Path)
	_, err = os.Stat(fullPath)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteImage(uploaded.ID))

	_, err = os.Stat(fullPath)
	assert.True(t, os.IsNotExist(err))

	err = svc.DeleteImage(uploaded.ID)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeNotFound, apperror.CodeOf(err))
}

func TestGetImagesPagination(t *testing.T) {
	svc := newTestService(t)

	for i := 0; i < 5; i++ {
		file, header := multipartFile(t, fmt.Sprintf("foto-%d.png", i), []byte("bytes"))
		_, err := svc.UploadImage(&ImageUploadRequest{File: file, Header: header, UploadedBy: 1})
		file.Close()
		require.NoError(t, err)
	}

	resp, err := svc.GetImages(1, 2)
	require.NoError(t, err)
	assert.Len(t, resp.Images, 2)
	assert.Equal(t, 5, resp.Pagination.Total)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
	assert.True(t, resp.Pagination.HasNext)
	assert.False(t, resp.Pagination.HasPrev)
}
