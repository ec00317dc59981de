package filestorage

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// uploadHeader builds a real multipart.FileHeader the way gin hands it to us.
func uploadHeader(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("photo", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(&buf, writer.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	return form.File["photo"][0]
}

func TestSaveAndDeleteFileInSubdirectory(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)

	url, err := storage.SaveFileWithPath(uploadHeader(t, "avatar.png", "img-bytes"), "avatars")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:8080/uploads/avatars/"), url)

	// GetFullPath must resolve into the avatars subdirectory
	fullPath := storage.GetFullPath(url)
	require.NotEmpty(t, fullPath)
	assert.Equal(t, "avatars", filepath.Base(filepath.Dir(fullPath)))
	_, err = os.Stat(fullPath)
	require.NoError(t, err)

	require.NoError(t, storage.DeleteFile(url))
	_, err = os.Stat(fullPath)
	assert.True(t, os.IsNotExist(err), "file should be gone after DeleteFile")
}

func TestSaveAndDeleteFileAtRoot(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)

	url, err := storage.SaveFile(uploadHeader(t, "doc.pdf", "pdf-bytes"))
	require.NoError(t, err)

	fullPath := storage.GetFullPath(url)
	_, err = os.Stat(fullPath)
	require.NoError(t, err)

	require.NoError(t, storage.DeleteFile(url))
	_, err = os.Stat(fullPath)
	assert.True(t, os.IsNotExist(err))
}

func TestDeleteFileMissingIsNotAnError(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)

	assert.NoError(t, storage.DeleteFile("http://localhost:8080/uploads/avatars/never-existed.png"))
	assert.NoError(t, storage.DeleteFile(""))
}

func TestDeleteFileRejectsTraversal(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)

	assert.Error(t, storage.DeleteFile("http://localhost:8080/uploads/../../etc/passwd"))
	assert.Empty(t, storage.GetFullPath("http://localhost:8080/uploads/../secrets"))
}

func TestGetFullPathRejectsForeignURL(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)

	assert.Empty(t, storage.GetFullPath("https://evil.example.com/payload.bin"))
}
