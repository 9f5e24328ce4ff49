package repotest

import (
	"errors"
	"mime/multipart"
	"net/textproto"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// FileStore keeps uploaded files in memory, keyed by generated filename.
type FileStore struct {
	mu    sync.Mutex
	files map[string]string

	FailSave error
}

func NewFileStore() *FileStore {
	return &FileStore{files: make(map[string]string)}
}

func (s *FileStore) Save(file *multipart.FileHeader) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailSave != nil {
		return "", s.FailSave
	}
	name := uuid.New().String() + "-" + file.Filename
	s.files[name] = file.Filename
	return name, nil
}

func (s *FileStore) Remove(filename string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[filename]; !ok {
		return errors.New("file not found")
	}
	delete(s.files, filename)
	return nil
}

// Files lists the stored filenames in sorted order.
func (s *FileStore) Files() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.files))
	for name := range s.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ImageUpload builds a file header that passes upload validation without
// touching the filesystem.
func ImageUpload(filename, contentType string, size int64) *multipart.FileHeader {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Type", contentType)
	return &multipart.FileHeader{
		Filename: filename,
		Header:   header,
		Size:     size,
	}
}
