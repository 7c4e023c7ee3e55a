package storage

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

type DiskStorage struct {
	// BasePath is a directory (usually mount point of a disk) that is writable by the current process
	BasePath  string
	dirs      map[string]bool
	dirsMutex sync.Mutex
}

func NewDiskStorage(basePath string) (*DiskStorage, error) {
	if err := os.MkdirAll(basePath, 0777); err != nil {
		return nil, err
	}
	return &DiskStorage{
		BasePath: strings.TrimSuffix(basePath, "/"),
		dirs:     make(map[string]bool, 10),
	}, nil
}

func (s *DiskStorage) String() string {
	return "disk:" + s.BasePath
}

func (s *DiskStorage) createDir(dir string) error {
	s.dirsMutex.Lock()
	defer s.dirsMutex.Unlock()

	if ok := s.dirs[dir]; ok {
		return nil
	}
	if err := os.MkdirAll(dir, 0777); err != nil {
		return err
	}
	s.dirs[dir] = true
	return nil
}

func (s *DiskStorage) getFullPath(path string) string {
	return s.BasePath + "/" + filepath.Clean("/"+path)[1:]
}

func (s *DiskStorage) GetSize(path string) int64 {
	fi, err := os.Stat(s.getFullPath(path))
	if err != nil {
		return -1
	}
	return fi.Size()
}

func (s *DiskStorage) Save(path, mimeType string, reader io.Reader) (int64, error) {
	fileName := s.getFullPath(path)
	if err := s.createDir(filepath.Dir(fileName)); err != nil {
		return 0, err
	}
	file, err := os.Create(fileName)
	if err != nil {
		return 0, err
	}
	result, err := io.Copy(file, reader)
	file.Close()
	return result, err
}

func (s *DiskStorage) Load(path string, writer io.Writer) (int64, error) {
	fileName := s.getFullPath(path)
	file, err := os.Open(fileName)
	if err != nil {
		return 0, err
	}
	result, err := io.Copy(writer, file)
	file.Close()
	return result, err
}

func (s *DiskStorage) Serve(path string, request *http.Request, writer http.ResponseWriter) {
	fileName := s.getFullPath(path)
	http.ServeFile(writer, request, fileName)
}

func (s *DiskStorage) Delete(path string) error {
	return os.Remove(s.getFullPath(path))
}
