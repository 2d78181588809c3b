package publish

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"distzip/internal/adapters/osfs"
	"distzip/internal/mocks"
)

func TestPublishRenames(t *testing.T) {
	base := t.TempDir()
	tempPath := filepath.Join(base, "staging", "archive.tmp")
	if err := os.MkdirAll(filepath.Dir(tempPath), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	content := []byte("zip bytes")
	if err := os.WriteFile(tempPath, content, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	finalPath := filepath.Join(base, "out", "nested", "dist.zip")
	got, err := Publish(osfs.New(), tempPath, finalPath)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if got != finalPath {
		t.Errorf("final path = %q, want %q", got, finalPath)
	}
	data, err := os.ReadFile(finalPath)
	if err != nil {
		t.Fatalf("reading published archive: %v", err)
	}
	if !bytes.Equal(data, content) {
		t.Error("published archive differs from temp file")
	}
	if _, err := os.Stat(tempPath); !os.IsNotExist(err) {
		t.Error("temp file still present after rename")
	}
}

func TestPublishFallsBackToCopyDelete(t *testing.T) {
	fsys := mocks.NewMockFileSystem()
	content := []byte("archive payload")
	fsys.Files["/tmp/stage.zip"] = content
	fsys.RenameErr = errors.New("invalid cross-device link")

	got, err := Publish(fsys, "/tmp/stage.zip", "/vol/out/dist.zip")
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if got != "/vol/out/dist.zip" {
		t.Errorf("final path = %q", got)
	}
	if !bytes.Equal(fsys.Files["/vol/out/dist.zip"], content) {
		t.Error("copied archive not byte-identical to temp file")
	}
	if _, ok := fsys.Files["/tmp/stage.zip"]; ok {
		t.Error("temp file not deleted after copy fallback")
	}
}

func TestPublishFallbackFailurePreservesTemp(t *testing.T) {
	fsys := mocks.NewMockFileSystem()
	fsys.Files["/tmp/stage.zip"] = []byte("precious data")
	fsys.RenameErr = errors.New("invalid cross-device link")
	fsys.Errors["create:/vol/out/dist.zip"] = errors.New("permission denied")

	_, err := Publish(fsys, "/tmp/stage.zip", "/vol/out/dist.zip")
	if err == nil {
		t.Fatal("expected error when both rename and copy fail")
	}
	if _, ok := fsys.Files["/tmp/stage.zip"]; !ok {
		t.Error("temp file lost even though publication failed")
	}
}

func TestPublishFallbackWriteFailureDropsPartialCopy(t *testing.T) {
	fsys := mocks.NewMockFileSystem()
	fsys.Files["/tmp/stage.zip"] = []byte("payload")
	fsys.RenameErr = errors.New("invalid cross-device link")
	fsys.Errors["write:/vol/out/dist.zip"] = errors.New("no space left on device")

	_, err := Publish(fsys, "/tmp/stage.zip", "/vol/out/dist.zip")
	if err == nil {
		t.Fatal("expected error from failing copy")
	}
	if _, ok := fsys.Files["/tmp/stage.zip"]; !ok {
		t.Error("temp file removed after failed copy")
	}
	for _, removed := range fsys.Removed {
		if removed == "/tmp/stage.zip" {
			t.Error("temp file removed after failed copy")
		}
	}
}

func TestPublishMkdirFailure(t *testing.T) {
	fsys := mocks.NewMockFileSystem()
	fsys.Files["/tmp/stage.zip"] = []byte("payload")
	fsys.Errors["/vol/out"] = errors.New("read-only file system")

	_, err := Publish(fsys, "/tmp/stage.zip", "/vol/out/dist.zip")
	if err == nil {
		t.Fatal("expected error when destination directory cannot be created")
	}
	if _, ok := fsys.Files["/tmp/stage.zip"]; !ok {
		t.Error("temp file lost on mkdir failure")
	}
}
