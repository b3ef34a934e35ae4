package interchange

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/errors"
)

const copyBufferSize = 256 * 1024

// copyFile copies src to dst, creating or truncating dst.
func copyFile(dst, src string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	buf := make([]byte, copyBufferSize)
	if _, err := io.CopyBuffer(out, in, buf); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// fileExists reports whether path names a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// safeFileName turns a lifelist name into a file name.
func safeFileName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	if name == "" || name == "." || name == ".." {
		return "lifelist"
	}
	return name
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.New(err).
			Component("interchange").
			Category(errors.CategoryExport).
			Context("path", path).
			Build()
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New(err).
			Component("interchange").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.New(err).
			Component("interchange").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.New(err).
			Component("interchange").
			Category(errors.CategoryFileParsing).
			Context("path", path).
			Build()
	}
	return nil
}

func validateDocument(doc any) error {
	if err := validate.Struct(doc); err != nil {
		return errors.New(err).
			Component("interchange").
			Category(errors.CategoryValidation).
			Build()
	}
	return nil
}

// ensureDir creates dir and its parents.
func ensureDir(dir string) error {
	if err := os.MkdirAll(filepath.Clean(dir), 0o755); err != nil {
		return errors.New(err).
			Component("interchange").
			Category(errors.CategoryFileIO).
			Context("dir", dir).
			Build()
	}
	return nil
}
