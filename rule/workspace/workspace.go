// Package workspace tracks a directory of rule files, keeping the latest
// parse result and diagnostics for each file. It backs both the check command
// and the LSP server.
package workspace

import (
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/drl/rule/descr"
	"github.com/dhamidi/drl/rule/parser"
)

const FileExtension = ".drl"

var log = commonlog.GetLogger("drl.workspace")

type Workspace struct {
	mu      sync.RWMutex
	rootDir string
	files   map[string]*FileInfo
}

type FileInfo struct {
	Path    string
	Content []byte
	Package *descr.PackageDescr
	Errors  []*parser.ParseError
}

func New(rootDir string) *Workspace {
	return &Workspace{
		rootDir: rootDir,
		files:   make(map[string]*FileInfo),
	}
}

func (w *Workspace) RootDir() string {
	return w.rootDir
}

func (w *Workspace) ScanAll() error {
	return filepath.Walk(w.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			return nil
		}
		if filepath.Ext(path) == FileExtension {
			w.ScanFile(path)
		}
		return nil
	})
}

func (w *Workspace) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	w.UpdateFile(path, content)
	return nil
}

// UpdateFile re-parses content and replaces the file's entry. Each update
// uses a fresh parser instance; nothing is shared across parses.
func (w *Workspace) UpdateFile(path string, content []byte) *FileInfo {
	p := parser.New(content, parser.WithSource(path))
	pkg := p.ParseCompilationUnit()

	info := &FileInfo{
		Path:    path,
		Content: content,
		Package: pkg,
		Errors:  p.Errors(),
	}

	w.mu.Lock()
	w.files[path] = info
	w.mu.Unlock()

	log.Debugf("parsed %s: package %q, %d rules, %d errors",
		path, pkg.Name, len(pkg.Rules), len(info.Errors))
	return info
}

func (w *Workspace) GetFile(path string) *FileInfo {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.files[path]
}

func (w *Workspace) RemoveFile(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.files, path)
}

// Files returns the tracked files ordered by path.
func (w *Workspace) Files() []*FileInfo {
	w.mu.RLock()
	defer w.mu.RUnlock()
	result := make([]*FileInfo, 0, len(w.files))
	for _, info := range w.files {
		result = append(result, info)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Path < result[j].Path
	})
	return result
}
