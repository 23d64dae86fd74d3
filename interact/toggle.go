package interact

import "os"

// maxStoreSize guards against toggling inside unexpectedly large
// documents.
const maxStoreSize = 1 << 20

// ToggleCheckbox flips the Nth task marker in the store's text between
// "- [ ] " and "- [x] " and writes the result back. Markers are counted
// in byte order, zero-based, matching the TaskIndex assigned during
// parsing. It reports whether a marker was flipped and stored.
func ToggleCheckbox(store CheckboxStore, index int) bool {
	if store == nil || index < 0 {
		return false
	}
	content, err := store.Load()
	if err != nil || len(content) == 0 || len(content) > maxStoreSize {
		return false
	}
	seen := 0
	for i := 0; i+5 < len(content); i++ {
		if content[i] != '-' || content[i+1] != ' ' || content[i+2] != '[' ||
			content[i+4] != ']' || content[i+5] != ' ' {
			continue
		}
		state := content[i+3]
		if state != ' ' && state != 'x' && state != 'X' {
			continue
		}
		if seen != index {
			seen++
			continue
		}
		if state == ' ' {
			content[i+3] = 'x'
		} else {
			content[i+3] = ' '
		}
		return store.Store(content) == nil
	}
	return false
}

// FileStore is a CheckboxStore over a file on disk.
type FileStore struct {
	Path string
}

func (s FileStore) Load() ([]byte, error) {
	return os.ReadFile(s.Path)
}

func (s FileStore) Store(content []byte) error {
	return os.WriteFile(s.Path, content, 0o644)
}
