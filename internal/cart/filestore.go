package cart

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FilePersister хранит корзины в каталоге на диске: одна сессия — один JSON-файл.
// Запись выполняется во временный файл с последующим переименованием, чтобы
// читатель никогда не увидел частично записанную корзину.
type FilePersister struct {
	dir string
}

// NewFilePersister создаёт хранитель корзин в указанном каталоге.
func NewFilePersister(dir string) (*FilePersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cart dir: %w", err)
	}
	return &FilePersister{dir: dir}, nil
}

// Save записывает строки корзины сессии на диск.
func (p *FilePersister) Save(sessionID string, lines []Line) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}

	path := p.path(sessionID)
	tmp := path + ".tmp"

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write cart file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename cart file: %w", err)
	}
	return nil
}

// Load читает строки корзины сессии. Отсутствие файла означает пустую корзину.
func (p *FilePersister) Load(sessionID string) ([]Line, error) {
	data, err := os.ReadFile(p.path(sessionID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read cart file: %w", err)
	}

	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}
	return lines, nil
}

func (p *FilePersister) path(sessionID string) string {
	return filepath.Join(p.dir, sessionID+".json")
}
