package fundamentals

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileProvider reads per-ticker fundamentals from <dir>/<TICKER>.json.
// A missing file is a provider failure, which the checker downgrades
// to a zero-penalty message rather than failing the analysis.
type FileProvider struct {
	dir string
}

func NewFileProvider(dir string) *FileProvider {
	return &FileProvider{dir: dir}
}

func (p *FileProvider) Info(ctx context.Context, ticker string) (Info, error) {
	if err := ctx.Err(); err != nil {
		return Info{}, err
	}
	path := filepath.Join(p.dir, strings.ToUpper(ticker)+".json")
	raw, err := os.ReadFile(path)
	if err != nil {
		return Info{}, fmt.Errorf("fundamentals for %s: %w", ticker, err)
	}
	var info Info
	if err := json.Unmarshal(raw, &info); err != nil {
		return Info{}, fmt.Errorf("fundamentals for %s: %w", ticker, err)
	}
	return info, nil
}
