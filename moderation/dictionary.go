package moderation

import (
	"bufio"
	"bytes"
	"io/fs"
	"path"
	"strings"

	"github.com/samber/lo"
)

// Dictionary carries the loaded censored words and the languages they came from.
type Dictionary struct {
	Words     []string
	Languages []string
}

// LoadDictionary reads every .txt file of dir, one word per line.
// The file name is the language ("fr.txt" -> "fr"). Extra words are merged in.
// Duplicates and blank lines are dropped.
func LoadDictionary(fsys fs.FS, dir string, extra ...string) (Dictionary, error) {
	words := lo.Map(extra, func(w string, _ int) string { return strings.TrimSpace(w) })
	var languages []string

	if fsys != nil {
		entries, err := fs.ReadDir(fsys, dir)
		if err != nil {
			return Dictionary{}, err
		}
		for _, entry := range entries {
			if entry.IsDir() || path.Ext(entry.Name()) != ".txt" {
				continue
			}
			languages = append(languages, strings.TrimSuffix(entry.Name(), ".txt"))

			data, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
			if err != nil {
				return Dictionary{}, err
			}
			// Scanner handles \n and \r\n alike
			scanner := bufio.NewScanner(bytes.NewReader(data))
			for scanner.Scan() {
				words = append(words, strings.TrimSpace(scanner.Text()))
			}
			if err := scanner.Err(); err != nil {
				return Dictionary{}, err
			}
		}
	}

	return Dictionary{
		Words:     lo.Uniq(lo.Compact(words)),
		Languages: languages,
	}, nil
}
