package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"
)

// DefaultMinPassageLength is the rune count below which a paragraph is
// folded into its neighbor instead of becoming a passage of its own.
const DefaultMinPassageLength = 40

var corpusExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
}

// Loader reads a corpus from disk and cuts it into passages. Loading the
// same tree twice yields identical passages in identical order.
type Loader struct {
	minLength int
}

func NewLoader(minLength int) *Loader {
	if minLength <= 0 {
		minLength = DefaultMinPassageLength
	}
	return &Loader{minLength: minLength}
}

// Load reads a single document or every document under a directory and
// returns the corpus passages in path order.
func (l *Loader) Load(path string) ([]Passage, error) {
	docs, err := l.LoadDocuments(path)
	if err != nil {
		return nil, err
	}
	return l.Split(docs)
}

// LoadDocuments resolves path to its documents without splitting them. A
// directory is walked recursively for known text extensions, honoring
// .askgateignore; a file is read as-is.
func (l *Loader) LoadDocuments(path string) ([]Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, ErrSourceNotFound)
		}
		return nil, fmt.Errorf("stat corpus: %w", err)
	}

	if !info.IsDir() {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read document: %w", err)
		}
		return []Document{{Path: filepath.Base(path), Content: string(content)}}, nil
	}

	return l.loadDir(path)
}

func (l *Loader) loadDir(root string) ([]Document, error) {
	ignore, err := NewIgnoreMatcher(root)
	if err != nil {
		return nil, fmt.Errorf("read ignore file: %w", err)
	}

	var docs []Document
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if info.Name() == StateDirName || info.Name() == ".git" {
				return filepath.SkipDir
			}
			if path != root && ignore.MatchDir(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if !corpusExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		if ignore.Match(path) {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		docs = append(docs, Document{
			Path:    filepath.ToSlash(relPath),
			Content: string(content),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk corpus: %w", err)
	}

	if len(docs) == 0 {
		return nil, fmt.Errorf("%s: no documents: %w", root, ErrSourceNotFound)
	}

	// Walk order is already lexical, the sort pins it after slash
	// normalization so passage IDs match across platforms.
	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs, nil
}

// Split cuts documents into passages on blank-line boundaries. Paragraphs
// below the minimum length merge into the following one; a short trailing
// fragment joins the paragraph before it.
func (l *Loader) Split(docs []Document) ([]Passage, error) {
	var passages []Passage
	for _, doc := range docs {
		for i, text := range splitParagraphs(doc.Content, l.minLength) {
			passages = append(passages, Passage{
				ID:     PassageID(doc.Path, i),
				Text:   text,
				Source: doc.Path,
				Seq:    len(passages),
			})
		}
	}
	if len(passages) == 0 {
		return nil, ErrEmptyCorpus
	}
	return passages, nil
}

func splitParagraphs(content string, minLength int) []string {
	var paras []string
	var cur []string

	flush := func() {
		if len(cur) == 0 {
			return
		}
		p := strings.TrimSpace(strings.Join(cur, "\n"))
		cur = cur[:0]
		if p != "" {
			paras = append(paras, p)
		}
	}

	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		cur = append(cur, line)
	}
	flush()

	return mergeShort(paras, minLength)
}

func mergeShort(paras []string, minLength int) []string {
	if len(paras) <= 1 {
		return paras
	}

	var out []string
	carry := ""
	for _, p := range paras {
		if carry != "" {
			p = carry + "\n\n" + p
			carry = ""
		}
		if utf8.RuneCountInString(p) < minLength {
			carry = p
			continue
		}
		out = append(out, p)
	}
	if carry != "" {
		if len(out) == 0 {
			return []string{carry}
		}
		out[len(out)-1] += "\n\n" + carry
	}
	return out
}
